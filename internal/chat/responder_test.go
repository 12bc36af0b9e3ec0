package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
}

func TestRespond_KnownTopics(t *testing.T) {
	responder := NewResponder(fixedClock)

	tests := []struct {
		message string
		want    string
	}{
		{"Tell me about Genesis", "Genesis is the first book"},
		{"what happened at THE CREATION?", "Genesis is the first book"},
		{"Who is Jesus?", "central figure of Christianity"},
		{"christ's ministry", "central figure of Christianity"},
		{"explain the ten commandments", "Ten Commandments"},
		{"I love the psalms", "Book of Psalms"},
	}

	for _, tt := range tests {
		reply := responder.Respond(tt.message)
		assert.Contains(t, reply.Text, tt.want, "message %q", tt.message)
	}
}

func TestRespond_FallbackEchoesQuestion(t *testing.T) {
	responder := NewResponder(fixedClock)

	reply := responder.Respond("who was Melchizedek?")

	assert.Contains(t, reply.Text, `"who was Melchizedek?"`)
}

func TestRespond_TimestampIsISO8601(t *testing.T) {
	responder := NewResponder(fixedClock)

	reply := responder.Respond("anything")

	assert.Equal(t, "2024-06-01T12:30:00.000Z", reply.Timestamp)
}

func TestRespond_NilClockDefaultsToNow(t *testing.T) {
	responder := NewResponder(nil)

	reply := responder.Respond("anything")

	parsed, err := time.Parse(time.RFC3339, reply.Timestamp)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
}
