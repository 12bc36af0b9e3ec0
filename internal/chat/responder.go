// Package chat implements the scripted Bible chat responder.
package chat

import (
	"fmt"
	"strings"
	"time"
)

// replyTimeFormat matches the millisecond ISO-8601 form the clients parse.
const replyTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Reply is a single responder answer.
type Reply struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Responder produces scripted answers to Bible questions by keyword matching.
// It stands in for a real language-model backend and keeps no conversation
// state.
type Responder struct {
	now func() time.Time
}

// NewResponder creates a responder. A nil clock falls back to time.Now.
func NewResponder(now func() time.Time) *Responder {
	if now == nil {
		now = time.Now
	}
	return &Responder{now: now}
}

// Respond answers a message. Unrecognized topics get the generic fallback.
func (r *Responder) Respond(message string) Reply {
	return Reply{
		Text:      answerFor(message),
		Timestamp: r.now().UTC().Format(replyTimeFormat),
	}
}

func answerFor(message string) string {
	m := strings.ToLower(message)

	switch {
	case strings.Contains(m, "genesis") || strings.Contains(m, "creation"):
		return "Genesis is the first book of the Bible. It begins with the story of creation: 'In the beginning God created the heavens and the earth.'"
	case strings.Contains(m, "jesus") || strings.Contains(m, "christ"):
		return "Jesus Christ is the central figure of Christianity. The New Testament records his birth, ministry, death, and resurrection."
	case strings.Contains(m, "commandment") || strings.Contains(m, "commandments"):
		return "The Ten Commandments are a set of biblical principles relating to ethics and worship. They include commands to worship only God, honor one's parents, and prohibitions against idolatry, blasphemy, murder, theft, dishonesty, and adultery."
	case strings.Contains(m, "psalm") || strings.Contains(m, "psalms"):
		return "The Book of Psalms is a collection of religious songs and prayers. Psalm 23 is one of the most well-known: 'The Lord is my shepherd; I shall not want.'"
	default:
		return fmt.Sprintf("Thank you for your question about %q. In a complete implementation, this would connect to a more sophisticated AI service that could provide detailed biblical insights and references.", message)
	}
}
