package chat

import (
	"strings"
	"time"
	"unicode"

	"github.com/wichananm65/menu-assistant/internal/catalog"
)

// FailureMessage is what a conversation shows when its query could not be
// answered for any reason.
const FailureMessage = "An error occurred while fetching the data. Please try again."

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Conversation is one query and, once resolved, its answer. Response stays
// nil while the query is pending.
type Conversation struct {
	ID        string             `json:"id"`
	Query     string             `json:"query"`
	Response  *string            `json:"response"`
	Items     []catalog.MenuItem `json:"items"`
	Status    Status             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

func (c *Conversation) clone() Conversation {
	cp := *c
	if c.Response != nil {
		r := *c.Response
		cp.Response = &r
	}
	cp.Items = append([]catalog.MenuItem{}, c.Items...)
	return cp
}

// PreviewLength bounds the response preview shown in the conversation list.
const PreviewLength = 80

// Summary is a list entry: the conversation plus a short preview of its
// response. Preview is empty while the query is pending.
type Summary struct {
	Conversation
	Preview string `json:"preview"`
}

func NewSummary(c Conversation) Summary {
	s := Summary{Conversation: c}
	if c.Response != nil {
		s.Preview = TruncateText(*c.Response, PreviewLength)
	}
	return s
}

// TruncateText shortens text to at most maxLength characters, backing off
// to the last whole word and appending "...". A maxLength below 1 yields "".
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	cut := strings.TrimSpace(string(runes[:maxLength]))
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i >= 0 {
		cut = strings.TrimRightFunc(cut[:i], unicode.IsSpace)
	}
	return cut + "..."
}
