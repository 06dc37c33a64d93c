package email

import (
	"fmt"
	"strings"

	"github.com/novakinetix/mailkit/pkg/validator"
)

// Message is a fully rendered email ready for a transport.
type Message struct {
	From    string   `json:"from"`
	ReplyTo string   `json:"reply_to,omitempty"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"-"`
	Text    string   `json:"-"`
	// Tag is the template name, used by providers for analytics. Empty for raw sends.
	Tag         string       `json:"tag,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a MIME part carried alongside the body. Inline parts are
// referenced from HTML as cid:<ContentID>.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	ContentID   string `json:"content_id,omitempty"`
	Data        []byte `json:"-"`
	Inline      bool   `json:"inline"`
}

// Validate checks the fields every transport relies on. Errors wrap
// ErrInvalidParams.
func (m *Message) Validate() error {
	rules := []validator.Rule{
		validator.Required("From", m.From),
		validator.RequiredSlice("To", m.To),
		validator.Required("Subject", m.Subject),
		validator.Required("HTML", m.HTML),
	}
	if strings.TrimSpace(m.From) != "" {
		rules = append(rules, validator.ValidEmail("From", m.From))
	}
	rules = append(rules, validator.ValidEmails("To", m.To)...)

	if err := validator.Apply(rules...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}

// InlineAttachments returns the attachments shown inside the HTML body.
func (m *Message) InlineAttachments() []Attachment {
	var out []Attachment
	for _, a := range m.Attachments {
		if a.Inline {
			out = append(out, a)
		}
	}
	return out
}

// RegularAttachments returns the attachments offered as downloads.
func (m *Message) RegularAttachments() []Attachment {
	var out []Attachment
	for _, a := range m.Attachments {
		if !a.Inline {
			out = append(out, a)
		}
	}
	return out
}

func (m *Message) String() string {
	return fmt.Sprintf("email to %s: %q", strings.Join(m.To, ", "), m.Subject)
}
