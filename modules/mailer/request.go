package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/novakinetix/mailkit/pkg/email"
	"github.com/novakinetix/mailkit/pkg/sanitizer"
)

// Recipients accepts either a single address or a list of addresses.
type Recipients []string

// UnmarshalJSON decodes "a@example.com" or ["a@example.com", "b@example.com"].
// Addresses are trimmed; null leaves the list empty.
func (r *Recipients) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = nil
		return nil
	}

	var list []string
	if len(b) > 0 && b[0] == '"' {
		var single string
		if err := json.Unmarshal(b, &single); err != nil {
			return err
		}
		list = []string{single}
	} else if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("to must be a string or an array of strings")
	}

	out := make([]string, 0, len(list))
	for _, addr := range list {
		out = append(out, sanitizer.Apply(addr, sanitizer.Trim))
	}
	*r = out
	return nil
}

// SendEmailRequest is the body of POST /send-email.
type SendEmailRequest struct {
	To           Recipients `json:"to"`
	Subject      string     `json:"subject"`
	Template     string     `json:"template,omitempty"`
	TemplateData email.Data `json:"templateData,omitempty"`
	HTMLBody     string     `json:"htmlBody,omitempty"`
}

func (r SendEmailRequest) toEmail() email.Request {
	return email.Request{
		To:       []string(r.To),
		Subject:  r.Subject,
		Template: sanitizer.Apply(r.Template, sanitizer.TrimToLower),
		Data:     r.TemplateData,
		HTMLBody: r.HTMLBody,
	}
}

// HistoryResponse is the body of GET /history.
type HistoryResponse struct {
	Records []email.SendRecord `json:"records"`
	Count   int                `json:"count"`
}

// StatusResponse is a bare acknowledgement.
type StatusResponse struct {
	Status string `json:"status"`
}

// TemplateInfo describes one catalog entry in GET /templates.
type TemplateInfo struct {
	Name     string   `json:"name"`
	Subject  string   `json:"subject"`
	Required []string `json:"required"`
	FreeText []string `json:"free_text,omitempty"`
}

// TemplatesResponse is the body of GET /templates.
type TemplatesResponse struct {
	Templates []TemplateInfo `json:"templates"`
}
