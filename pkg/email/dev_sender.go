package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

// DevSender implements Sender for local development.
// It saves each message as HTML, plain text and JSON files to a directory
// instead of handing it to a provider.
type DevSender struct {
	dir string
	seq atomic.Uint64
	now func() time.Time
}

// NewDevSender creates a development sender that saves emails to disk.
// The directory is created on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

// emailMetadata contains the message data saved to JSON (excluding bodies).
type emailMetadata struct {
	Timestamp   string       `json:"timestamp"`
	From        string       `json:"from"`
	ReplyTo     string       `json:"reply_to,omitempty"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	Tag         string       `json:"tag,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Send writes <timestamp>_<n>_<tag or subject>.{html,txt,json} to the configured directory.
func (d *DevSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	// The sequence number keeps concurrent sends within one second apart.
	base := fmt.Sprintf("%s_%04d_%s", now.Format("2006_01_02_150405"), d.seq.Add(1), sanitizeFilename(identifier))

	files := []struct {
		ext  string
		data []byte
	}{
		{".html", []byte(msg.HTML)},
		{".txt", []byte(msg.Text)},
	}

	meta, err := json.MarshalIndent(emailMetadata{
		Timestamp:   now.Format(time.RFC3339),
		From:        msg.From,
		ReplyTo:     msg.ReplyTo,
		To:          msg.To,
		Subject:     msg.Subject,
		Tag:         msg.Tag,
		Attachments: msg.Attachments,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSendEmail, err)
	}
	files = append(files, struct {
		ext  string
		data []byte
	}{".json", meta})

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
		}
		path := filepath.Join(d.dir, base+f.ext)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return fmt.Errorf("%w: failed to write %s file: %v", ErrFailedToSendEmail, strings.TrimPrefix(f.ext, "."), err)
		}
	}

	return nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename converts a string into a safe, lowercase filename
// of at most 100 characters.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}

	return strings.ToLower(s)
}
