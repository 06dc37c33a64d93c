package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
)

// PostmarkAPI is the subset of *postmark.Client used by PostmarkSender.
type PostmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkSender delivers messages through Postmark's transactional API.
type PostmarkSender struct {
	client PostmarkAPI
}

// NewPostmarkSender creates a Postmark-backed sender.
// Both tokens are required so a misconfigured production deploy fails at startup.
func NewPostmarkSender(cfg Config) (*PostmarkSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}

	return NewPostmarkSenderWithClient(postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)), nil
}

// NewPostmarkSenderWithClient wraps an existing client, e.g. a test double.
func NewPostmarkSenderWithClient(client PostmarkAPI) *PostmarkSender {
	return &PostmarkSender{client: client}
}

// MustNewPostmarkSender is like NewPostmarkSender but panics on invalid config.
func MustNewPostmarkSender(cfg Config) *PostmarkSender {
	s, err := NewPostmarkSender(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Send implements Sender. Open tracking is enabled and link tracking is
// limited to the HTML part. Inline attachments keep their Content-ID so
// cid: references in the body resolve.
func (s *PostmarkSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	attachments := make([]postmark.Attachment, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		att := postmark.Attachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Data),
			ContentType: a.ContentType,
		}
		if a.Inline && a.ContentID != "" {
			att.ContentID = "cid:" + a.ContentID
		}
		attachments = append(attachments, att)
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:        msg.From,
		ReplyTo:     msg.ReplyTo,
		To:          strings.Join(msg.To, ","),
		Subject:     msg.Subject,
		Tag:         msg.Tag,
		HTMLBody:    msg.HTML,
		TextBody:    msg.Text,
		TrackOpens:  true,
		TrackLinks:  "HtmlOnly",
		Attachments: attachments,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error: %d - %s", ErrFailedToSendEmail, resp.ErrorCode, resp.Message)
	}
	return nil
}
