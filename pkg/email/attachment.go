package email

import (
	"context"
	"log/slog"
	"net/http"
	"path"

	"github.com/novakinetix/mailkit/pkg/file"
)

// DefaultLogoContentID is the Content-ID templates reference as cid:novakinetix-logo.
const DefaultLogoContentID = "novakinetix-logo"

// WarningSink receives non-fatal problems. *slog.Logger satisfies it.
type WarningSink interface {
	WarnContext(ctx context.Context, msg string, args ...any)
}

// LogoAsset is the inline brand image. It is loaded once and never mutated.
type LogoAsset struct {
	Data        []byte
	ContentID   string
	Filename    string
	ContentType string
}

// NewLogoAsset wraps raw image bytes. The content type is sniffed.
func NewLogoAsset(data []byte, filename, contentID string) *LogoAsset {
	if contentID == "" {
		contentID = DefaultLogoContentID
	}
	return &LogoAsset{
		Data:        data,
		ContentID:   contentID,
		Filename:    path.Base(filename),
		ContentType: http.DetectContentType(data),
	}
}

// LoadLogo reads the logo from src. Failure is reported to warn and yields
// nil; the service keeps sending without the image.
func LoadLogo(ctx context.Context, src file.Source, name, contentID string, warn WarningSink) *LogoAsset {
	if src == nil || name == "" {
		warn.WarnContext(ctx, "logo asset not configured, emails will be sent without inline logo")
		return nil
	}

	data, err := src.ReadFile(ctx, name)
	if err != nil {
		warn.WarnContext(ctx, "logo asset could not be loaded, emails will be sent without inline logo",
			slog.String("path", name),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if len(data) == 0 {
		warn.WarnContext(ctx, "logo asset is empty, emails will be sent without inline logo",
			slog.String("path", name),
		)
		return nil
	}

	return NewLogoAsset(data, name, contentID)
}

// Embed attaches logo to msg as an inline part. It never fails: a missing
// logo is reported to warn and the message is left unchanged.
func Embed(ctx context.Context, msg *Message, logo *LogoAsset, warn WarningSink) {
	if logo == nil {
		warn.WarnContext(ctx, "sending without inline logo", slog.String("subject", msg.Subject))
		return
	}
	for _, a := range msg.Attachments {
		if a.ContentID == logo.ContentID {
			return
		}
	}
	msg.Attachments = append(msg.Attachments, Attachment{
		Filename:    logo.Filename,
		ContentType: logo.ContentType,
		ContentID:   logo.ContentID,
		Data:        logo.Data,
		Inline:      true,
	})
}
