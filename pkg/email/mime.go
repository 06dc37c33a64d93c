package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/novakinetix/mailkit/pkg/sanitizer"
)

const base64LineLength = 76

// mimePart is a MIME entity: its headers and a body writer.
type mimePart struct {
	header textproto.MIMEHeader
	write  func(w io.Writer) error
}

// MIME encodes the message as an RFC 5322 document.
//
// Layout, outermost first, with absent layers skipped:
//
//	multipart/mixed          regular attachments
//	  multipart/related      inline images
//	    multipart/alternative
//	      text/plain
//	      text/html
func (m *Message) MIME(now time.Time) ([]byte, error) {
	var body []mimePart
	if m.Text != "" {
		body = append(body, textPart("text/plain", m.Text))
	}
	body = append(body, textPart("text/html", m.HTML))

	content := body[0]
	if len(body) > 1 {
		content = multipartOf("alternative", nil, body...)
	}

	if inline := m.InlineAttachments(); len(inline) > 0 {
		parts := []mimePart{content}
		for _, a := range inline {
			parts = append(parts, binaryPart(a))
		}
		content = multipartOf("related", map[string]string{"type": "multipart/alternative"}, parts...)
	}

	if regular := m.RegularAttachments(); len(regular) > 0 {
		parts := []mimePart{content}
		for _, a := range regular {
			parts = append(parts, binaryPart(a))
		}
		content = multipartOf("mixed", nil, parts...)
	}

	var buf bytes.Buffer
	writeHeader(&buf, "From", sanitizer.SingleLine(m.From))
	writeHeader(&buf, "To", sanitizer.SingleLine(strings.Join(m.To, ", ")))
	if m.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", sanitizer.SingleLine(m.ReplyTo))
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", sanitizer.SingleLine(m.Subject)))
	writeHeader(&buf, "Date", now.Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(m.From)))
	if m.Tag != "" {
		writeHeader(&buf, "X-Mailer-Tag", sanitizer.SingleLine(m.Tag))
	}
	writeHeader(&buf, "MIME-Version", "1.0")
	for _, key := range []string{"Content-Type", "Content-Transfer-Encoding"} {
		if v := content.header.Get(key); v != "" {
			writeHeader(&buf, key, v)
		}
	}
	buf.WriteString("\r\n")

	if err := content.write(&buf); err != nil {
		return nil, fmt.Errorf("encode mime body: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func domainOf(addr string) string {
	if i := strings.LastIndexByte(addr, '@'); i >= 0 && i < len(addr)-1 {
		return strings.Trim(addr[i+1:], "<> ")
	}
	return "localhost"
}

func newBoundary() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func multipartOf(subtype string, params map[string]string, parts ...mimePart) mimePart {
	boundary := newBoundary()

	p := map[string]string{"boundary": boundary}
	for k, v := range params {
		p[k] = v
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", mime.FormatMediaType("multipart/"+subtype, p))

	return mimePart{
		header: h,
		write: func(w io.Writer) error {
			mw := multipart.NewWriter(w)
			if err := mw.SetBoundary(boundary); err != nil {
				return err
			}
			for _, part := range parts {
				pw, err := mw.CreatePart(part.header)
				if err != nil {
					return err
				}
				if err := part.write(pw); err != nil {
					return err
				}
			}
			return mw.Close()
		},
	}
}

func textPart(mediaType, body string) mimePart {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", mime.FormatMediaType(mediaType, map[string]string{"charset": "UTF-8"}))
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	return mimePart{
		header: h,
		write: func(w io.Writer) error {
			qp := quotedprintable.NewWriter(w)
			if _, err := io.WriteString(qp, body); err != nil {
				return err
			}
			return qp.Close()
		},
	}
}

func binaryPart(a Attachment) mimePart {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := sanitizer.SingleLine(a.Filename)

	h := textproto.MIMEHeader{}
	if filename != "" {
		h.Set("Content-Type", mime.FormatMediaType(contentType, map[string]string{"name": filename}))
	} else {
		h.Set("Content-Type", contentType)
	}
	h.Set("Content-Transfer-Encoding", "base64")

	disposition := "attachment"
	if a.Inline {
		disposition = "inline"
	}
	if filename != "" {
		h.Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": filename}))
	} else {
		h.Set("Content-Disposition", disposition)
	}
	if a.ContentID != "" {
		h.Set("Content-ID", "<"+sanitizer.SingleLine(a.ContentID)+">")
	}

	return mimePart{
		header: h,
		write: func(w io.Writer) error {
			return writeBase64Lines(w, a.Data)
		},
	}
}

func writeBase64Lines(w io.Writer, data []byte) error {
	enc := base64.StdEncoding.EncodeToString(data)
	for len(enc) > base64LineLength {
		if _, err := io.WriteString(w, enc[:base64LineLength]+"\r\n"); err != nil {
			return err
		}
		enc = enc[base64LineLength:]
	}
	_, err := io.WriteString(w, enc+"\r\n")
	return err
}
