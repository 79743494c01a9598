// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/emersion/go-message/mail"
)

// Attachment is a file added to a message.
type Attachment struct {
	Filename string
	Data     []byte
}

// Message holds the parts of one outreach email. Content is the prose with
// inline <strong> markup.
type Message struct {
	From    mail.Address
	To      mail.Address
	Subject string
	Content string
	Resume  *Attachment
	Date    time.Time
}

// BuildMessage renders m as multipart/mixed holding a multipart/alternative
// (plain text without tags, HTML) and, when present, the base64 résumé.
func BuildMessage(m Message) ([]byte, error) {
	htmlBody, err := RenderHTML(m.Content)
	if err != nil {
		return nil, err
	}
	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}

	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{&m.From})
	h.SetAddressList("To", []*mail.Address{&m.To})
	h.SetSubject(m.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	alt, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("creating alternative part: %w", err)
	}
	if err := writeInline(alt, "text/plain", StripTags(m.Content)); err != nil {
		return nil, err
	}
	if err := writeInline(alt, "text/html", htmlBody); err != nil {
		return nil, err
	}
	if err := alt.Close(); err != nil {
		return nil, fmt.Errorf("closing alternative part: %w", err)
	}

	if m.Resume != nil {
		var ah mail.AttachmentHeader
		ctype := mime.TypeByExtension(filepath.Ext(m.Resume.Filename))
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		ah.Set("Content-Type", ctype)
		ah.Set("Content-Transfer-Encoding", "base64")
		ah.SetFilename(filepath.Base(m.Resume.Filename))
		w, err := mw.CreateAttachment(ah)
		if err != nil {
			return nil, fmt.Errorf("creating attachment: %w", err)
		}
		if _, err := w.Write(m.Resume.Data); err != nil {
			return nil, fmt.Errorf("writing attachment: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("closing attachment: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing message: %w", err)
	}
	return buf.Bytes(), nil
}

func writeInline(alt *mail.InlineWriter, contentType, body string) error {
	var ih mail.InlineHeader
	ih.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	ih.Set("Content-Transfer-Encoding", "quoted-printable")
	w, err := alt.CreatePart(ih)
	if err != nil {
		return fmt.Errorf("creating %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return fmt.Errorf("writing %s part: %w", contentType, err)
	}
	return w.Close()
}
