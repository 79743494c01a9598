// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	raw, err := BuildMessage(Message{
		From:    mail.Address{Name: "Student", Address: "student@gmail.com"},
		To:      mail.Address{Name: "Jane Smith", Address: "jane@a.edu"},
		Subject: DefaultSubject,
		Content: "Dear Professor Smith,\n\nCould we have a <strong>15 minute chat</strong>?",
		Resume:  &Attachment{Filename: "resume.pdf", Data: []byte("%PDF-1.4 resume")},
		Date:    time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, DefaultSubject, subject)

	to, err := mr.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "jane@a.edu", to[0].Address)
	id, err := mr.Header.MessageID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	var plain, html string
	var attachName string
	var attachData []byte
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p.Body)
		require.NoError(t, err)

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := h.ContentType()
			switch ct {
			case "text/plain":
				plain = string(body)
			case "text/html":
				html = string(body)
			}
		case *mail.AttachmentHeader:
			attachName, _ = h.Filename()
			attachData = body
		}
	}

	assert.Contains(t, plain, "15 minute chat?")
	assert.NotContains(t, plain, "<strong>")
	assert.Contains(t, html, "<strong>15 minute chat</strong>")
	assert.True(t, strings.HasPrefix(html, "<html><body"))
	assert.Equal(t, "resume.pdf", attachName)
	assert.Equal(t, []byte("%PDF-1.4 resume"), attachData)
}

func TestBuildMessageWithoutResume(t *testing.T) {
	raw, err := BuildMessage(Message{
		From:    mail.Address{Address: "student@gmail.com"},
		To:      mail.Address{Address: "jane@a.edu"},
		Subject: "Hello",
		Content: "Short note.",
	})
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)
	parts := 0
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		_, isAttachment := p.Header.(*mail.AttachmentHeader)
		assert.False(t, isAttachment)
		parts++
	}
	assert.Equal(t, 2, parts)
}
