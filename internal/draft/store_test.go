// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-imap/v2/imapserver"
	"github.com/emersion/go-imap/v2/imapserver/imapmemserver"
	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/faculty-outreach/pkg/types"
)

const (
	testIMAPUser     = "student@example.com"
	testIMAPPassword = "app-password"
	testDrafts       = "Drafts"
)

// startIMAPServer runs an in-memory IMAP-over-TLS server with one user
// owning INBOX and Drafts. It returns the listen address and a client TLS
// config trusting the server certificate.
func startIMAPServer(t *testing.T) (string, *tls.Config) {
	t.Helper()

	// httptest provides a certificate valid for 127.0.0.1 and a pool trusting it.
	certSrv := httptest.NewTLSServer(http.NotFoundHandler())
	t.Cleanup(certSrv.Close)
	serverTLS := &tls.Config{Certificates: certSrv.TLS.Certificates}
	clientTLS := &tls.Config{RootCAs: certSrv.Client().Transport.(*http.Transport).TLSClientConfig.RootCAs}

	user := imapmemserver.NewUser(testIMAPUser, testIMAPPassword)
	require.NoError(t, user.Create("INBOX", nil))
	require.NoError(t, user.Create(testDrafts, nil))
	mem := imapmemserver.New()
	mem.AddUser(user)

	srv := imapserver.New(&imapserver.Options{
		NewSession: func(*imapserver.Conn) (imapserver.Session, *imapserver.GreetingData, error) {
			return mem.NewSession(), nil, nil
		},
		Caps: imap.CapSet{
			imap.CapIMAP4rev1: {},
			imap.CapIMAP4rev2: {},
		},
		TLSConfig: serverTLS,
	})

	ln, err := tls.Listen("tcp", "127.0.0.1:0", serverTLS)
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Close() })

	return ln.Addr().String(), clientTLS
}

// fetchMailbox logs in and returns the flags and subjects of every message in mailbox.
func fetchMailbox(t *testing.T, addr string, tlsCfg *tls.Config, mailbox string) ([][]imap.Flag, []string) {
	t.Helper()
	c, err := imapclient.DialTLS(addr, &imapclient.Options{TLSConfig: tlsCfg})
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Login(testIMAPUser, testIMAPPassword).Wait())

	sel, err := c.Select(mailbox, nil).Wait()
	require.NoError(t, err)
	if sel.NumMessages == 0 {
		return nil, nil
	}

	msgs, err := c.Fetch(imap.SeqSetNum(1), &imap.FetchOptions{Flags: true, Envelope: true}).Collect()
	require.NoError(t, err)
	var flags [][]imap.Flag
	var subjects []string
	for _, m := range msgs {
		flags = append(flags, m.Flags)
		subjects = append(subjects, m.Envelope.Subject)
	}
	return flags, subjects
}

func testDraftMessage(t *testing.T) []byte {
	t.Helper()
	raw, err := BuildMessage(Message{
		From:    mail.Address{Address: testIMAPUser},
		To:      mail.Address{Name: "Jane Smith", Address: "jane@a.edu"},
		Subject: "Research question",
		Content: "Dear Professor Smith,\nHello.",
		Date:    time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return raw
}

func TestIMAPStoreSaveDraft(t *testing.T) {
	addr, tlsCfg := startIMAPServer(t)

	store := NewIMAPStore(types.MailConfig{
		IMAPAddr:      addr,
		Username:      testIMAPUser,
		Password:      testIMAPPassword,
		DraftsMailbox: testDrafts,
	})
	store.TLSConfig = tlsCfg

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, store.SaveDraft(ctx, testDraftMessage(t)))

	flags, subjects := fetchMailbox(t, addr, tlsCfg, testDrafts)
	require.Len(t, flags, 1)
	assert.Contains(t, flags[0], imap.FlagDraft)
	assert.Equal(t, []string{"Research question"}, subjects)

	inboxFlags, _ := fetchMailbox(t, addr, tlsCfg, "INBOX")
	assert.Empty(t, inboxFlags)
}

func TestIMAPStoreErrors(t *testing.T) {
	addr, tlsCfg := startIMAPServer(t)
	ctx := context.Background()

	t.Run("missing password", func(t *testing.T) {
		store := NewIMAPStore(types.MailConfig{IMAPAddr: addr, Username: testIMAPUser})
		store.TLSConfig = tlsCfg
		assert.ErrorContains(t, store.SaveDraft(ctx, testDraftMessage(t)), "username/password is required")
	})

	t.Run("missing username", func(t *testing.T) {
		store := NewIMAPStore(types.MailConfig{IMAPAddr: addr, Password: testIMAPPassword})
		store.TLSConfig = tlsCfg
		assert.ErrorContains(t, store.SaveDraft(ctx, testDraftMessage(t)), "username/password is required")
	})

	t.Run("wrong password", func(t *testing.T) {
		store := NewIMAPStore(types.MailConfig{IMAPAddr: addr, Username: testIMAPUser, Password: "nope", DraftsMailbox: testDrafts})
		store.TLSConfig = tlsCfg
		assert.ErrorContains(t, store.SaveDraft(ctx, testDraftMessage(t)), "imap login")
	})

	t.Run("unknown mailbox", func(t *testing.T) {
		store := NewIMAPStore(types.MailConfig{IMAPAddr: addr, Username: testIMAPUser, Password: testIMAPPassword, DraftsMailbox: "Nope"})
		store.TLSConfig = tlsCfg
		assert.ErrorContains(t, store.SaveDraft(ctx, testDraftMessage(t)), "imap select Nope")
	})

	t.Run("server unreachable", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		closed := ln.Addr().String()
		require.NoError(t, ln.Close())

		store := NewIMAPStore(types.MailConfig{IMAPAddr: closed, Username: testIMAPUser, Password: testIMAPPassword})
		store.TLSConfig = tlsCfg
		assert.ErrorContains(t, store.SaveDraft(ctx, testDraftMessage(t)), "imap dial tls")
	})
}
