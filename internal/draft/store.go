// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/pdiddy/faculty-outreach/pkg/types"
)

const (
	DefaultIMAPAddr      = "imap.gmail.com:993"
	DefaultDraftsMailbox = "[Gmail]/Drafts"
)

// DraftStore saves a raw RFC 5322 message as a draft.
type DraftStore interface {
	SaveDraft(ctx context.Context, raw []byte) error
}

// IMAPStore appends drafts over IMAP-over-TLS. Each SaveDraft opens its own
// session: dial, LOGIN, SELECT, APPEND with \Draft, LOGOUT.
type IMAPStore struct {
	Addr     string
	Username string
	Password string
	Mailbox  string

	// TLSConfig is used for the dial; nil means TLS 1.2 or later with
	// default verification.
	TLSConfig *tls.Config
}

// NewIMAPStore returns a store configured from cfg.
func NewIMAPStore(cfg types.MailConfig) *IMAPStore {
	s := &IMAPStore{
		Addr:     cfg.IMAPAddr,
		Username: cfg.Username,
		Password: cfg.Password,
		Mailbox:  cfg.DraftsMailbox,
	}
	if s.Addr == "" {
		s.Addr = DefaultIMAPAddr
	}
	if s.Mailbox == "" {
		s.Mailbox = DefaultDraftsMailbox
	}
	return s
}

// SaveDraft implements DraftStore.
func (s *IMAPStore) SaveDraft(ctx context.Context, raw []byte) error {
	if s.Username == "" || s.Password == "" {
		return errors.New("imap username/password is required")
	}
	tlsCfg := s.TLSConfig
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	c, err := imapclient.DialTLS(s.Addr, &imapclient.Options{TLSConfig: tlsCfg})
	if err != nil {
		return fmt.Errorf("imap dial tls: %w", err)
	}
	defer c.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()

	if err := c.Login(s.Username, s.Password).Wait(); err != nil {
		return fmt.Errorf("imap login: %w", err)
	}
	if _, err := c.Select(s.Mailbox, nil).Wait(); err != nil {
		return fmt.Errorf("imap select %s: %w", s.Mailbox, err)
	}

	cmd := c.Append(s.Mailbox, int64(len(raw)), &imap.AppendOptions{
		Flags: []imap.Flag{imap.FlagDraft},
	})
	if _, err := cmd.Write(raw); err != nil {
		return fmt.Errorf("imap append write: %w", err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap append close: %w", err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("imap append: %w", err)
	}

	if err := c.Logout().Wait(); err != nil {
		return fmt.Errorf("imap logout: %w", err)
	}
	return nil
}
