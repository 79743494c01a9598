// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups this tool's entries in the OS keychain.
const KeyringService = "faculty-outreach"

// ErrNoIMAPPassword is returned when neither the environment, the secrets
// directory nor the keyring holds an app password.
var ErrNoIMAPPassword = errors.New("IMAP password not found (set EMAIL_APP_PW or store it in the keyring)")

// IMAPKeyringAccount names the keyring entry for a mailbox login.
func IMAPKeyringAccount(username, addr string) string {
	host := addr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return fmt.Sprintf("imap:%s@%s", username, host)
}

// IMAPPassword resolves the app password, falling back to the keyring entry
// for account.
func (r Resolver) IMAPPassword(account string) (string, error) {
	if pw := r.Lookup(AppPasswordEnv, AppPasswordFile); pw != "" {
		return pw, nil
	}
	if strings.TrimSpace(account) != "" {
		pw, err := keyring.Get(KeyringService, account)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	return "", ErrNoIMAPPassword
}

// SetIMAPPassword stores password in the keyring under account.
func SetIMAPPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

// DeleteIMAPPassword removes the keyring entry for account.
func DeleteIMAPPassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
