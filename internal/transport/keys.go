// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package transport

import (
	"os"

	"golang.org/x/crypto/ssh"
)

// loadSigner reads and parses an unencrypted private key file for public
// key authentication.
func loadSigner(path string) (ssh.Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(raw)
}
