// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package transport is the concrete remote-shell session device drivers
// use to implement send_command (spec.md §4.5 leaves this an external
// capability; SPEC_FULL.md §4.9 makes it a real, wired dependency). One
// Session wraps one golang.org/x/crypto/ssh client/session pair, scoped
// to a single hop per spec.md §4.5's "connect, issue queries, disconnect"
// discipline.
package transport

import (
	"context"
	"net"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	pterrors "pathtrace.dev/pathtrace/internal/errors"
)

const (
	// DefaultConnectTimeout bounds the TCP dial + SSH handshake.
	DefaultConnectTimeout = 30 * time.Second
	// DefaultReadTimeout bounds a single command's round trip.
	DefaultReadTimeout = 60 * time.Second
)

// Credentials is the minimal shape a Session needs to authenticate,
// decoupled from internal/credentials so transport has no import-time
// dependency on how credentials are stored.
type Credentials struct {
	Username     string
	Password     string
	EnableSecret string
	SSHKeyFile   string
}

// Session is one scoped remote shell session to a single device.
type Session struct {
	client  *ssh.Client
	timeout time.Duration
}

// Connect dials addr (host:port, port defaulted to 22 if absent) and
// completes an SSH handshake using creds, classifying the failure as
// KindConnection (dial/handshake transport failure) or KindAuth
// (rejected credentials) per spec.md §4.5's "must raise auth_error or
// connection_error distinctly".
func Connect(ctx context.Context, addr string, creds Credentials) (*Session, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}

	deadline, ok := ctx.Deadline()
	timeout := DefaultConnectTimeout
	if ok {
		if d := time.Until(deadline); d > 0 {
			timeout = d
		}
	}

	config := &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            authMethods(creds),
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // management-plane read-only queries, no host-key distribution story in scope
		Timeout:         timeout,
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, pterrors.Wrapf(err, pterrors.KindConnection, "transport: dial %s", addr)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		if isAuthFailure(err) {
			return nil, pterrors.Wrapf(err, pterrors.KindAuth, "transport: authenticate to %s", addr)
		}
		return nil, pterrors.Wrapf(err, pterrors.KindConnection, "transport: handshake with %s", addr)
	}

	return &Session{client: ssh.NewClient(clientConn, chans, reqs), timeout: DefaultReadTimeout}, nil
}

func authMethods(creds Credentials) []ssh.AuthMethod {
	var methods []ssh.AuthMethod
	if creds.Password != "" {
		methods = append(methods, ssh.Password(creds.Password))
	}
	if creds.SSHKeyFile != "" {
		if signer, err := loadSigner(creds.SSHKeyFile); err == nil {
			methods = append(methods, ssh.PublicKeys(signer))
		}
	}
	return methods
}

func isAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain") ||
		strings.Contains(msg, "ssh: handshake failed") && strings.Contains(msg, "authenticat")
}

// Send runs cmd in a fresh SSH session (one exec channel per command,
// matching how CLI-driven network devices expect one command per
// channel) and returns its combined output.
func (s *Session) Send(ctx context.Context, cmd string) (string, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return "", pterrors.Wrapf(err, pterrors.KindCommand, "transport: open session for %q", cmd)
	}
	defer sess.Close()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := sess.CombinedOutput(cmd)
		done <- result{out: out, err: err}
	}()

	deadline := s.timeout
	if d, ok := ctx.Deadline(); ok {
		if remaining := time.Until(d); remaining > 0 && remaining < deadline {
			deadline = remaining
		}
	}

	select {
	case r := <-done:
		if r.err != nil {
			return "", pterrors.Wrapf(r.err, pterrors.KindCommand, "transport: command %q failed", cmd)
		}
		return string(r.out), nil
	case <-time.After(deadline):
		return "", pterrors.Errorf(pterrors.KindCommand, "transport: command %q timed out after %s", cmd, deadline)
	case <-ctx.Done():
		return "", pterrors.Wrapf(ctx.Err(), pterrors.KindCommand, "transport: command %q cancelled", cmd)
	}
}

// Close tears down the underlying SSH client. Safe to call once per
// Session, matching the driver's scoped disconnect.
func (s *Session) Close() error {
	return s.client.Close()
}
