// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package drivers

import (
	"context"
	"net"

	"pathtrace.dev/pathtrace/internal/credentials"
	pterrors "pathtrace.dev/pathtrace/internal/errors"
	"pathtrace.dev/pathtrace/internal/logging"
	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/transport"
)

// Session is the shared connect/send/disconnect plumbing every concrete
// vendor driver embeds, matching the teacher's RunCommand-returns-
// (string, error) shape (internal/network/routing.go) generalised to a
// per-hop remote session instead of a local exec. Concrete drivers embed
// *Session and add their own vendor-specific command building and output
// parsing on top.
type Session struct {
	Device model.Device
	Creds  credentials.Set

	session *transport.Session
	log     *logging.Logger
}

// NewSession builds the shared embedding for a concrete vendor driver.
func NewSession(device model.Device, creds credentials.Set) *Session {
	return &Session{
		Device: device,
		Creds:  creds,
		log:    logging.With("device", device.Hostname, "vendor", device.Vendor),
	}
}

// Connect opens the remote shell session used by every subsequent
// command on this driver.
func (s *Session) Connect(ctx context.Context) error {
	addr := net.JoinHostPort(s.Device.ManagementIP, "22")
	sess, err := transport.Connect(ctx, addr, transport.Credentials{
		Username:     s.Creds.Username,
		Password:     string(s.Creds.Password),
		EnableSecret: string(s.Creds.EnableSecret),
		SSHKeyFile:   s.Creds.SSHKeyFile,
	})
	if err != nil {
		return err
	}
	s.session = sess
	s.log.Debug("connected")
	return nil
}

// Disconnect tears down the session; safe to call even if Connect
// failed or was never called.
func (s *Session) Disconnect() error {
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	return err
}

// Send runs one command on the already-established session.
func (s *Session) Send(ctx context.Context, cmd string) (string, error) {
	if s.session == nil {
		return "", pterrors.Errorf(pterrors.KindConnection, "not connected to %s", s.Device.Hostname)
	}
	out, err := s.session.Send(ctx, cmd)
	if err != nil {
		s.log.Warn("command failed", "command", cmd, "error", err)
		return "", err
	}
	return out, nil
}

// BestEffortDetail runs fn and, on any error, logs it and returns nil
// rather than failing the caller. It is typed for interface detail and
// is the idiom behind the drivers' GetInterfaceDetail (spec.md §4.5/§4.6
// step 4c-4e); zone, policy and NAT lookups do not go through it.
func (s *Session) BestEffortDetail(what string, fn func() (*model.InterfaceDetail, error)) *model.InterfaceDetail {
	detail, err := fn()
	if err != nil {
		s.log.Warn("best-effort lookup failed", "what", what, "error", err)
		return nil
	}
	return detail
}
