// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package transport

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	pterrors "pathtrace.dev/pathtrace/internal/errors"
)

// fakeDevice runs a minimal single-command SSH server standing in for a
// real network device, so Connect/Send/Close can be exercised without a
// live host.
func fakeDevice(t *testing.T, reply string, allowPassword string) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(key)
	require.NoError(t, err)

	config := &ssh.ServerConfig{
		PasswordCallback: func(conn ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
			if allowPassword != "" && string(password) != allowPassword {
				return nil, pterrors.New(pterrors.KindAuth, "bad password")
			}
			return nil, nil
		},
	}
	config.AddHostKey(signer)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		serverConn, chans, reqs, err := ssh.NewServerConn(conn, config)
		if err != nil {
			conn.Close()
			return
		}
		defer serverConn.Close()
		go ssh.DiscardRequests(reqs)
		for newChan := range chans {
			channel, requests, err := newChan.Accept()
			if err != nil {
				continue
			}
			go func() {
				defer channel.Close()
				for req := range requests {
					if req.Type == "exec" {
						channel.Write([]byte(reply))
						req.Reply(true, nil)
						channel.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{0}))
						return
					}
					req.Reply(false, nil)
				}
			}()
		}
	}()

	return listener.Addr().String()
}

func TestConnectSendClose(t *testing.T) {
	addr := fakeDevice(t, "Routing entry for 10.2.2.0/24\n", "s3cret")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := Connect(ctx, addr, Credentials{Username: "netops", Password: "s3cret"})
	require.NoError(t, err)
	defer sess.Close()

	out, err := sess.Send(ctx, "show ip route 10.2.2.0")
	require.NoError(t, err)
	assert.Contains(t, out, "Routing entry")
}

func TestConnectAuthFailureIsDistinctFromConnectionFailure(t *testing.T) {
	addr := fakeDevice(t, "", "s3cret")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Connect(ctx, addr, Credentials{Username: "netops", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, pterrors.KindAuth, pterrors.GetKind(err))
}

func TestConnectRefusedIsConnectionError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, "127.0.0.1:1", Credentials{Username: "netops", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, pterrors.KindConnection, pterrors.GetKind(err))
}
