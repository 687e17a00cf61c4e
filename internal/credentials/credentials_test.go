// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
credentials:
  default:
    username: netops
    password: s3cret
  readonly:
    username: viewer
    api_token: tok-123
`), 0o600))

	store, err := LoadFile(path)
	require.NoError(t, err)

	set, ok := store.Get("default")
	require.True(t, ok)
	assert.Equal(t, "netops", set.Username)
	assert.Equal(t, "s3cret", set.Password.Plain())

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("PATHTRACE_USER", "envuser")
	t.Setenv("PATHTRACE_PASS", "envpass")

	store, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	set, ok := store.Get("default")
	require.True(t, ok)
	assert.Equal(t, "envuser", set.Username)
	assert.Equal(t, "envpass", set.Password.Plain())
}

func TestSecureStringNeverMarshalsPlaintext(t *testing.T) {
	set := Set{Username: "u", Password: SecureString("topsecret")}
	raw, err := json.Marshal(set)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "topsecret")
	assert.Contains(t, string(raw), "(hidden)")
}
