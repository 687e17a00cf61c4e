// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package credentials loads and stores named credential sets for device
// access (spec.md §4.3, §6). Grounded on
// original_source/services/pathtrace-api/pathtracer/credentials.py,
// re-expressed in the teacher's load-returns-(value,error) idiom instead
// of a mutating constructor.
package credentials

import (
	"os"

	"gopkg.in/yaml.v3"

	pterrors "pathtrace.dev/pathtrace/internal/errors"
)

// Set is one named credential bundle. Secrets are SecureString so they
// never leak through a log line or an accidental %v.
type Set struct {
	Username     string       `yaml:"username" json:"username"`
	Password     SecureString `yaml:"password,omitempty" json:"password,omitempty"`
	EnableSecret SecureString `yaml:"secret,omitempty" json:"-"`
	SSHKeyFile   string       `yaml:"ssh_key_file,omitempty" json:"ssh_key_file,omitempty"`
	APIToken     SecureString `yaml:"api_token,omitempty" json:"-"`
}

// document is the on-disk shape of a credentials file (spec.md §6).
type document struct {
	Credentials map[string]Set `yaml:"credentials"`
}

// Store is a read-only, in-memory mapping from credential reference name
// to Set. Once built at startup it is safe for concurrent read access by
// any number of in-flight traces (spec.md §5).
type Store struct {
	sets map[string]Set
}

// NewStore wraps an already-built set map, primarily for tests.
func NewStore(sets map[string]Set) *Store {
	if sets == nil {
		sets = map[string]Set{}
	}
	return &Store{sets: sets}
}

// LoadFile parses a YAML credentials document (spec.md §6) into a Store.
func LoadFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pterrors.Wrapf(err, pterrors.KindConfiguration, "credentials: read %s", path)
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, pterrors.Wrapf(err, pterrors.KindConfiguration, "credentials: parse %s", path)
	}
	return NewStore(doc.Credentials), nil
}

// LoadEnv builds a single "default" credential set from the
// PATHTRACE_USER/PATHTRACE_PASS/PATHTRACE_SECRET/PATHTRACE_SSH_KEY
// environment variables (spec.md §6). It returns an empty Store if
// PATHTRACE_USER is unset — there is nothing to fall back to further.
func LoadEnv() *Store {
	user := os.Getenv("PATHTRACE_USER")
	if user == "" {
		return NewStore(nil)
	}
	return NewStore(map[string]Set{
		"default": {
			Username:     user,
			Password:     SecureString(os.Getenv("PATHTRACE_PASS")),
			EnableSecret: SecureString(os.Getenv("PATHTRACE_SECRET")),
			SSHKeyFile:   os.Getenv("PATHTRACE_SSH_KEY"),
		},
	})
}

// Load tries a credentials file first and falls back to the environment
// convention when path is empty or the file does not exist, matching the
// original CredentialManager constructor's fallback order.
func Load(path string) (*Store, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return LoadEnv(), nil
}

// Get returns the named credential set. ok is false if ref is unknown.
func (s *Store) Get(ref string) (Set, bool) {
	if ref == "" {
		ref = "default"
	}
	set, ok := s.sets[ref]
	return set, ok
}

// Has reports whether ref names a known credential set.
func (s *Store) Has(ref string) bool {
	_, ok := s.Get(ref)
	return ok
}
