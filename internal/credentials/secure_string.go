// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package credentials

// SecureString is a string that hides its value whenever it round-trips
// through JSON or a %v/%s format verb, so a credential document or an
// in-memory Set never ends up printed into a log line or an HTTP
// response. Grounded on the teacher's config.SecureString
// (internal/config/types.go), carried over unchanged in shape.
type SecureString string

const masked = "(hidden)"

// String implements fmt.Stringer.
func (s SecureString) String() string {
	if s == "" {
		return ""
	}
	return masked
}

// GoString implements fmt.GoStringer, covering %#v.
func (s SecureString) GoString() string {
	return masked
}

// MarshalJSON masks the value for any response or log sink that marshals
// a Set directly.
func (s SecureString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte(`""`), nil
	}
	return []byte(`"` + masked + `"`), nil
}

// UnmarshalYAML accepts a plain scalar node from the credential document.
func (s *SecureString) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*s = SecureString(raw)
	return nil
}

// Plain returns the real value, for the one caller allowed to see it: the
// driver about to authenticate with a device.
func (s SecureString) Plain() string {
	return string(s)
}
