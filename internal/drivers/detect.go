// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package drivers

import (
	"regexp"
	"strings"
)

var (
	hostnameLine = regexp.MustCompile(`hostname\s+(\S+)`)
	pidField     = regexp.MustCompile(`PID:\s*([^,]+)`)
	snField      = regexp.MustCompile(`SN:\s*(\S+)`)
)

// ParseHostnameFromConfig extracts a hostname from "show run | include
// hostname" style output, shared across the Cisco-family drivers.
// Grounded on original_source/pathtracer/drivers/cisco_ios.py's
// detect_device_info, which does the same string split.
func ParseHostnameFromConfig(output string) string {
	if m := hostnameLine.FindStringSubmatch(output); m != nil {
		return m[1]
	}
	return ""
}

// ParseModelAndSerial extracts the first "PID: ..., SN: ..." line from
// "show inventory" style output.
func ParseModelAndSerial(output string) (model, serial string) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "PID:") {
			continue
		}
		if m := pidField.FindStringSubmatch(line); m != nil {
			model = strings.TrimSpace(m[1])
		}
		if m := snField.FindStringSubmatch(line); m != nil {
			serial = strings.TrimSpace(m[1])
		}
		break
	}
	return model, serial
}

// FirstLine returns the first non-empty line of output, used for
// "show version"-style single-line identity fields.
func FirstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
