// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package common holds the small regex-driven helpers shared by every
// per-vendor parser package: bandwidth-unit conversion, the
// "[preference/metric]" bracket idiom most vendors share, dotted-mask to
// CIDR conversion, and policy action-word normalisation (spec.md §4.4).
// Grounded on the repeated patterns across
// original_source/.../parsers/*.py — each vendor module reimplements
// these inline; here they are factored out once.
package common

import (
	"regexp"
	"strconv"
	"strings"

	"pathtrace.dev/pathtrace/internal/model"
)

var bracketPref = regexp.MustCompile(`\[(\d+)/(\d+)\]`)

// BracketMetric extracts the "[preference/metric]" pair most vendor CLIs
// print next to a learned route (IOS: after the protocol code; NX-OS:
// after the next hop — callers pass the substring where it is expected
// to occur).
func BracketMetric(s string) (preference, metric int, ok bool) {
	m := bracketPref.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	preference, _ = strconv.Atoi(m[1])
	metric, _ = strconv.Atoi(m[2])
	return preference, metric, true
}

var bandwidthUnit = regexp.MustCompile(`(?i)^\s*([\d.]+)\s*(bps|kbps|mbps|gbps|bits/sec|kbit/sec|mbit/sec|gbit/sec)\s*$`)

// ParseBandwidthBps parses a bandwidth string in any of the units seen
// across vendor "show interface" output and returns it normalised to
// bits per second. ok is false if s does not match a known unit.
func ParseBandwidthBps(s string) (bps float64, ok bool) {
	m := bandwidthUnit.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "bps", "bits/sec":
		return value, true
	case "kbps", "kbit/sec":
		return value * 1000, true
	case "mbps", "mbit/sec":
		return value * 1_000_000, true
	case "gbps", "gbit/sec":
		return value * 1_000_000_000, true
	default:
		return 0, false
	}
}

var dottedMask = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// MaskToPrefix converts a dotted-decimal subnet mask into its CIDR
// prefix length; ok is false when mask isn't a contiguous IPv4 mask.
func MaskToPrefix(mask string) (prefix int, ok bool) {
	if !dottedMask.MatchString(mask) {
		return 0, false
	}
	bits := 0
	seenZero := false
	for _, octetStr := range strings.Split(mask, ".") {
		octet, err := strconv.Atoi(octetStr)
		if err != nil || octet < 0 || octet > 255 {
			return 0, false
		}
		for i := 7; i >= 0; i-- {
			set := octet&(1<<uint(i)) != 0
			if seenZero && set {
				return 0, false
			}
			if !set {
				seenZero = true
			} else {
				bits++
			}
		}
	}
	return bits, true
}

// NormalizeAction maps a vendor's raw policy action word onto the
// three-value vocabulary spec.md §4.4 mandates: allow/permit/accept
// become permit; deny and drop are preserved as-is.
func NormalizeAction(raw string) model.PolicyAction {
	return model.NormalizePolicyAction(raw)
}

// TrimLines splits output into non-empty, trimmed lines, the first step
// of nearly every vendor parser.
func TrimLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
