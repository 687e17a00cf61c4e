// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package iputil holds the pure, total IPv4 helpers the rest of pathtrace
// builds on: validation, CIDR containment, prefix-length extraction, and
// longest-prefix match. IPv6 is rejected everywhere — it is out of scope
// (spec Non-goals).
package iputil

import (
	"net/netip"
	"strings"
)

// ValidIP reports whether s is a syntactically valid IPv4 address.
func ValidIP(s string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	return err == nil && addr.Is4()
}

// ValidNetwork reports whether s is a syntactically valid IPv4 CIDR prefix.
func ValidNetwork(s string) bool {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(s))
	return err == nil && prefix.Addr().Is4()
}

// Contains reports whether ip lies within network. Both must be valid IPv4
// values; an invalid input is simply not contained in anything.
func Contains(network, ip string) bool {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(network))
	if err != nil || !prefix.Addr().Is4() {
		return false
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil || !addr.Is4() {
		return false
	}
	return prefix.Contains(addr)
}

// PrefixLength returns the CIDR prefix length of network, or -1 if network
// is not a valid IPv4 CIDR prefix.
func PrefixLength(network string) int {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(network))
	if err != nil || !prefix.Addr().Is4() {
		return -1
	}
	return prefix.Bits()
}

// LongestPrefixMatch returns, among the networks that contain ip, the
// subset with the maximum prefix length. It returns nil if ip is not
// contained in any of networks.
func LongestPrefixMatch(ip string, networks []string) []string {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil || !addr.Is4() {
		return nil
	}

	best := -1
	var matches []string
	for _, n := range networks {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(n))
		if err != nil || !prefix.Addr().Is4() || !prefix.Contains(addr) {
			continue
		}
		bits := prefix.Bits()
		switch {
		case bits > best:
			best = bits
			matches = []string{n}
		case bits == best:
			matches = append(matches, n)
		}
	}
	return matches
}

// MaskToPrefixLength converts a dotted-decimal subnet mask (e.g.
// "255.255.255.0") to its CIDR prefix length, as seen in some firewall
// families' routing table output. Returns -1 if mask is not a valid
// contiguous IPv4 mask.
func MaskToPrefixLength(mask string) int {
	addr, err := netip.ParseAddr(strings.TrimSpace(mask))
	if err != nil || !addr.Is4() {
		return -1
	}
	bytes := addr.As4()
	bits := 0
	seenZero := false
	for _, b := range bytes {
		for i := 7; i >= 0; i-- {
			set := b&(1<<uint(i)) != 0
			if seenZero && set {
				return -1 // non-contiguous mask
			}
			if !set {
				seenZero = true
			} else {
				bits++
			}
		}
	}
	return bits
}
