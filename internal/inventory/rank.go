// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package inventory

import (
	"net/netip"
	"sort"
	"strings"

	"pathtrace.dev/pathtrace/internal/model"
)

// RankCandidates orders a needs_input/ambiguous_hop candidate list by
// topological closeness to ip, for human readability only — it never
// narrows the candidate set and never picks a winner on its own
// (spec.md §4.6 steps 3/4 are unaffected). Closeness is the count of
// shared leading octets between ip and each device's closest owned
// subnet, matching the "closeness" notion in
// original_source/pathtracer/discovery.py's candidate scoring, adapted
// here into a total order instead of a single best guess.
func RankCandidates(ip string, devices []model.Device, reason string) []model.Candidate {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))

	type scored struct {
		candidate model.Candidate
		score     int
	}
	ranked := make([]scored, len(devices))
	for i, d := range devices {
		s := scored{candidate: model.Candidate{
			Hostname:     d.Hostname,
			ManagementIP: d.ManagementIP,
			Site:         d.Site,
			Reason:       reason,
		}}
		if err == nil {
			s.score = closeness(addr, d.Subnets)
		}
		ranked[i] = s
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	candidates := make([]model.Candidate, len(ranked))
	for i, r := range ranked {
		candidates[i] = r.candidate
	}
	return candidates
}

// closeness returns the maximum shared-octet count between addr and the
// network address of any subnet in subnets.
func closeness(addr netip.Addr, subnets []string) int {
	best := 0
	for _, s := range subnets {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(s))
		if err != nil || !prefix.Addr().Is4() || !addr.Is4() {
			continue
		}
		if score := sharedOctets(addr.As4(), prefix.Addr().As4()); score > best {
			best = score
		}
	}
	return best
}

func sharedOctets(a, b [4]byte) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			break
		}
		n++
	}
	return n
}
