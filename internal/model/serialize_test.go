// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTraceSerializationOmitsEmptyFields follows
// original_source/.../tests/test_api_serialization.py: the HTTP body must
// not carry empty optional fields (no "policy": null noise on every router
// hop that will never have one).
func TestTraceSerializationOmitsEmptyFields(t *testing.T) {
	tr := NewTrace("10.1.1.10", "10.2.2.20")
	tr.Status = StatusComplete
	tr.Hops = append(tr.Hops, Hop{
		Sequence: 1,
		Device:   Device{Hostname: "r1", ManagementIP: "10.0.0.1", Vendor: "cisco_ios"},
		Route:    &Route{Destination: "10.2.2.0/24", NextHopKind: NextHopIP, NextHop: "10.0.0.2"},
	})

	raw, err := json.Marshal(tr)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))

	assert.NotContains(t, generic, "error")
	assert.NotContains(t, generic, "metadata")

	hops := generic["hops"].([]any)
	hop := hops[0].(map[string]any)
	assert.NotContains(t, hop, "policy")
	assert.NotContains(t, hop, "nat")
	assert.NotContains(t, hop, "ingress_detail")
	assert.NotContains(t, hop, "resolve_status")
}

func TestTraceSerializationIncludesCandidatesWhenSet(t *testing.T) {
	tr := NewTrace("192.168.9.9", "10.2.2.20")
	tr.Status = StatusNeedsInput
	tr.SetCandidates([]Candidate{})

	raw, err := json.Marshal(tr)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	md := generic["metadata"].(map[string]any)
	candidates, ok := md["candidates"].([]any)
	require.True(t, ok)
	assert.Len(t, candidates, 0)
}
