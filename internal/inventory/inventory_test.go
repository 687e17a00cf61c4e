// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathtrace.dev/pathtrace/internal/model"
)

const sample = `
devices:
  - hostname: r1
    management_ip: 10.0.0.1
    vendor: cisco_ios
    site: hq
    device_type: router
    subnets: ["10.1.1.0/24"]
  - hostname: r2
    management_ip: 10.0.0.2
    vendor: cisco_nxos
    site: hq
    device_type: router
    subnets: ["10.1.1.0/25"]
  - hostname: fw1
    management_ip: 10.0.0.3
    vendor: paloalto
    site: branch
    default_virtual_router: vr-trust
    subnets: ["192.168.9.0/24"]
`

func load(t *testing.T) *Inventory {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	inv, err := LoadFile(path)
	require.NoError(t, err)
	return inv
}

func TestByHostname(t *testing.T) {
	inv := load(t)
	d, ok := inv.ByHostname("r1")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", d.ManagementIP)

	_, ok = inv.ByHostname("missing")
	assert.False(t, ok)
}

func TestByManagementIP(t *testing.T) {
	inv := load(t)
	matches := inv.ByManagementIP("10.0.0.3")
	require.Len(t, matches, 1)
	assert.Equal(t, "fw1", matches[0].Hostname)
	assert.Equal(t, "vr-trust", matches[0].DefaultContext)
}

func TestBySubnetLongestPrefixMatch(t *testing.T) {
	inv := load(t)
	matches := inv.BySubnet("10.1.1.10")
	require.Len(t, matches, 1)
	assert.Equal(t, "r2", matches[0].Hostname)
}

func TestResolveFallsBackToSubnet(t *testing.T) {
	inv := load(t)
	matches := inv.Resolve("192.168.9.9")
	require.Len(t, matches, 1)
	assert.Equal(t, "fw1", matches[0].Hostname)

	matches = inv.Resolve("10.0.0.1")
	require.Len(t, matches, 1)
	assert.Equal(t, "r1", matches[0].Hostname)
}

func TestDefaultContextFallsBackToGlobal(t *testing.T) {
	inv := load(t)
	d, _ := inv.ByHostname("r1")
	assert.Equal(t, "global", d.DefaultContext)
	assert.Equal(t, []string{"global"}, d.LogicalContexts)
}

func TestDuplicateManagementIPWarning(t *testing.T) {
	inv := &Inventory{bySubnet: map[string][]model.Device{}, byHostname: map[string]model.Device{}}
	inv.add(model.Device{Hostname: "a", ManagementIP: "10.0.0.5"})
	inv.add(model.Device{Hostname: "b", ManagementIP: "10.0.0.5"})
	require.Len(t, inv.Warnings(), 1)
	assert.Contains(t, inv.Warnings()[0].Message, "duplicate management IP")
}

func TestOverlappingSubnetSameSiteWarning(t *testing.T) {
	inv := &Inventory{bySubnet: map[string][]model.Device{}, byHostname: map[string]model.Device{}}
	inv.add(model.Device{Hostname: "a", Site: "hq", Subnets: []string{"10.5.0.0/24"}})
	inv.add(model.Device{Hostname: "b", Site: "hq", Subnets: []string{"10.5.0.0/24"}})
	require.Len(t, inv.Warnings(), 1)
	assert.Contains(t, inv.Warnings()[0].Message, "overlapping subnet")
}

func TestNoWarningForOverlapAcrossDifferentSites(t *testing.T) {
	inv := &Inventory{bySubnet: map[string][]model.Device{}, byHostname: map[string]model.Device{}}
	inv.add(model.Device{Hostname: "a", Site: "hq", Subnets: []string{"10.5.0.0/24"}})
	inv.add(model.Device{Hostname: "b", Site: "branch", Subnets: []string{"10.5.0.0/24"}})
	assert.Empty(t, inv.Warnings())
}

func TestRankCandidatesOrdersByCloseness(t *testing.T) {
	devices := []model.Device{
		{Hostname: "far", Subnets: []string{"200.1.1.0/24"}},
		{Hostname: "near", Subnets: []string{"192.168.9.0/24"}},
	}
	ranked := RankCandidates("192.168.9.9", devices, "no inventory subnet matched")
	require.Len(t, ranked, 2)
	assert.Equal(t, "near", ranked[0].Hostname)
	assert.Equal(t, "no inventory subnet matched", ranked[0].Reason)
}

func TestRankCandidatesHandlesInvalidIP(t *testing.T) {
	devices := []model.Device{{Hostname: "a"}}
	ranked := RankCandidates("not-an-ip", devices, "x")
	require.Len(t, ranked, 1)
}
