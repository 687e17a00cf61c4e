// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package iputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidIP(t *testing.T) {
	assert.True(t, ValidIP("10.1.1.10"))
	assert.False(t, ValidIP("not-an-ip"))
	assert.False(t, ValidIP("::1"), "IPv6 is out of scope")
}

func TestValidNetwork(t *testing.T) {
	assert.True(t, ValidNetwork("10.1.1.0/24"))
	assert.False(t, ValidNetwork("10.1.1.0"))
	assert.False(t, ValidNetwork("fd00::/8"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("10.1.1.0/24", "10.1.1.10"))
	assert.False(t, Contains("10.1.1.0/24", "10.2.2.10"))
	assert.False(t, Contains("garbage", "10.1.1.10"))
}

func TestPrefixLength(t *testing.T) {
	assert.Equal(t, 24, PrefixLength("10.1.1.0/24"))
	assert.Equal(t, -1, PrefixLength("not-a-cidr"))
}

func TestLongestPrefixMatch(t *testing.T) {
	nets := []string{"10.0.0.0/8", "10.1.0.0/16", "10.1.1.0/24"}
	assert.ElementsMatch(t, []string{"10.1.1.0/24"}, LongestPrefixMatch("10.1.1.10", nets))

	// Two equally-specific owners of the same prefix length are both returned.
	nets2 := []string{"10.0.0.0/24", "10.0.0.0/24", "10.0.0.0/8"}
	assert.Len(t, LongestPrefixMatch("10.0.0.5", nets2), 2)

	assert.Nil(t, LongestPrefixMatch("192.168.1.1", nets))
}

func TestMaskToPrefixLength(t *testing.T) {
	assert.Equal(t, 24, MaskToPrefixLength("255.255.255.0"))
	assert.Equal(t, 32, MaskToPrefixLength("255.255.255.255"))
	assert.Equal(t, 0, MaskToPrefixLength("0.0.0.0"))
	assert.Equal(t, -1, MaskToPrefixLength("255.0.255.0"), "non-contiguous mask")
}
