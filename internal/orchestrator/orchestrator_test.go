// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/drivers"
	"pathtrace.dev/pathtrace/internal/inventory"
	"pathtrace.dev/pathtrace/internal/model"
)

// fakeDriver is a testify mock satisfying drivers.FirewallDriver. Methods
// the orchestrator never calls (ListLogicalContexts,
// GetInterfaceToContextMapping, DetectDeviceInfo) are trivial stubs so
// tests only need to set expectations for the calls that actually matter.
type fakeDriver struct {
	mock.Mock
}

func (f *fakeDriver) Connect(ctx context.Context) error {
	args := f.Called()
	return args.Error(0)
}

func (f *fakeDriver) Disconnect() error {
	args := f.Called()
	return args.Error(0)
}

func (f *fakeDriver) GetRoute(ctx context.Context, destination, logicalContext string) (*model.Route, error) {
	args := f.Called(destination, logicalContext)
	route, _ := args.Get(0).(*model.Route)
	return route, args.Error(1)
}

func (f *fakeDriver) GetRoutingTable(ctx context.Context, logicalContext string) ([]model.Route, error) {
	return nil, nil
}

func (f *fakeDriver) ListLogicalContexts(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeDriver) GetInterfaceToContextMapping(ctx context.Context) (map[string]string, error) {
	return nil, nil
}

func (f *fakeDriver) DetectDeviceInfo(ctx context.Context) (drivers.DeviceInfo, error) {
	return drivers.DeviceInfo{}, nil
}

func (f *fakeDriver) GetInterfaceDetail(ctx context.Context, name string) (*model.InterfaceDetail, error) {
	args := f.Called(name)
	detail, _ := args.Get(0).(*model.InterfaceDetail)
	return detail, args.Error(1)
}

func (f *fakeDriver) GetZoneForInterface(ctx context.Context, interfaceName string) (string, error) {
	args := f.Called(interfaceName)
	return args.String(0), args.Error(1)
}

func (f *fakeDriver) LookupSecurityPolicy(ctx context.Context, srcIP, dstIP, proto string, port int, srcZone, dstZone string) (*model.PolicyResult, error) {
	args := f.Called(srcIP, dstIP, proto, port, srcZone, dstZone)
	policy, _ := args.Get(0).(*model.PolicyResult)
	return policy, args.Error(1)
}

func (f *fakeDriver) LookupNAT(ctx context.Context, srcIP, dstIP, proto string, port int) (*model.NATResult, error) {
	args := f.Called(srcIP, dstIP, proto, port)
	nat, _ := args.Get(0).(*model.NATResult)
	return nat, args.Error(1)
}

var _ drivers.FirewallDriver = (*fakeDriver)(nil)

func connects(f *fakeDriver) {
	f.On("Connect").Return(nil)
	f.On("Disconnect").Return(nil)
}

func loadInventory(t *testing.T, yamlBody string) *inventory.Inventory {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	inv, err := inventory.LoadFile(path)
	require.NoError(t, err)
	return inv
}

func testOrchestrator(t *testing.T, yamlBody string, byHostname map[string]*fakeDriver) *Orchestrator {
	t.Helper()
	inv := loadInventory(t, yamlBody)
	o := New(inv, credentials.NewStore(nil), nil)
	o.BuildDriver = func(device model.Device, creds credentials.Set) (drivers.Driver, error) {
		fd, ok := byHostname[device.Hostname]
		require.True(t, ok, "no fake driver registered for %s", device.Hostname)
		return fd, nil
	}
	return o
}

const twoRouterInventory = `
devices:
  - hostname: r1
    management_ip: 10.0.0.1
    vendor: cisco_ios
    device_type: router
    subnets: ["10.1.1.0/24"]
  - hostname: r2
    management_ip: 10.0.0.2
    vendor: cisco_ios
    device_type: router
    subnets: ["10.2.2.0/24"]
`

func TestTraceStraightTwoHop(t *testing.T) {
	r1 := new(fakeDriver)
	r2 := new(fakeDriver)
	connects(r1)
	connects(r2)

	r1.On("GetRoute", "10.2.2.20", "global").Return(&model.Route{
		Destination: "10.2.2.0/24", NextHop: "10.0.0.2", NextHopKind: model.NextHopIP, OutgoingInterface: "Gi0/1",
	}, nil)
	r1.On("GetInterfaceDetail", "Gi0/1").Return((*model.InterfaceDetail)(nil), nil)

	r2.On("GetRoute", "10.2.2.20", "global").Return(&model.Route{
		Destination: "10.2.2.0/24", NextHopKind: model.NextHopConnected, OutgoingInterface: "Gi0/2",
	}, nil)
	r2.On("GetInterfaceDetail", "Gi0/2").Return((*model.InterfaceDetail)(nil), nil)
	r2.On("GetInterfaceDetail", "Gi0/1").Return((*model.InterfaceDetail)(nil), nil)

	o := testOrchestrator(t, twoRouterInventory, map[string]*fakeDriver{"r1": r1, "r2": r2})
	trace := o.Trace(context.Background(), Request{SourceIP: "10.1.1.10", DestinationIP: "10.2.2.20"})

	require.Equal(t, model.StatusComplete, trace.Status)
	require.Len(t, trace.Hops, 2)
	assert.Equal(t, "r1", trace.Hops[0].Device.Hostname)
	assert.Equal(t, "Gi0/1", trace.Hops[0].EgressInterface)
	assert.Equal(t, "10.0.0.2", trace.Hops[0].Route.NextHop)
	assert.Equal(t, "r2", trace.Hops[1].Device.Hostname)
	assert.Equal(t, "Gi0/2", trace.Hops[1].EgressInterface)
}

const loopInventory = `
devices:
  - hostname: r1
    management_ip: 10.0.0.1
    vendor: cisco_ios
    device_type: router
    subnets: ["10.1.1.0/24"]
  - hostname: r2
    management_ip: 10.0.0.2
    vendor: cisco_ios
    device_type: router
    subnets: ["10.2.2.0/24"]
`

func TestTraceLoopDetected(t *testing.T) {
	r1 := new(fakeDriver)
	r2 := new(fakeDriver)
	connects(r1)
	connects(r2)

	r1.On("GetRoute", mock.Anything, "global").Return(&model.Route{
		NextHop: "10.0.0.2", NextHopKind: model.NextHopIP, OutgoingInterface: "Gi0/1",
	}, nil)
	r1.On("GetInterfaceDetail", mock.Anything).Return((*model.InterfaceDetail)(nil), nil)

	r2.On("GetRoute", mock.Anything, "global").Return(&model.Route{
		NextHop: "10.0.0.1", NextHopKind: model.NextHopIP, OutgoingInterface: "Gi0/2",
	}, nil)
	r2.On("GetInterfaceDetail", mock.Anything).Return((*model.InterfaceDetail)(nil), nil)

	o := testOrchestrator(t, loopInventory, map[string]*fakeDriver{"r1": r1, "r2": r2})
	trace := o.Trace(context.Background(), Request{SourceIP: "10.1.1.10", DestinationIP: "192.0.2.1"})

	require.Equal(t, model.StatusLoopDetected, trace.Status)
	assert.Len(t, trace.Hops, 2)
}

func TestTraceBlackholed(t *testing.T) {
	r1 := new(fakeDriver)
	connects(r1)
	r1.On("GetRoute", mock.Anything, "global").Return(&model.Route{
		NextHopKind: model.NextHopNull,
	}, nil)

	o := testOrchestrator(t, twoRouterInventory, map[string]*fakeDriver{"r1": r1})
	trace := o.Trace(context.Background(), Request{SourceIP: "10.1.1.10", DestinationIP: "198.51.100.1"})

	require.Equal(t, model.StatusBlackholed, trace.Status)
	assert.Len(t, trace.Hops, 1)
}

const siteAffinityInventory = `
devices:
  - hostname: r1
    management_ip: 10.0.0.1
    vendor: cisco_ios
    device_type: router
    site: nyc
    subnets: ["10.1.1.0/24"]
  - hostname: r2a
    management_ip: 10.0.0.10
    vendor: cisco_ios
    device_type: router
    site: nyc
    subnets: ["10.0.0.0/24"]
  - hostname: r2b
    management_ip: 10.0.0.11
    vendor: cisco_ios
    device_type: router
    site: sfo
    subnets: ["10.0.0.0/24"]
`

func TestTraceAmbiguousNextHopResolvedBySite(t *testing.T) {
	r1 := new(fakeDriver)
	r2a := new(fakeDriver)
	connects(r1)
	connects(r2a)

	r1.On("GetRoute", mock.Anything, "global").Return(&model.Route{
		NextHop: "10.0.0.5", NextHopKind: model.NextHopIP, OutgoingInterface: "Gi0/1",
	}, nil)
	r1.On("GetInterfaceDetail", mock.Anything).Return((*model.InterfaceDetail)(nil), nil)

	r2a.On("GetRoute", mock.Anything, "global").Return(&model.Route{
		NextHopKind: model.NextHopConnected, OutgoingInterface: "Gi0/2",
	}, nil)
	r2a.On("GetInterfaceDetail", mock.Anything).Return((*model.InterfaceDetail)(nil), nil)

	o := testOrchestrator(t, siteAffinityInventory, map[string]*fakeDriver{"r1": r1, "r2a": r2a})
	trace := o.Trace(context.Background(), Request{SourceIP: "10.1.1.10", DestinationIP: "203.0.113.1"})

	require.Equal(t, model.StatusComplete, trace.Status)
	require.Len(t, trace.Hops, 2)
	assert.Equal(t, "r2a", trace.Hops[1].Device.Hostname)
	assert.Equal(t, model.ResolveBySite, trace.Hops[1].ResolveStatus)
}

func TestTraceAmbiguousNextHopBothSameSite(t *testing.T) {
	const bothNYC = `
devices:
  - hostname: r1
    management_ip: 10.0.0.1
    vendor: cisco_ios
    device_type: router
    site: nyc
    subnets: ["10.1.1.0/24"]
  - hostname: r2a
    management_ip: 10.0.0.10
    vendor: cisco_ios
    device_type: router
    site: nyc
    subnets: ["10.0.0.0/24"]
  - hostname: r2b
    management_ip: 10.0.0.11
    vendor: cisco_ios
    device_type: router
    site: nyc
    subnets: ["10.0.0.0/24"]
`
	r1 := new(fakeDriver)
	connects(r1)
	r1.On("GetRoute", mock.Anything, "global").Return(&model.Route{
		NextHop: "10.0.0.5", NextHopKind: model.NextHopIP, OutgoingInterface: "Gi0/1",
	}, nil)
	r1.On("GetInterfaceDetail", mock.Anything).Return((*model.InterfaceDetail)(nil), nil)

	o := testOrchestrator(t, bothNYC, map[string]*fakeDriver{"r1": r1})
	trace := o.Trace(context.Background(), Request{SourceIP: "10.1.1.10", DestinationIP: "203.0.113.1"})

	require.Equal(t, model.StatusAmbiguousHop, trace.Status)
	candidates, ok := trace.Metadata["candidates"].([]model.Candidate)
	require.True(t, ok)
	assert.Len(t, candidates, 2)
}

const dnatInventory = `
devices:
  - hostname: fw1
    management_ip: 203.0.113.1
    vendor: paloalto
    device_type: firewall
    subnets: ["203.0.113.0/24"]
  - hostname: r3
    management_ip: 10.0.0.9
    vendor: cisco_ios
    device_type: router
    subnets: ["10.1.1.0/24"]
`

func TestTraceDNATRewritesWorkingDestination(t *testing.T) {
	fw1 := new(fakeDriver)
	r3 := new(fakeDriver)
	connects(fw1)
	connects(r3)

	fw1.On("GetRoute", "203.0.113.10", "global").Return(&model.Route{
		NextHop: "10.0.0.9", NextHopKind: model.NextHopIP, OutgoingInterface: "ethernet1/2",
	}, nil)
	fw1.On("GetInterfaceDetail", mock.Anything).Return((*model.InterfaceDetail)(nil), nil)
	// fw1 is the first hop, so there is no previous egress interface and
	// thus no ingress zone; only the egress zone and the (unconditional)
	// NAT lookup run, matching spec.md §4.6 step 4e exactly.
	fw1.On("GetZoneForInterface", "ethernet1/2").Return("trust", nil)
	fw1.On("LookupNAT", "198.51.100.5", "203.0.113.10", "tcp", 443).Return(&model.NATResult{
		DestinationNAT: &model.NATTranslation{OriginalIP: "203.0.113.10", TranslatedIP: "10.1.1.50"},
	}, nil)

	r3.On("GetRoute", "10.1.1.50", "global").Return(&model.Route{
		NextHopKind: model.NextHopConnected, OutgoingInterface: "Gi0/1",
	}, nil)
	r3.On("GetInterfaceDetail", mock.Anything).Return((*model.InterfaceDetail)(nil), nil)

	o := testOrchestrator(t, dnatInventory, map[string]*fakeDriver{"fw1": fw1, "r3": r3})
	trace := o.Trace(context.Background(), Request{
		SourceIP:      "198.51.100.5",
		DestinationIP: "203.0.113.10",
		StartDevice:   "fw1",
	})

	require.Equal(t, model.StatusComplete, trace.Status)
	require.Len(t, trace.Hops, 2)
	require.NotNil(t, trace.Hops[0].NAT)
	require.NotNil(t, trace.Hops[0].NAT.DestinationNAT)
	assert.Equal(t, "10.1.1.50", trace.Hops[0].NAT.DestinationNAT.TranslatedIP)
	assert.Equal(t, "r3", trace.Hops[1].Device.Hostname)
}

func TestTraceNeedsInputWhenSourceUnresolved(t *testing.T) {
	o := testOrchestrator(t, twoRouterInventory, map[string]*fakeDriver{})
	trace := o.Trace(context.Background(), Request{SourceIP: "192.168.9.9", DestinationIP: "10.2.2.20"})

	require.Equal(t, model.StatusNeedsInput, trace.Status)
	assert.Empty(t, trace.Hops)
	candidates, ok := trace.Metadata["candidates"].([]model.Candidate)
	require.True(t, ok)
	assert.Empty(t, candidates)
}

func TestTraceDeviceNotFoundForUnknownStartDevice(t *testing.T) {
	o := testOrchestrator(t, twoRouterInventory, map[string]*fakeDriver{})
	trace := o.Trace(context.Background(), Request{SourceIP: "10.1.1.10", DestinationIP: "10.2.2.20", StartDevice: "ghost"})

	require.Equal(t, model.StatusError, trace.Status)
	assert.Contains(t, trace.Error, "device_not_found")
}
