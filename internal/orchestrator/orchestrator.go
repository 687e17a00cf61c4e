// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package orchestrator runs the hop-by-hop trace algorithm. Grounded on
// original_source/services/pathtrace-api/pathtracer/orchestrator.py for
// the algorithm itself, and on the teacher's scoped-resource idiom
// (internal/firewall.Manager's acquire-then-defer-release shape) for how
// one hop's driver session is acquired, used, and always released before
// the loop moves on.
package orchestrator

import (
	"context"
	"time"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/drivers"
	pterrors "pathtrace.dev/pathtrace/internal/errors"
	"pathtrace.dev/pathtrace/internal/inventory"
	"pathtrace.dev/pathtrace/internal/logging"
	"pathtrace.dev/pathtrace/internal/metrics"
	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/registry"
)

const (
	defaultMaxHops  = 30
	defaultProtocol = "tcp"
	defaultPort     = 443
)

// Builder constructs a driver for a device, satisfying registry.Build's
// signature. Tests substitute a fake to avoid touching the network.
type Builder func(device model.Device, creds credentials.Set) (drivers.Driver, error)

// Request is one trace invocation (spec.md §4.6, §6).
type Request struct {
	SourceIP        string
	DestinationIP   string
	InitialContext  string
	StartDevice     string
	Protocol        string
	DestinationPort int
	MaxHops         int
}

// normalize fills in the defaults named in spec.md §6.
func (r Request) normalize() Request {
	if r.Protocol == "" {
		r.Protocol = defaultProtocol
	}
	if r.DestinationPort == 0 {
		r.DestinationPort = defaultPort
	}
	if r.MaxHops == 0 {
		r.MaxHops = defaultMaxHops
	}
	return r
}

// Orchestrator runs traces against a fixed inventory and credential store.
// Both are read-only for the orchestrator's lifetime, so one Orchestrator
// safely serves any number of concurrent Trace calls (spec.md §5).
type Orchestrator struct {
	Inventory   *inventory.Inventory
	Credentials *credentials.Store
	Metrics     *metrics.Metrics
	BuildDriver Builder
	Log         *logging.Logger
}

// New builds an Orchestrator; m may be nil to disable metrics (tests).
func New(inv *inventory.Inventory, creds *credentials.Store, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		Inventory:   inv,
		Credentials: creds,
		Metrics:     m,
		BuildDriver: registry.Build,
		Log:         logging.With("component", "orchestrator"),
	}
}

// visitKey is the loop-detection tuple named in spec.md §4.6 step 1 and
// §9 ("Visited set as tuples").
type visitKey struct {
	managementIP string
	context      string
}

// Trace runs the full hop-by-hop algorithm described in spec.md §4.6,
// always returning a non-nil Trace: every error path sets status "error"
// and the message rather than propagating the error to the caller.
func (o *Orchestrator) Trace(ctx context.Context, req Request) *model.Trace {
	req = req.normalize()
	start := time.Now()
	trace := model.NewTrace(req.SourceIP, req.DestinationIP)
	log := o.Log.With("trace_id", trace.ID)

	o.run(ctx, req, trace, log)

	trace.ElapsedTime = time.Since(start)
	if o.Metrics != nil {
		o.Metrics.ObserveTrace(trace)
	}
	log.Info("trace finished", "status", trace.Status, "hops", len(trace.Hops))
	return trace
}

// run performs initialisation and the per-hop loop, mutating trace in
// place. It never panics; any unexpected error is folded into
// status "error" by the caller via a recover-free, explicit return.
func (o *Orchestrator) run(ctx context.Context, req Request, trace *model.Trace, log *logging.Logger) {
	device, ok, err := o.resolveStart(req, trace)
	if err != nil {
		o.fail(trace, err)
		return
	}
	if !ok {
		// resolveStart already set status (needs_input or error).
		return
	}

	currentContext := req.InitialContext
	if currentContext == "" {
		currentContext = device.DefaultContext
	}

	workingDestination := req.DestinationIP
	visited := map[visitKey]bool{}
	previousEgress := ""
	var resolveStatus model.ResolveStatus
	sequence := 1

	for {
		key := visitKey{managementIP: device.ManagementIP, context: currentContext}
		if visited[key] {
			trace.Status = model.StatusLoopDetected
			return
		}
		if sequence > req.MaxHops {
			trace.Status = model.StatusMaxHopsExceeded
			return
		}
		visited[key] = true

		hop, workingDestination2, nextDevice, nextContext, done, err := o.runHop(ctx, hopInput{
			sequence:           sequence,
			device:             device,
			context:            currentContext,
			workingDestination: workingDestination,
			previousEgress:     previousEgress,
			req:                req,
		}, trace, log)
		if err != nil {
			o.fail(trace, err)
			return
		}
		// runHop reports on hop how the next device was picked; that
		// status belongs to the next device's hop, so it moves forward.
		nextResolveStatus := hop.ResolveStatus
		hop.ResolveStatus = resolveStatus
		trace.Hops = append(trace.Hops, hop)
		workingDestination = workingDestination2

		if done {
			return
		}
		if nextDevice == nil {
			// runHop already set a terminal status (incomplete/ambiguous_hop/blackholed).
			return
		}

		device = *nextDevice
		currentContext = nextContext
		previousEgress = hop.Route.OutgoingInterface
		resolveStatus = nextResolveStatus
		sequence++
	}
}

// resolveStart implements spec.md §4.6 initialisation steps 1-5.
func (o *Orchestrator) resolveStart(req Request, trace *model.Trace) (model.Device, bool, error) {
	if req.StartDevice != "" {
		device, ok := o.Inventory.ByHostname(req.StartDevice)
		if !ok {
			return model.Device{}, false, pterrors.Errorf(pterrors.KindNotFound, "device_not_found: %s", req.StartDevice)
		}
		return device, true, nil
	}

	matches := o.Inventory.Resolve(req.SourceIP)
	if len(matches) != 1 {
		trace.Status = model.StatusNeedsInput
		trace.SetCandidates(inventory.RankCandidates(req.SourceIP, matches, "source address resolution"))
		return model.Device{}, false, nil
	}
	return matches[0], true, nil
}

func (o *Orchestrator) fail(trace *model.Trace, err error) {
	trace.Status = model.StatusError
	trace.Error = err.Error()
	if o.Metrics != nil {
		o.Metrics.ObserveDriverError(pterrors.GetKind(err).String())
	}
}

// hopInput bundles one iteration's inputs so runHop's signature stays
// readable.
type hopInput struct {
	sequence           int
	device             model.Device
	context            string
	workingDestination string
	previousEgress     string
	req                Request
}

// runHop executes steps 4-11 of the per-hop loop for one device,
// acquiring and releasing its driver session within this call's scope
// (spec.md §9 "Scoped driver sessions"). done is true when the trace
// reached a route-level terminal condition and the loop should stop;
// nextDevice is nil whenever a terminal status has already been set (by
// runHop or one of its callees) rather than only on success-with-done.
func (o *Orchestrator) runHop(ctx context.Context, in hopInput, trace *model.Trace, log *logging.Logger) (hop model.Hop, workingDestination string, nextDevice *model.Device, nextContext string, done bool, err error) {
	workingDestination = in.workingDestination
	hopLog := log.With("device", in.device.Hostname, "sequence", in.sequence)

	driver, buildErr := o.BuildDriver(in.device, o.credentialsFor(in.device))
	if buildErr != nil {
		return hop, workingDestination, nil, "", false, buildErr
	}
	if connErr := driver.Connect(ctx); connErr != nil {
		return hop, workingDestination, nil, "", false, connErr
	}
	defer func() {
		if disconnectErr := driver.Disconnect(); disconnectErr != nil {
			hopLog.Warn("disconnect failed", "error", disconnectErr)
		}
	}()

	o.countCommand(in.device.Vendor)
	route, routeErr := driver.GetRoute(ctx, workingDestination, in.context)
	if routeErr != nil {
		return hop, workingDestination, nil, "", false, routeErr
	}

	hop = model.Hop{
		Sequence:         in.sequence,
		Device:           in.device,
		IngressInterface: in.previousEgress,
		LogicalContext:   in.context,
	}

	if route == nil {
		hop.Note = "No route"
		hop.Route = nil
		trace.Status = model.StatusIncomplete
		return hop, workingDestination, nil, "", false, nil
	}
	hop.Route = route
	hop.EgressInterface = route.OutgoingInterface

	if route.OutgoingInterface != "" {
		hop.EgressDetail, _ = driver.GetInterfaceDetail(ctx, route.OutgoingInterface)
	}
	if in.previousEgress != "" {
		hop.IngressDetail, _ = driver.GetInterfaceDetail(ctx, in.previousEgress)
	}

	if in.device.IsFirewall() {
		o.enrichFirewall(ctx, driver, &hop, in, workingDestination, hopLog)
	}

	if hop.NAT != nil && hop.NAT.DestinationNAT != nil {
		workingDestination = hop.NAT.DestinationNAT.TranslatedIP
	}

	if route.DestinationReached(workingDestination) {
		trace.Status = model.StatusComplete
		return hop, workingDestination, nil, "", true, nil
	}
	if route.NextHopKind.IsBlackhole() {
		trace.Status = model.StatusBlackholed
		return hop, workingDestination, nil, "", true, nil
	}

	next, resolveStatus, err := o.resolveNextHop(route.NextHop, in.device, trace, in.sequence)
	if err != nil {
		return hop, workingDestination, nil, "", false, err
	}
	if next == nil {
		// resolveNextHop already set incomplete or ambiguous_hop.
		return hop, workingDestination, nil, "", false, nil
	}
	// Carried back to run, which stamps it on the next device's hop.
	hop.ResolveStatus = resolveStatus

	nextContext := next.DefaultContext
	if next.HasContext(in.context) {
		nextContext = in.context
	}
	return hop, workingDestination, next, nextContext, false, nil
}

// enrichFirewall performs the independent, best-effort zone/policy/NAT
// lookups described in spec.md §4.6 step 4e. Every sub-query's failure is
// logged and ignored; the corresponding field is left nil.
func (o *Orchestrator) enrichFirewall(ctx context.Context, driver drivers.Driver, hop *model.Hop, in hopInput, workingDestination string, hopLog *logging.Logger) {
	fw, ok := driver.(drivers.FirewallDriver)
	if !ok {
		return
	}

	var ingressZone, egressZone string
	if in.previousEgress != "" {
		zone, err := fw.GetZoneForInterface(ctx, in.previousEgress)
		if err != nil {
			hopLog.Warn("zone lookup failed", "interface", in.previousEgress, "error", err)
		} else {
			ingressZone = zone
		}
	}
	if hop.EgressInterface != "" {
		zone, err := fw.GetZoneForInterface(ctx, hop.EgressInterface)
		if err != nil {
			hopLog.Warn("zone lookup failed", "interface", hop.EgressInterface, "error", err)
		} else {
			egressZone = zone
		}
	}

	if ingressZone != "" && egressZone != "" && in.req.SourceIP != "" {
		policy, err := fw.LookupSecurityPolicy(ctx, in.req.SourceIP, workingDestination, in.req.Protocol, in.req.DestinationPort, ingressZone, egressZone)
		if err != nil {
			hopLog.Warn("policy lookup failed", "error", err)
		} else {
			hop.Policy = policy
		}
	}

	nat, err := fw.LookupNAT(ctx, in.req.SourceIP, workingDestination, in.req.Protocol, in.req.DestinationPort)
	if err != nil {
		hopLog.Warn("nat lookup failed", "error", err)
	} else {
		hop.NAT = nat
	}
}

// resolveNextHop implements spec.md §4.6 step 9, including site-affinity
// disambiguation. A nil device with no error means a terminal status
// (incomplete or ambiguous_hop) was already recorded on trace.
func (o *Orchestrator) resolveNextHop(nextHopIP string, fromDevice model.Device, trace *model.Trace, sequence int) (*model.Device, model.ResolveStatus, error) {
	candidates := o.Inventory.Resolve(nextHopIP)

	if len(candidates) > 1 && fromDevice.Site != "" {
		bySite := filterBySite(candidates, fromDevice.Site)
		switch len(bySite) {
		case 1:
			return &bySite[0], model.ResolveBySite, nil
		case 0:
			// Falls through to the ambiguous handling below against the
			// original, unfiltered candidate set.
		default:
			candidates = bySite
		}
	}

	switch len(candidates) {
	case 0:
		trace.Status = model.StatusIncomplete
		return nil, "", nil
	case 1:
		return &candidates[0], model.ResolveDirect, nil
	default:
		trace.Status = model.StatusAmbiguousHop
		trace.SetAmbiguousAt(sequence)
		trace.SetCandidates(inventory.RankCandidates(nextHopIP, candidates, "next-hop resolution"))
		return nil, "", nil
	}
}

func filterBySite(devices []model.Device, site string) []model.Device {
	var matches []model.Device
	for _, d := range devices {
		if d.Site == site {
			matches = append(matches, d)
		}
	}
	return matches
}

func (o *Orchestrator) credentialsFor(device model.Device) credentials.Set {
	set, _ := o.Credentials.Get(device.CredentialsRef)
	return set
}

func (o *Orchestrator) countCommand(vendor string) {
	if o.Metrics != nil {
		o.Metrics.ObserveCommand(vendor)
	}
}
