// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command pathtrace is the single-shot and interactive CLI over the
// orchestrator (spec.md §6, SPEC_FULL.md §4.11-§5.2).
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/inventory"
	"pathtrace.dev/pathtrace/internal/metrics"
	"pathtrace.dev/pathtrace/internal/model"
	"pathtrace.dev/pathtrace/internal/orchestrator"
)

func main() {
	var (
		src            = flag.String("src", "", "source IP")
		dst            = flag.String("dst", "", "destination IP")
		proto          = flag.String("proto", "tcp", "protocol (tcp|udp)")
		port           = flag.Int("port", 443, "destination port")
		initialContext = flag.String("context", "", "initial logical context/VRF")
		startDevice    = flag.String("start-device", "", "hostname to start the trace from")
		inventoryPath  = flag.String("inventory", "inventory.yaml", "inventory document path")
		credentialPath = flag.String("credentials", "", "credentials document path (falls back to PATHTRACE_* env)")
		maxHops        = flag.Int("max-hops", 30, "maximum hops before giving up")
		interactive    = flag.Bool("interactive", false, "re-prompt for a candidate device on needs_input/ambiguous_hop")
	)
	flag.Parse()

	if *src == "" || *dst == "" {
		fmt.Fprintln(os.Stderr, "usage: pathtrace -src <ip> -dst <ip> [flags]")
		os.Exit(1)
	}

	inv, err := inventory.LoadFile(*inventoryPath)
	if err != nil {
		log.Fatalf("loading inventory: %v", err)
	}
	for _, w := range inv.Warnings() {
		fmt.Fprintln(os.Stderr, "warning:", w.String())
	}

	creds, err := credentials.Load(*credentialPath)
	if err != nil {
		log.Fatalf("loading credentials: %v", err)
	}

	orch := orchestrator.New(inv, creds, metrics.New())

	req := orchestrator.Request{
		SourceIP:        *src,
		DestinationIP:   *dst,
		InitialContext:  *initialContext,
		StartDevice:     *startDevice,
		Protocol:        *proto,
		DestinationPort: *port,
		MaxHops:         *maxHops,
	}

	var trace *model.Trace
	if *interactive {
		trace = runInteractive(orch, req)
	} else {
		trace = orch.Trace(context.Background(), req)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(trace); err != nil {
		log.Fatalf("encoding trace: %v", err)
	}

	if trace.Status != model.StatusComplete {
		os.Exit(1)
	}
}

// runInteractive re-runs the trace from the chosen candidate each time
// the walk stops on needs_input or ambiguous_hop, letting an operator at
// a terminal pick a device instead of the trace giving up
// (SPEC_FULL.md §5.2).
func runInteractive(orch *orchestrator.Orchestrator, req orchestrator.Request) *model.Trace {
	reader := bufio.NewReader(os.Stdin)
	trace := orch.Trace(context.Background(), req)

	for trace.Status == model.StatusNeedsInput || trace.Status == model.StatusAmbiguousHop {
		candidates := candidatesFrom(trace)
		if len(candidates) == 0 {
			return trace
		}

		fmt.Fprintf(os.Stderr, "\n%s: pick a device to continue from\n", trace.Status)
		for i, c := range candidates {
			fmt.Fprintf(os.Stderr, "  [%d] %s (%s)", i+1, c.Hostname, c.ManagementIP)
			if c.Site != "" {
				fmt.Fprintf(os.Stderr, " site=%s", c.Site)
			}
			fmt.Fprintln(os.Stderr)
		}
		fmt.Fprint(os.Stderr, "choice (blank to stop): ")

		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return trace
		}
		choice, err := strconv.Atoi(line)
		if err != nil || choice < 1 || choice > len(candidates) {
			fmt.Fprintln(os.Stderr, "invalid choice")
			continue
		}

		req.StartDevice = candidates[choice-1].Hostname
		req.InitialContext = ""
		trace = orch.Trace(context.Background(), req)
	}
	return trace
}

func candidatesFrom(trace *model.Trace) []model.Candidate {
	raw, ok := trace.Metadata["candidates"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []model.Candidate:
		return v
	default:
		return nil
	}
}
