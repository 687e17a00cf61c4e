// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command pathtrace-api serves the HTTP trace endpoint described in
// spec.md §6, wiring internal/inventory, internal/credentials,
// internal/metrics and internal/api together (SPEC_FULL.md §4.12).
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"pathtrace.dev/pathtrace/internal/api"
	"pathtrace.dev/pathtrace/internal/credentials"
	"pathtrace.dev/pathtrace/internal/inventory"
	"pathtrace.dev/pathtrace/internal/metrics"
	"pathtrace.dev/pathtrace/internal/orchestrator"
)

func main() {
	var (
		addr           = flag.String("addr", ":8080", "HTTP listen address")
		inventoryPath  = flag.String("inventory", "inventory.yaml", "inventory document path")
		credentialPath = flag.String("credentials", "", "credentials document path (falls back to PATHTRACE_* env)")
		bearerToken    = flag.String("bearer-token", os.Getenv("PATHTRACE_BEARER_TOKEN"), "require this bearer token on the trace endpoints")
	)
	flag.Parse()

	inv, err := inventory.LoadFile(*inventoryPath)
	if err != nil {
		log.Fatalf("loading inventory: %v", err)
	}
	for _, w := range inv.Warnings() {
		log.Printf("inventory warning: %s", w.String())
	}

	creds, err := credentials.Load(*credentialPath)
	if err != nil {
		log.Fatalf("loading credentials: %v", err)
	}

	m := metrics.New()
	reg := prometheus.NewRegistry()
	m.Register(reg)

	orch := orchestrator.New(inv, creds, m)

	cfg := api.DefaultServerConfig()
	cfg.BearerToken = *bearerToken
	srv := api.NewServer(orch, cfg, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, *addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
