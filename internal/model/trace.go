// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the terminal condition of a trace.
type Status string

const (
	StatusComplete        Status = "complete"
	StatusIncomplete       Status = "incomplete"
	StatusError            Status = "error"
	StatusLoopDetected     Status = "loop_detected"
	StatusBlackholed       Status = "blackholed"
	StatusMaxHopsExceeded  Status = "max_hops_exceeded"
	StatusNeedsInput       Status = "needs_input"
	StatusAmbiguousHop     Status = "ambiguous_hop"
)

// Trace is the full result of one path-tracing request.
type Trace struct {
	ID              uuid.UUID      `json:"id"`
	SourceIP        string         `json:"source_ip"`
	DestinationIP   string         `json:"destination_ip"`
	Hops            []Hop          `json:"hops"`
	Status          Status         `json:"status"`
	Error           string         `json:"error,omitempty"`
	ElapsedTime     time.Duration  `json:"elapsed_time_ns"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// NewTrace starts a Trace record for a source/destination pair, stamping
// a fresh ID so logs, metrics and the HTTP response can all be
// correlated back to this one request.
func NewTrace(sourceIP, destinationIP string) *Trace {
	return &Trace{
		ID:            uuid.New(),
		SourceIP:      sourceIP,
		DestinationIP: destinationIP,
		Hops:          []Hop{},
	}
}

// SetCandidates attaches the disambiguation candidate list required by
// the needs_input and ambiguous_hop invariants (spec.md §3).
func (t *Trace) SetCandidates(candidates []Candidate) {
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}
	t.Metadata["candidates"] = candidates
}

// SetAmbiguousAt records the hop sequence number at which an
// ambiguous_hop condition was raised.
func (t *Trace) SetAmbiguousAt(sequence int) {
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}
	t.Metadata["ambiguous_at"] = sequence
}
