// Copyright 2026 Baibhav Bista
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package records defines the read boundary to the relational store
// that owns sessions and cycles. The embedding pipeline consumes it for
// backfill and the search engine for result enrichment; neither writes
// through it.
package records

import (
	"context"
	"errors"
)

// ErrNotFound indicates that the requested session or cycle was not found.
var ErrNotFound = errors.New("record not found")

// Store provides read access to sessions and cycles.
// Implementations must be thread-safe.
type Store interface {
	// GetSession retrieves a session by id.
	// Returns ErrNotFound if the session doesn't exist.
	GetSession(ctx context.Context, id string) (*Session, error)

	// GetCycle retrieves a cycle by id.
	// Returns ErrNotFound if the cycle doesn't exist.
	GetCycle(ctx context.Context, id string) (*Cycle, error)

	// CyclesForSession returns a session's cycles ordered by start time.
	CyclesForSession(ctx context.Context, sessionID string) ([]*Cycle, error)

	// RecentCompletedSessions returns up to limit completed sessions,
	// most recent first. Older sessions fall outside the scan window;
	// callers that need them must pass a larger limit.
	RecentCompletedSessions(ctx context.Context, limit int) ([]*Session, error)

	// RecentEndedCycles returns up to limit ended cycles, most recent
	// first, with the same scan-window caveat.
	RecentEndedCycles(ctx context.Context, limit int) ([]*Cycle, error)
}
