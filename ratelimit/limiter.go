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

// Package ratelimit throttles calls to the embedding and summarization
// services so that a batch of jobs does not saturate a local model server.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerMinute is the default sustained request rate.
	DefaultRequestsPerMinute = 10

	// DefaultBurst is the default number of requests allowed to fire
	// back to back before the sustained rate applies.
	DefaultBurst = 3
)

// Limiter gates outbound model requests. All workers processing jobs
// share a single Limiter so the combined request rate stays bounded.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing perMinute sustained requests
// with the given burst. Non-positive values fall back to the defaults.
func NewLimiter(perMinute, burst int) *Limiter {
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
}

// NewDefaultLimiter creates a limiter with the default rate and burst.
func NewDefaultLimiter() *Limiter {
	return NewLimiter(DefaultRequestsPerMinute, DefaultBurst)
}

// WaitForSlot blocks until the limiter grants a request slot or the
// context is cancelled. A cancelled context returns the context error
// without consuming a slot.
func (l *Limiter) WaitForSlot(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a slot is available right now, consuming it if
// so. Used by fire-and-forget paths that prefer dropping to blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
