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


// Package storage provides the storage abstraction layer for the
// embedding pipeline.
//
// It defines two repository interfaces that decouple persistence from
// the rest of the system:
//
//   - JobStore: the durable queue of embedding jobs, keyed by
//     deterministic ids, with forward-only status transitions
//   - VectorStore: the vector database adapter (upsert, existence
//     checks, nearest-neighbor queries with equality filters)
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return these interfaces
// rather than concrete types:
//
//	jobs, err := badger.NewJobRepository(backend)  // returns storage.JobStore
//
// This keeps consumers decoupled from BadgerDB specifics and makes the
// vector store swappable for a hosted vector database without touching
// the workflow or search code.
//
// # Thread Safety
//
// All implementations must be safe for concurrent use. The scheduler's
// fan-out and the search engine share these stores; they are the only
// shared mutable state in the process.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout
// support.
package storage
