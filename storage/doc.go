// Copyright 2026 BharatRAG Authors
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


// Package storage provides the storage abstraction layer for bharatrag.
//
// This package defines repository interfaces that decouple storage
// implementation from the ingestion and retrieval logic, so different
// backends (BadgerDB, in-memory, etc.) can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return these interfaces rather
// than concrete types:
//
//	repos, err := badger.NewRepositories(path)
//
// This keeps consumers decoupled from BadgerDB specifics and lets tests
// substitute the in-memory variant without modification:
//
//	repos, err := badger.NewMemoryRepositories()
//
// # Architecture
//
// The storage layer follows the Repository pattern, one interface per
// aggregate:
//
//   - CollectionRepository: collection namespaces
//   - DocumentRepository: ingested documents
//   - ChunkRepository: chunks, embeddings and similarity search
//   - JobRepository: ingestion job lifecycle records
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
