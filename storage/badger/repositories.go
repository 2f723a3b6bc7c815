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


package badger

import "github.com/bharatrag/bharatrag/storage"

// Repositories bundles the four repository implementations sharing one
// BadgerDB backend.
type Repositories struct {
	Collections storage.CollectionRepository
	Documents   storage.DocumentRepository
	Chunks      storage.ChunkRepository
	Jobs        storage.JobRepository

	backend *Backend
}

// NewRepositories opens a BadgerDB database at path and builds the
// repository set over it. Caller must Close when done.
func NewRepositories(path string) (*Repositories, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newRepositories(backend), nil
}

// NewMemoryRepositories creates an in-memory repository set for testing.
// Caller must Close when done.
func NewMemoryRepositories() (*Repositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newRepositories(backend), nil
}

func newRepositories(backend *Backend) *Repositories {
	return &Repositories{
		Collections: NewCollectionRepository(backend),
		Documents:   NewDocumentRepository(backend),
		Chunks:      NewChunkRepository(backend),
		Jobs:        NewJobRepository(backend),
		backend:     backend,
	}
}

// Close closes the shared backend.
func (r *Repositories) Close() error {
	return r.backend.Close()
}
