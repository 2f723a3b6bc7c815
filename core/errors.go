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


package core

import (
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrValidation indicates a malformed or semantically invalid request.
	// Requests failing validation never create a job row.
	ErrValidation = errors.New("invalid request")

	// ErrEmptyCollectionName indicates a collection Name field is empty.
	ErrEmptyCollectionName = errors.New("collection name cannot be empty")

	// ErrInvalidSourceType indicates an unknown SourceType value.
	ErrInvalidSourceType = errors.New("invalid source type")

	// ErrEmptyFormat indicates the format tag is missing.
	ErrEmptyFormat = errors.New("format cannot be empty")

	// ErrMissingURI indicates source_type=url without a uri.
	ErrMissingURI = errors.New("uri is required when source type is url")

	// ErrEmptyChunkText indicates a chunk with empty text reached persistence.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrJobTerminal indicates a status update on a job already in a
	// terminal state.
	ErrJobTerminal = errors.New("job is in a terminal state")

	// ErrInvalidTransition indicates a status transition the state machine
	// does not allow.
	ErrInvalidTransition = errors.New("invalid job status transition")

	// ErrDimensionMismatch indicates an embedding whose dimension does not
	// match the store's configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrTruncatedData indicates stored bytes too short to decode.
	ErrTruncatedData = errors.New("truncated data")
)

// DimensionError reports an embedding dimension that does not match the
// deployment's configured dimension. It unwraps to ErrDimensionMismatch.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: want %d, got %d", e.Want, e.Got)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}
