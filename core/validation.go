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

import "fmt"

// ValidateSourceType validates that a SourceType has a known value.
func ValidateSourceType(st SourceType) error {
	switch st {
	case SourceTypeFile, SourceTypeText, SourceTypeURL:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSourceType, st)
}

// ValidateCollection validates a Collection according to domain rules.
func ValidateCollection(c *Collection) error {
	if c == nil {
		return fmt.Errorf("%w: collection is nil", ErrValidation)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyCollectionName)
	}
	return nil
}

// ValidateChunk validates a Chunk before persistence.
//
// Validation rules:
//   - Text must not be empty
//   - Index must not be negative
//
// NOT validated:
//   - Vector dimension (checked against the store's dimension at write time)
func ValidateChunk(c *Chunk) error {
	if c == nil {
		return fmt.Errorf("%w: chunk is nil", ErrValidation)
	}
	if c.Text == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyChunkText)
	}
	if c.Index < 0 {
		return fmt.Errorf("%w: chunk index %d is negative", ErrValidation, c.Index)
	}
	return nil
}

// ValidateTransition checks whether a job may move from one status to
// another. Terminal statuses are sticky: any transition out of them is
// rejected with ErrJobTerminal. Re-asserting the current status is allowed
// so progress can be recorded mid-stage.
func ValidateTransition(from, to JobStatus) error {
	if from.Terminal() {
		return fmt.Errorf("%w: %s", ErrJobTerminal, from)
	}
	if from == to {
		return nil
	}
	switch from {
	case JobStatusPending:
		if to == JobStatusRunning || to == JobStatusFailed {
			return nil
		}
	case JobStatusRunning:
		if to.Terminal() {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
