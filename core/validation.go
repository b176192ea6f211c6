// Copyright 2025 Poiesic Systems
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

// ValidateResultRecord validates a ResultRecord before it is written.
//
// Validation rules:
//   - Embedding must not be empty
//   - UsedLength must be greater than zero
//
// NOT validated:
//   - Embedding dimension (endpoints may change output size)
//   - Labels (carried verbatim, may be empty)
func ValidateResultRecord(record *ResultRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidResultRecord)
	}

	if len(record.Embedding) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidResultRecord, ErrEmptyEmbedding)
	}

	if record.UsedLength <= 0 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidResultRecord, ErrInvalidUsedLength, record.UsedLength)
	}

	return nil
}
