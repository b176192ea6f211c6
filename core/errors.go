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

import "errors"

// Domain validation errors
var (
	// ErrInvalidResultRecord indicates a ResultRecord failed validation.
	ErrInvalidResultRecord = errors.New("invalid result record")

	// ErrEmptyEmbedding indicates the Embedding field is empty.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")

	// ErrInvalidUsedLength indicates UsedLength is not positive.
	ErrInvalidUsedLength = errors.New("used length must be positive")
)

// ErrInvalidLength indicates an encoded slice length exceeds the available bytes.
var ErrInvalidLength = errors.New("invalid encoded length")
