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


package embed

import (
	"fmt"
	"time"
)

// Config holds the length negotiation parameters.
// A Config is copied by NewShot and NewSearcher and never modified afterwards.
type Config struct {
	// MinInputChars is the shortest text worth sending to the endpoint.
	MinInputChars int

	// MinChars is the truncation floor. The search fails rather than shrink below it.
	MinChars int

	// MaxTries bounds the number of attempts in the shrinking phase.
	MaxTries int

	// MaxChars caps the first attempt regardless of input length.
	MaxChars int

	// ShrinkRatio is applied to a rejected length to get the next candidate.
	ShrinkRatio float64

	// Tolerance is the bracket width at which bisection stops.
	Tolerance int

	// ExpectedDim is the vector size the model is expected to return.
	// A mismatch is logged as a warning.
	ExpectedDim int

	// RequestTimeout bounds every single request.
	RequestTimeout time.Duration

	// ConfirmFinal re-embeds the accepted prefix once after bisection.
	// When false, the vector of the longest accepted attempt is returned.
	ConfirmFinal bool
}

// DefaultConfig returns a Config with the defaults used for nomic-embed-text on Ollama.
func DefaultConfig() *Config {
	return &Config{
		MinInputChars:  30,
		MinChars:       200,
		MaxTries:       30,
		MaxChars:       12000,
		ShrinkRatio:    0.8,
		Tolerance:      50,
		ExpectedDim:    768,
		RequestTimeout: 30 * time.Second,
		ConfirmFinal:   true,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MinInputChars <= 0 {
		return fmt.Errorf("%w: MinInputChars must be greater than 0", ErrInvalidConfig)
	}
	if c.MinChars < c.MinInputChars {
		return fmt.Errorf("%w: MinChars must be at least MinInputChars (%d)", ErrInvalidConfig, c.MinInputChars)
	}
	if c.MaxTries <= 0 {
		return fmt.Errorf("%w: MaxTries must be greater than 0", ErrInvalidConfig)
	}
	if c.MaxChars < c.MinChars {
		return fmt.Errorf("%w: MaxChars must be at least MinChars (%d)", ErrInvalidConfig, c.MinChars)
	}
	if c.ShrinkRatio <= 0 || c.ShrinkRatio >= 1 {
		return fmt.Errorf("%w: ShrinkRatio must be in (0, 1)", ErrInvalidConfig)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("%w: Tolerance must be greater than 0", ErrInvalidConfig)
	}
	if c.ExpectedDim <= 0 {
		return fmt.Errorf("%w: ExpectedDim must be greater than 0", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: RequestTimeout must be greater than 0", ErrInvalidConfig)
	}
	return nil
}
