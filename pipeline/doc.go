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


// Package pipeline embeds a collection of records one at a time.
//
// Each record's input text goes through the adaptive length search. A record
// that fails for any reason is logged and skipped; the run continues with the
// next record. When every record has been processed, the successful results
// are handed to a storage.ResultWriter in a single call, in input order.
//
// # Usage
//
//	p, err := pipeline.New(searcher, writer, nil, pipeline.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	summary, err := p.Run(ctx, records)
package pipeline
