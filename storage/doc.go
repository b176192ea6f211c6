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


// Package storage defines where embedded result records are written.
//
// A run collects every successful result and hands the whole set to a
// ResultWriter once processing is finished. Implementations:
//
//   - JSONFileWriter: a pretty-printed JSON array, replaced atomically
//   - badger.ResultStore: a BadgerDB key-value store, one transaction per run
//   - qdrant.Writer: a Qdrant collection, one upsert per run
//
// MultiWriter fans a single write out to several writers.
//
// The keyed stores use the content ID of a record (post URL and input text),
// so identical source rows collapse into one entry there while the JSON file
// keeps every row. Both keyed writers log a warning listing the ordinals of
// the collapsed rows; Duplicates computes them.
//
// # Usage
//
//	w := storage.NewJSONFileWriter("embedded.json")
//	defer w.Close()
//	if err := w.Write(ctx, results); err != nil {
//	    log.Fatal(err)
//	}
package storage
