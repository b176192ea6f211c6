// Package source reads Q&A records from tabular exports.
//
// Columns are matched by name through an alias table; the first alias with a
// non-empty value wins. Question and answer bodies are converted from HTML to
// markdown while reading. Records are numbered from 1 in file order.
package source
