// Package embed negotiates input length with an embedding endpoint whose
// context limit is not known in advance.
//
// Three pieces cooperate:
//
//   - Classifier decides whether a failed request was rejected because the
//     input exceeded the endpoint's context length.
//   - Shot issues exactly one request and reports a tagged Outcome:
//     OutcomeSuccess, OutcomeTooLong or OutcomeFatal.
//   - Searcher finds the longest prefix of a text the endpoint accepts. It
//     shrinks the candidate by ShrinkRatio until a request succeeds, then
//     bisects between the accepted and the rejected length until the gap is
//     within Tolerance characters.
//
// Lengths are counted in Unicode code points. No length is ever requested
// twice during one search, and the embedding returned always belongs to the
// prefix reported as UsedLength.
//
// Only OutcomeTooLong is recovered from. Any other failure ends the search
// immediately and is returned unchanged, so truncation is never used to paper
// over unrelated errors.
package embed
