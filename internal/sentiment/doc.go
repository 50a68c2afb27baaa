// Package sentiment implements the hybrid Vietnamese sentiment classifier.
//
// Tables holds the static lexicon, abbreviation and negation data. Normalizer
// cleans raw text, Scorer counts lexicon hits, NegationDetector looks for
// negated sentiment words, and Engine combines them with an optional oracle.
// All types are immutable after construction and safe for concurrent use.
package sentiment
