// Package scoring computes weighted audio-feature similarity between tracks.
//
// [Score] compares two feature vectors dimension by dimension: continuous
// features by absolute difference, tempo on a 100 BPM ramp, key and mode
// by exact match. Each dimension carries a fixed weight, and the result
// is normalized over the weights present on both sides, so missing data
// narrows the comparison instead of dragging the score down.
//
// When a candidate has no feature data at all, [PopularityFallback]
// converts a blended popularity figure into a stand-in score so the
// candidate can still be ranked.
package scoring
