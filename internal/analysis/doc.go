// Package analysis derives lyric attributes from raw song text.
//
// Given the text of a lyric page, [Analyze] produces themes from a fixed
// keyword dictionary, an average sentiment score in [-1, 1], a word
// count, and an explicit-content flag. The heuristics are intentionally
// simple: they only need to be stable and cheap, since every liked song
// passes through them on each sync.
package analysis
