// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a three-view workflow for library enrichment:
//  1. [AnalysisView] : Review what the sync would fetch, toggle force resync
//  2. [SyncView] : Monitor the running sync with live phase and error reporting
//  3. [ResultView] : Review final counts and failed tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow from the sync engine's listener into a buffered channel
// that the Elm loop drains, keeping the engine's synchronous fan-out non-blocking.
//
// Keyboard controls (enter, f, s, r, q) are displayed contextually via
// charmbracelet/bubbles/help.
package ui
