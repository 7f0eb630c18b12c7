// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for batch resolution:
//  1. [SourceInputView] : Enter a catalog album or playlist ID
//  2. [TrackListView] : Preview the source's tracks
//  3. [ConfirmView] : Confirm the resolution run
//  4. [ResolveView] : Monitor real-time progress updates
//  5. [ResultView] : Display match counts and unresolved tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ResolveEngine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
