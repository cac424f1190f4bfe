// Package viz renders temperature profiles in the terminal.
//
//   - [Plotter]: snapshot observer that prints an asciigraph line plot per snapshot
//   - [LiveModel]: Bubble Tea program stepping an engine frame by frame
//   - [Theme]: colour schemes shared by both views
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	+/-   - More/fewer steps per frame
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
//
// A field that is no longer finite is reported as text instead of plotted.
package viz
