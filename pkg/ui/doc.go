// Package ui renders the terminal output of a theme download: colored
// status messages, the per-asset progress slot and the completion summary.
//
// Coloring goes through github.com/fatih/color and is disabled
// automatically when the output is not a terminal, or explicitly with
// SetNoColor.
package ui
