// Package viz renders batch results and progress in the terminal.
//
// Tables and panels use lipgloss, histograms use asciigraph and the live
// progress view for `hitsim run --tui` is a Bubble Tea program.
package viz
