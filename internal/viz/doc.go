// Package viz renders evaluation reports for the terminal.
//
// Styles are lipgloss based; line plots of scans come from asciigraph, and
// per-particle magnitudes are summarised with [SparklineChart].
package viz
