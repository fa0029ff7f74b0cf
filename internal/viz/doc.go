// Package viz renders simulation runs in the terminal: an animated bubble
// chart of epidemic compartments (and bar chart of reaction concentrations)
// on a braille canvas, driven by a bubbletea event loop, with asciigraph
// time-series panels.
package viz
