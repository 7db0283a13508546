// Package output renders chunkrun results.
//
// Three formats are supported: table (kubectl-style), JSON, and YAML. The
// table format prints one row per item response, succeeded rows first, then
// failed, then unsent, each in chunk order, and ends with a summary line:
//
//	INDEX  STATUS     ITEM  RESPONSE
//	0      Succeeded  a     A
//	2      Failed     c     cannot accept c
//	4      Unsent     e     -
//
//	Summary: 1 succeeded, 1 failed, 1 unsent (50.0% success) of 5 items
//
// JSON and YAML print the results document unchanged, so their output can
// be saved and fed back to the combine and status commands.
//
// # Color Support
//
// Colors are enabled only for TTY outputs and can be disabled with
// WithNoColor(true). Succeeded rows are green, failed rows red, and unsent
// rows yellow.
package output
