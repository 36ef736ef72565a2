// Package cli exposes asset resolution, skeleton download and the folder
// history as cobra subcommands.
package cli
