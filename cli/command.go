package cli

import (
	"context"
	"io"
	"time"
)

// CommandHandler defines the interface for handling CLI commands
type CommandHandler interface {
	// Handle processes a command with the given context
	Handle(ctx context.Context, cmdCtx *CommandContext) error
	// Command returns the command path this handler processes (e.g. "resolve", "history list")
	Command() string
	// Usage describes the positional arguments and help text
	Usage() Usage
}

// Usage is the help and argument contract of a command
type Usage struct {
	Args    string // e.g. "FOLDER"
	Short   string
	Long    string
	MinArgs int
	MaxArgs int
}

// CommandContext provides context information for command processing
type CommandContext struct {
	// Command is the full command path, such as "history remove"
	Command string
	// Args are the positional arguments
	Args []string
	// Output is the result format: text, json or yaml
	Output string
	// Events selects the download event sinks: bar, json, log or none, comma separated
	Events string
	// Out receives results
	Out io.Writer
	// Err receives progress bars and human-readable errors
	Err io.Writer
	// Timestamp is when the command started
	Timestamp time.Time
}

// Arg returns the i-th positional argument or ""
func (c *CommandContext) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}
