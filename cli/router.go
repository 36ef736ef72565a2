package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes returned by Execute
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// GlobalOptions are the persistent flags shared by every command
type GlobalOptions struct {
	Output string
	Events string
}

func (o *GlobalOptions) validate() error {
	switch o.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return newUsageError("unknown output format %q (text, json or yaml)", o.Output)
	}
	if _, err := parseEventSinks(o.Events); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// usageError marks errors caused by how the program was invoked
type usageError struct {
	err error
}

func (u *usageError) Error() string { return u.err.Error() }
func (u *usageError) Unwrap() error { return u.err }

func newUsageError(format string, args ...interface{}) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// commandError carries a handler failure together with its command context
type commandError struct {
	cmdCtx *CommandContext
	err    error
}

func (c *commandError) Error() string { return c.err.Error() }
func (c *commandError) Unwrap() error { return c.err }

// CommandRouter handles routing of commands to their respective handlers
type CommandRouter struct {
	handlers     map[string]CommandHandler
	logger       *zap.Logger
	errorHandler *ErrorHandler
	opts         GlobalOptions
	out          io.Writer
	errOut       io.Writer
	version      string
}

// NewCommandRouter creates a new command router instance
func NewCommandRouter(logger *zap.Logger, out, errOut io.Writer) *CommandRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandRouter{
		handlers:     make(map[string]CommandHandler),
		logger:       logger,
		errorHandler: NewErrorHandler(logger),
		out:          out,
		errOut:       errOut,
	}
}

// SetVersion sets the string printed by --version
func (r *CommandRouter) SetVersion(version string) {
	r.version = version
}

// RegisterHandler registers a command handler for a specific command
func (r *CommandRouter) RegisterHandler(handler CommandHandler) {
	command := handler.Command()
	r.handlers[command] = handler
	r.logger.Debug("registered handler", zap.String("command", command))
}

// GetRegisteredCommands returns all registered command paths, sorted
func (r *CommandRouter) GetRegisteredCommands() []string {
	commands := make([]string, 0, len(r.handlers))
	for command := range r.handlers {
		commands = append(commands, command)
	}
	sort.Strings(commands)
	return commands
}

// HasHandler returns true if a handler is registered for the given command
func (r *CommandRouter) HasHandler(command string) bool {
	_, exists := r.handlers[command]
	return exists
}

// RootCommand builds the cobra command tree. Handlers registered as
// "group name" are nested under a "group" command.
func (r *CommandRouter) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "spine-mod-loader",
		Short:         "Resolve and download Spine animation assets for mod folders",
		Version:       r.version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.opts.validate()
		},
	}
	root.SetOut(r.out)
	root.SetErr(r.errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&r.opts.Output, "output", "o", OutputText, "output format (text, json or yaml)")
	flags.StringVar(&r.opts.Events, "events", EventsBar, "download event sinks, comma separated (bar, json, log or none)")

	groups := make(map[string]*cobra.Command)
	for _, name := range r.GetRegisteredCommands() {
		parts := strings.Fields(name)
		parent := root
		for i, part := range parts[:len(parts)-1] {
			key := strings.Join(parts[:i+1], " ")
			group, ok := groups[key]
			if !ok {
				group = &cobra.Command{
					Use:   part,
					Short: fmt.Sprintf("Manage the %s", part),
				}
				parent.AddCommand(group)
				groups[key] = group
			}
			parent = group
		}
		parent.AddCommand(r.newCobraCommand(parts[len(parts)-1], r.handlers[name]))
	}

	return root
}

func (r *CommandRouter) newCobraCommand(name string, handler CommandHandler) *cobra.Command {
	usage := handler.Usage()
	return &cobra.Command{
		Use:   strings.TrimSpace(name + " " + usage.Args),
		Short: usage.Short,
		Long:  usage.Long,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.RangeArgs(usage.MinArgs, usage.MaxArgs)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.route(cmd.Context(), handler, args)
		},
	}
}

// route runs a handler and tags its failure with the command context
func (r *CommandRouter) route(ctx context.Context, handler CommandHandler, args []string) (err error) {
	cmdCtx := &CommandContext{
		Command:   handler.Command(),
		Args:      args,
		Output:    r.opts.Output,
		Events:    r.opts.Events,
		Out:       r.out,
		Err:       r.errOut,
		Timestamp: time.Now(),
	}

	r.logger.Debug("routing command",
		zap.String("command", cmdCtx.Command),
		zap.Strings("args", args))

	defer r.errorHandler.RecoverFromPanic(cmdCtx, &err)

	if err := handler.Handle(ctx, cmdCtx); err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			return err
		}
		return &commandError{cmdCtx: cmdCtx, err: err}
	}

	r.logger.Debug("command finished",
		zap.String("command", cmdCtx.Command),
		zap.Duration("elapsed", time.Since(cmdCtx.Timestamp)))
	return nil
}

// Execute runs the command line and returns the process exit code
func (r *CommandRouter) Execute(ctx context.Context, args []string) int {
	root := r.RootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var ce *commandError
	if errors.As(err, &ce) {
		return r.errorHandler.HandleCommandError(ce.err, ce.cmdCtx)
	}
	return r.errorHandler.HandleUsageError(err, r.errOut)
}
