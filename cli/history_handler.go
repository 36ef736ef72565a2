package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"

	"spine-mod-loader/history"
)

var errHistoryDisabled = errors.New("history is disabled (HISTORY_DB=off)")

// historyColWidth keeps long paths from blowing up the table
const historyColWidth = 80

func requireStore(store HistoryStore) error {
	if store == nil {
		return &historyError{err: errHistoryDisabled}
	}
	return nil
}

// HistoryListHandler implements CommandHandler for "history list"
type HistoryListHandler struct {
	store HistoryStore
}

// NewHistoryListHandler creates a new HistoryListHandler. store may be nil.
func NewHistoryListHandler(store HistoryStore) *HistoryListHandler {
	return &HistoryListHandler{store: store}
}

// Command returns the command string this handler processes
func (h *HistoryListHandler) Command() string {
	return "history list"
}

// Usage implements CommandHandler
func (h *HistoryListHandler) Usage() Usage {
	return Usage{
		Short: fmt.Sprintf("List recently resolved folders (up to %d)", history.MaxEntries),
	}
}

// Handle processes the history list command
func (h *HistoryListHandler) Handle(ctx context.Context, cmdCtx *CommandContext) error {
	if err := requireStore(h.store); err != nil {
		return err
	}

	entries, err := h.store.List(ctx)
	if err != nil {
		return &historyError{err: err}
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	return writeOutput(cmdCtx, entries, func(w io.Writer) error {
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No folders in history")
			return err
		}
		tbl := uitable.New()
		tbl.MaxColWidth = historyColWidth
		tbl.AddRow("ID", "OPENED", "TYPE", "MOD", "PATH")
		for _, e := range entries {
			mod := "-"
			if e.CharacterID != nil {
				mod = *e.CharacterID
			}
			tbl.AddRow(e.ID, humanize.Time(e.OpenedAt), e.ModType, mod, e.Path)
		}
		_, err := fmt.Fprintln(w, tbl)
		return err
	})
}

// HistoryRemoveHandler implements CommandHandler for "history remove"
type HistoryRemoveHandler struct {
	store HistoryStore
}

// NewHistoryRemoveHandler creates a new HistoryRemoveHandler. store may be nil.
func NewHistoryRemoveHandler(store HistoryStore) *HistoryRemoveHandler {
	return &HistoryRemoveHandler{store: store}
}

// Command returns the command string this handler processes
func (h *HistoryRemoveHandler) Command() string {
	return "history remove"
}

// Usage implements CommandHandler
func (h *HistoryRemoveHandler) Usage() Usage {
	return Usage{
		Args:    "ID",
		Short:   "Remove one folder from the history",
		MinArgs: 1,
		MaxArgs: 1,
	}
}

// Handle processes the history remove command
func (h *HistoryRemoveHandler) Handle(ctx context.Context, cmdCtx *CommandContext) error {
	if err := requireStore(h.store); err != nil {
		return err
	}

	id, err := strconv.ParseUint(cmdCtx.Arg(0), 10, 32)
	if err != nil {
		return newUsageError("invalid history id %q", cmdCtx.Arg(0))
	}

	removed, err := h.store.Remove(ctx, uint(id))
	if err != nil {
		return &historyError{err: err}
	}
	if !removed {
		return &historyError{err: fmt.Errorf("no history entry with id %d", id)}
	}

	result := struct {
		Removed uint `json:"removed"`
	}{uint(id)}
	return writeOutput(cmdCtx, result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Removed history entry %d\n", id)
		return err
	})
}

// HistoryClearHandler implements CommandHandler for "history clear"
type HistoryClearHandler struct {
	store HistoryStore
}

// NewHistoryClearHandler creates a new HistoryClearHandler. store may be nil.
func NewHistoryClearHandler(store HistoryStore) *HistoryClearHandler {
	return &HistoryClearHandler{store: store}
}

// Command returns the command string this handler processes
func (h *HistoryClearHandler) Command() string {
	return "history clear"
}

// Usage implements CommandHandler
func (h *HistoryClearHandler) Usage() Usage {
	return Usage{Short: "Forget every folder in the history"}
}

// Handle processes the history clear command
func (h *HistoryClearHandler) Handle(ctx context.Context, cmdCtx *CommandContext) error {
	if err := requireStore(h.store); err != nil {
		return err
	}
	if err := h.store.Clear(ctx); err != nil {
		return &historyError{err: err}
	}

	result := struct {
		Cleared bool `json:"cleared"`
	}{true}
	return writeOutput(cmdCtx, result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "History cleared")
		return err
	})
}
