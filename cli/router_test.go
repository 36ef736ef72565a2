package cli

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
)

// MockCommandHandler is a mock implementation of CommandHandler for testing
type MockCommandHandler struct {
	command     string
	usage       Usage
	mu          sync.Mutex
	handleCalls []*CommandContext
	handleFunc  func(ctx context.Context, cmdCtx *CommandContext) error
}

func (m *MockCommandHandler) Handle(ctx context.Context, cmdCtx *CommandContext) error {
	m.mu.Lock()
	m.handleCalls = append(m.handleCalls, cmdCtx)
	m.mu.Unlock()
	if m.handleFunc != nil {
		return m.handleFunc(ctx, cmdCtx)
	}
	return nil
}

func (m *MockCommandHandler) Command() string { return m.command }
func (m *MockCommandHandler) Usage() Usage    { return m.usage }

func (m *MockCommandHandler) Calls() []*CommandContext {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*CommandContext(nil), m.handleCalls...)
}

func newTestRouter() (*CommandRouter, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	router := NewCommandRouter(nil, out, errOut)
	router.errorHandler.newID = func() string { return "0123456789abcdef" }
	return router, out, errOut
}

func TestCommandRouter_RegisterHandler(t *testing.T) {
	router, _, _ := newTestRouter()

	router.RegisterHandler(&MockCommandHandler{command: "resolve"})
	router.RegisterHandler(&MockCommandHandler{command: "history list"})
	router.RegisterHandler(&MockCommandHandler{command: "fetch"})

	if !router.HasHandler("resolve") {
		t.Error("Expected handler for resolve to be registered")
	}
	if router.HasHandler("list") {
		t.Error("Expected no handler for bare list")
	}

	expected := []string{"fetch", "history list", "resolve"}
	if got := router.GetRegisteredCommands(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected commands %v, got %v", expected, got)
	}
}

func TestCommandRouter_RoutesArgsAndOptions(t *testing.T) {
	router, _, _ := newTestRouter()
	handler := &MockCommandHandler{
		command: "resolve",
		usage:   Usage{Args: "FOLDER", MinArgs: 1, MaxArgs: 1},
	}
	router.RegisterHandler(handler)

	code := router.Execute(context.Background(), []string{"resolve", "/mods/a", "--output", "yaml", "--events", "log"})
	if code != ExitOK {
		t.Fatalf("Expected exit code %d, got %d", ExitOK, code)
	}

	calls := handler.Calls()
	if len(calls) != 1 {
		t.Fatalf("Expected 1 call, got %d", len(calls))
	}
	cmdCtx := calls[0]
	if cmdCtx.Command != "resolve" {
		t.Errorf("Expected command resolve, got %q", cmdCtx.Command)
	}
	if cmdCtx.Arg(0) != "/mods/a" || cmdCtx.Arg(1) != "" {
		t.Errorf("Unexpected args %v", cmdCtx.Args)
	}
	if cmdCtx.Output != OutputYAML || cmdCtx.Events != EventsLog {
		t.Errorf("Unexpected options output=%q events=%q", cmdCtx.Output, cmdCtx.Events)
	}
	if cmdCtx.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
}

func TestCommandRouter_NestedCommands(t *testing.T) {
	router, _, _ := newTestRouter()
	list := &MockCommandHandler{command: "history list"}
	clearCmd := &MockCommandHandler{command: "history clear"}
	router.RegisterHandler(list)
	router.RegisterHandler(clearCmd)

	if code := router.Execute(context.Background(), []string{"history", "clear"}); code != ExitOK {
		t.Fatalf("Expected exit code %d, got %d", ExitOK, code)
	}
	if len(clearCmd.Calls()) != 1 || len(list.Calls()) != 0 {
		t.Errorf("Expected only clear to run, got list=%d clear=%d", len(list.Calls()), len(clearCmd.Calls()))
	}
}

func TestCommandRouter_ArgCountIsUsageError(t *testing.T) {
	router, _, errOut := newTestRouter()
	handler := &MockCommandHandler{
		command: "fetch",
		usage:   Usage{Args: "FOLDER", MinArgs: 1, MaxArgs: 1},
	}
	router.RegisterHandler(handler)

	if code := router.Execute(context.Background(), []string{"fetch"}); code != ExitUsage {
		t.Errorf("Expected exit code %d, got %d", ExitUsage, code)
	}
	if len(handler.Calls()) != 0 {
		t.Error("Expected handler not to run")
	}
	if !strings.Contains(errOut.String(), "spine-mod-loader --help") {
		t.Errorf("Expected usage hint, got %q", errOut.String())
	}
}

func TestCommandRouter_HandlerErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		panicVal interface{}
		expected int
		contains string
	}{
		{"runtime error", errors.New("disk on fire"), nil, ExitFailure, "disk on fire"},
		{"usage error from handler", newUsageError("bad id %q", "x"), nil, ExitUsage, `bad id "x"`},
		{"panic", nil, "boom", ExitFailure, "recovered from panic: panic: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, errOut := newTestRouter()
			router.RegisterHandler(&MockCommandHandler{
				command: "run",
				handleFunc: func(ctx context.Context, cmdCtx *CommandContext) error {
					if tt.panicVal != nil {
						panic(tt.panicVal)
					}
					return tt.err
				},
			})

			if code := router.Execute(context.Background(), []string{"run"}); code != tt.expected {
				t.Errorf("Expected exit code %d, got %d", tt.expected, code)
			}
			if !strings.Contains(errOut.String(), tt.contains) {
				t.Errorf("Expected stderr to contain %q, got %q", tt.contains, errOut.String())
			}
		})
	}
}

func TestCommandRouter_ContextPassedToHandler(t *testing.T) {
	router, _, _ := newTestRouter()
	type key struct{}
	var got interface{}
	router.RegisterHandler(&MockCommandHandler{
		command: "run",
		handleFunc: func(ctx context.Context, cmdCtx *CommandContext) error {
			got = ctx.Value(key{})
			return nil
		},
	})

	ctx := context.WithValue(context.Background(), key{}, "value")
	router.Execute(ctx, []string{"run"})
	if got != "value" {
		t.Errorf("Expected handler to receive the caller's context, got %v", got)
	}
}
