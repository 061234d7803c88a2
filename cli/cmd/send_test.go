package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/courier/cli/config"
)

func TestResolveKind_FlagWins(t *testing.T) {
	c := newTestContext(t, map[string]string{"kind": "webhook"})
	cfg := &config.Config{Transport: config.TransportConfig{Kind: "spool"}}

	if got := resolveKind(c, cfg); got != "webhook" {
		t.Errorf("expected flag to win, got %q", got)
	}
}

func TestResolveKind_ConfigFallback(t *testing.T) {
	c := newTestContext(t, nil)
	cfg := &config.Config{Transport: config.TransportConfig{Kind: "spool"}}

	if got := resolveKind(c, cfg); got != "spool" {
		t.Errorf("expected config fallback, got %q", got)
	}
}

func TestResolveKind_NoKindAnywhere(t *testing.T) {
	c := newTestContext(t, nil)

	if got := resolveKind(c, nil); got != "" {
		t.Errorf("expected empty kind, got %q", got)
	}
}

func TestResolveSettings_FlagOverridesConfig(t *testing.T) {
	c := newTestContext(t, map[string]string{
		"api-key": "flag-key",
		"timeout": "3s",
	})
	cfg := &config.Config{Transport: config.TransportConfig{
		APIKey: "config-key",
		URL:    "https://config.example.com",
	}}

	s, err := resolveSettings(c, cfg)
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}
	if s.APIKey != "flag-key" {
		t.Errorf("expected flag api-key to win, got %q", s.APIKey)
	}
	if s.URL != "https://config.example.com" {
		t.Errorf("expected config url to survive, got %q", s.URL)
	}
	if s.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", s.Timeout)
	}
}

func TestResolveSettings_RetriesOnlyWhenSet(t *testing.T) {
	c := newTestContext(t, nil)

	s, err := resolveSettings(c, nil)
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}
	if s.Retries != nil {
		t.Errorf("expected nil retries when flag unset, got %d", *s.Retries)
	}

	c = newTestContext(t, map[string]string{"retries": "0"})
	s, err = resolveSettings(c, nil)
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}
	if s.Retries == nil || *s.Retries != 0 {
		t.Error("expected explicit --retries=0 to produce a zero pointer")
	}
}

func TestResolveSettings_Headers(t *testing.T) {
	c := newTestContext(t, map[string]string{"header": "Authorization=Bearer tok"})

	s, err := resolveSettings(c, nil)
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}
	if s.Headers["Authorization"] != "Bearer tok" {
		t.Errorf("unexpected headers: %v", s.Headers)
	}
}

func TestResolveSettings_MalformedHeader(t *testing.T) {
	c := newTestContext(t, map[string]string{"header": "no-separator"})

	if _, err := resolveSettings(c, nil); err == nil {
		t.Error("expected error for malformed header")
	}
}

func TestBuildMessage_Defaults(t *testing.T) {
	c := newTestContext(t, map[string]string{"subject": "hello", "body": "world"})

	msg, err := buildMessage(c)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	if msg.ID == "" {
		t.Error("expected generated message ID")
	}
	if msg.Subject != "hello" || msg.Body != "world" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestBuildMessage_ExplicitID(t *testing.T) {
	c := newTestContext(t, map[string]string{"id": "msg-42"})

	msg, err := buildMessage(c)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	if msg.ID != "msg-42" {
		t.Errorf("expected explicit ID, got %q", msg.ID)
	}
}

func TestBuildMessage_Attributes(t *testing.T) {
	c := newTestContext(t, map[string]string{"attr": "env=prod"})

	msg, err := buildMessage(c)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	if msg.Attributes["env"] != "prod" {
		t.Errorf("unexpected attributes: %v", msg.Attributes)
	}
}

func TestBuildMessage_MalformedAttr(t *testing.T) {
	c := newTestContext(t, map[string]string{"attr": "noequals"})

	if _, err := buildMessage(c); err == nil {
		t.Error("expected error for malformed attribute")
	}
}

// newTestApp wires the send command with a no-op exit handler so tests
// can inspect exit codes instead of terminating the process.
func newTestApp() *cli.App {
	app := cli.NewApp()
	app.Commands = []*cli.Command{SendCommand()}
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var coder cli.ExitCoder
	if !errors.As(err, &coder) {
		t.Fatalf("expected cli.ExitCoder, got %T: %v", err, err)
	}
	return coder.ExitCode()
}

func TestSendCommand_SpoolDelivers(t *testing.T) {
	dir := t.TempDir()

	err := newTestApp().Run([]string{
		"courier", "send",
		"--kind", "spool",
		"--path", dir,
		"--subject", "greetings",
		"--body", "hello",
		"--quiet",
	})
	if code := exitCode(t, err); code != exitSuccess {
		t.Errorf("expected exit %d, got %d (%v)", exitSuccess, code, err)
	}
}

func TestSendCommand_UnknownKindIsConfigError(t *testing.T) {
	err := newTestApp().Run([]string{
		"courier", "send",
		"--kind", "carrier-pigeon",
		"--quiet",
	})
	if code := exitCode(t, err); code != exitConfigError {
		t.Errorf("expected exit %d, got %d (%v)", exitConfigError, code, err)
	}
}

func TestSendCommand_MissingKindIsConfigError(t *testing.T) {
	err := newTestApp().Run([]string{"courier", "send", "--quiet"})
	if code := exitCode(t, err); code != exitConfigError {
		t.Errorf("expected exit %d, got %d (%v)", exitConfigError, code, err)
	}
}
