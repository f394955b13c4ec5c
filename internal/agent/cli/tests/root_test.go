package tests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/agent/cli"
)

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	cmd := cli.NewRootCmd("1.0.0", "2026-01-16")

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}

	for _, w := range []string{"register", "login", "refresh", "logout", "me", "version"} {
		if !names[w] {
			t.Fatalf("expected subcommand %q to exist", w)
		}
	}
}

func TestNewRootCmd_PersistentPreRunE_LoadsCredsFromFlag(t *testing.T) {
	p := filepath.Join(t.TempDir(), "creds.json")
	if err := os.WriteFile(p, []byte(`{"access_token":"access-1","refresh_token":"refresh-1"}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := runCmd(cli.NewRootCmd("1.0.0", "2026-01-16"), "", "--creds", p, "version")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "version=1.0.0") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNewRootCmd_PersistentPreRunE_ReturnsErrorOnBadCredsFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "creds.json")
	if err := os.WriteFile(p, []byte("{not-json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := runCmd(cli.NewRootCmd("1.0.0", "2026-01-16"), "", "--creds", p, "version"); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestNewRootCmd_ServerFromEnv(t *testing.T) {
	t.Setenv("SESSIONCTL_SERVER", "https://sessions.example:9443")

	root := cli.NewRootCmd("1.0.0", "2026-01-16")
	f := root.PersistentFlags().Lookup("server")
	if f == nil || f.DefValue != "https://sessions.example:9443" {
		t.Fatalf("expected server default from env, got %+v", f)
	}
}
