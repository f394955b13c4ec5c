package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/agent/config"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/models"
)

func newApp(t *testing.T, serverURL string, creds *config.Credentials) *cli.App {
	t.Helper()
	if creds == nil {
		creds = &config.Credentials{}
	}
	return &cli.App{
		ServerURL: serverURL,
		CredsPath: filepath.Join(t.TempDir(), "creds.json"),
		Creds:     creds,
	}
}

// issueTokens отвечает так же, как сервер: токены в cookies, в теле только конверт
func issueTokens(w http.ResponseWriter, status int, access, refresh string) {
	http.SetCookie(w, &http.Cookie{Name: api.AccessCookieName, Value: access, Path: "/", HttpOnly: true, Secure: true})
	http.SetCookie(w, &http.Cookie{Name: api.RefreshCookieName, Value: refresh, Path: "/auth/refresh", HttpOnly: true, Secure: true})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.AuthResponse{IsSuccess: true})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.AuthResponse{Message: msg})
}

func runCmd(cmd *cobra.Command, stdin string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
