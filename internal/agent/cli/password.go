package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/agent/config"
)

// readPassword читает пароль из stdin (первая строка) или с терминала без эха.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := strings.TrimRight(line, "\r\n")
		if pw == "" {
			return "", errors.New("empty password on stdin")
		}
		return pw, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	// пробелы в пароле значимы, поэтому не TrimSpace
	pw := string(pwBytes)
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}

// storeTokens переносит полученную пару в локальные креды и сохраняет их.
func storeTokens(app *App, userName string, t api.Tokens) error {
	if userName != "" {
		app.Creds.UserName = userName
	}
	app.Creds.AccessToken = t.AccessToken
	app.Creds.RefreshToken = t.RefreshToken
	app.Creds.AccessExpiresAt = t.AccessExpiresAt
	app.Creds.RefreshExpiresAt = t.RefreshExpiresAt
	return config.Save(app.CredsPath, app.Creds)
}
