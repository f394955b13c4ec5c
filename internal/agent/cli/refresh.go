package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-session-keeper/internal/agent/config"
)

// NewRefreshCmd создаёт CLI-команду для обновления пары токенов.
//
// Сохранённый refresh токен одноразовый: после успешного обмена
// в конфиг записывается новая пара. Если сервер отверг токен
// (неизвестен или истёк), локальные креды очищаются и нужно
// заново выполнить login.
//
// Пример использования:
//
//	sessionctl refresh
func NewRefreshCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Обновить пару токенов по refresh токену",
		Long: `Обменивает refresh token на новую пару access/refresh.

Пример:
  sessionctl refresh
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds.RefreshToken == "" {
				return errors.New("no refresh_token in config, run: sessionctl login")
			}

			c := NewAPIClient(app.ServerURL)
			tokens, err := c.Refresh(app.Creds.RefreshToken)
			if err != nil {
				if api.IsUnauthorized(err) {
					app.Creds.Clear()
					if saveErr := config.Save(app.CredsPath, app.Creds); saveErr != nil {
						return saveErr
					}
					return fmt.Errorf("%w (local tokens cleared), run: sessionctl login", err)
				}
				return err
			}

			if err := storeTokens(app, "", tokens); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "refresh ok (tokens updated)")
			return nil
		},
	}

	return cmd
}
