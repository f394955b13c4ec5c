package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/agent/config"
)

// NewLogoutCmd создаёт CLI-команду выхода.
//
// Refresh токен отзывается на сервере, локальные креды очищаются.
// Уже выданный access токен остаётся валидным до своего срока.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Выйти (отозвать refresh токен)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := NewAPIClient(app.ServerURL)
			if err := c.Logout(app.Creds.AccessToken); err != nil {
				return err
			}

			app.Creds.Clear()
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "logout ok")
			return nil
		},
	}
}
