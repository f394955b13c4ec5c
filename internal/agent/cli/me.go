package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewMeCmd создаёт CLI-команду, показывающую текущего пользователя по access токену.
func NewMeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Показать текущего пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds.AccessToken == "" {
				return errors.New("no access_token in config, run: sessionctl login")
			}

			me, err := NewAPIClient(app.ServerURL).Me(app.Creds.AccessToken)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "username=%s\nemail=%s\nroles=%s\n",
				me.UserName, me.Email, strings.Join(me.Roles, ","))
			return nil
		},
	}
}
