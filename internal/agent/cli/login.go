package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCmd создаёт CLI-команду для входа пользователя в систему.
//
// Команда выполняет аутентификацию на сервере, забирает пару токенов
// из cookies ответа и сохраняет их в локальный конфигурационный файл.
//
// Пример использования:
//
//	sessionctl login --username alice
func NewLoginCmd(app *App) *cobra.Command {
	var (
		userName  string
		passStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (получить access/refresh токены)",
		Long: `Логин пользователя.

Пример:
  sessionctl login --username alice
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := ReadPassword(cmd, passStdin)
			if err != nil {
				return err
			}

			c := NewAPIClient(app.ServerURL)
			tokens, err := c.Login(userName, pw)
			if err != nil {
				return err
			}

			if err := storeTokens(app, userName, tokens); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "login ok (tokens saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&userName, "username", "", "user name for login")
	cmd.Flags().BoolVar(&passStdin, "password-stdin", false, "read password from stdin")
	cmd.MarkFlagRequired("username")

	return cmd
}
