package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/shared/models"
)

// NewRegisterCmd создаёт CLI-команду для регистрации нового пользователя.
//
// Сервер сразу выдаёт пару токенов, поэтому после регистрации
// пользователь уже залогинен. Пароль читается с терминала без эха
// или из stdin (--password-stdin).
//
// Пример использования:
//
//	sessionctl register --username alice --email alice@example.com
func NewRegisterCmd(app *App) *cobra.Command {
	var (
		req       models.RegisterRequest
		passStdin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Long: `Регистрация нового пользователя на сервере.

Пример:
  sessionctl register --username alice --email alice@example.com
  echo 'P@ssw0rd1!' | sessionctl register --username alice --email alice@example.com --password-stdin
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := ReadPassword(cmd, passStdin)
			if err != nil {
				return err
			}
			req.Password = pw

			c := NewAPIClient(app.ServerURL)
			tokens, err := c.Register(req)
			if err != nil {
				return err
			}
			if err := storeTokens(app, req.UserName, tokens); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "registration successful (tokens saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.UserName, "username", "", "user name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name (optional)")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name (optional)")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "phone number (optional)")
	cmd.Flags().BoolVar(&passStdin, "password-stdin", false, "read password from stdin")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")

	return cmd
}
