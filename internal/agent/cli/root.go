// Package cli реализует командный интерфейс (CLI) клиента сервера сессий.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных (access/refresh токены) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/agent/config"
)

// App содержит состояние CLI-приложения, разделяемое между командами.
//
// В структуре хранятся параметры подключения к серверу и загруженные учётные данные.
// Экземпляр App создаётся при построении root-команды и передаётся в подкоманды.
type App struct {
	// ServerURL — базовый URL сервера сессий (например, "https://127.0.0.1:8080").
	ServerURL string

	// CredsPath — путь к файлу с сохранёнными учётными данными (access/refresh токены).
	CredsPath string
	// Creds — загруженные учётные данные из файла конфигурации.
	// Может быть nil, если загрузка не выполнялась или завершилась ошибкой.
	Creds *config.Credentials
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
// В PersistentPreRunE выполняется инициализация состояния приложения:
// определяется путь к файлу учётных данных и загружаются сохранённые токены.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{
		ServerURL: defaultServerURL(),
	}

	cmd := &cobra.Command{
		Use:   "sessionctl",
		Short: "sessionctl — CLI для сервера сессий (login/refresh/logout)",
		Long: `sessionctl.

Команды:
  register  Регистрация нового пользователя (сразу выдаёт токены)
  login     Логин (получить access/refresh)
  refresh   Обменять refresh токен на новую пару
  logout    Отозвать refresh токен и забыть локальные токены
  me        Текущий пользователь по access токену
  version   Версия и дата сборки

Примеры:

Регистрация:
  sessionctl register --username alice --email alice@example.com

Логин:
  sessionctl login --username alice
  (пароль вводится без эха и не попадает в историю shell)

Refresh:
  sessionctl refresh

Проверка токена:
  sessionctl me
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", app.ServerURL, "server base URL (env SESSIONCTL_SERVER)")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "creds", "", "credentials file (default ~/.sessionkeeper/credentials.json)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewRefreshCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
	cmd.AddCommand(NewMeCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

func defaultServerURL() string {
	if u := os.Getenv("SESSIONCTL_SERVER"); u != "" {
		return u
	}
	return "https://127.0.0.1:8443"
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1 (os.Exit(1)).
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
