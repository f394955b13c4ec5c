// Package main содержит точку входа CLI-клиента sessionctl.
//
// Пакет отвечает за запуск консольного клиента и передачу информации о версии и дате сборки в CLI-слой приложения.
package main

import "github.com/IvanChernomyrdin/go-session-keeper/internal/agent/cli"

var (
	// buildVersion и buildDate подставляются при сборке через -ldflags "-X main.buildVersion=..."
	buildVersion = "dev"
	buildDate    = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
