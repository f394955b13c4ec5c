package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Локальный запуск: сервер в фоне плюс сборка CLI-клиента sessionctl.
func main() {
	fmt.Println("Запуск сервера сессий...")

	clientName := "sessionctl"
	if runtime.GOOS == "windows" {
		clientName = "sessionctl.exe"
	}
	// запускаем сервер на фоне
	server := exec.Command("go", "run", "./cmd/server")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr

	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	time.Sleep(3 * time.Second)
	// собираем клиента
	if _, err := os.Stat(clientName); os.IsNotExist(err) {
		fmt.Println("Сборка клиента...")
		build := exec.Command("go", "build", "-o", clientName, "./cmd/sessionctl")
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		if err := build.Run(); err != nil {
			fmt.Printf("Ошибка сборки клиента: %v\n", err)
			server.Process.Kill()
			return
		}
	}

	fmt.Println("Сервер запущен")
	if runtime.GOOS == "windows" {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: .\\sessionctl.exe login --username <name>")
	} else {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: ./sessionctl login --username <name>")
	}

	server.Wait()
}
