package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if u := a.sessions.CurrentUser(); u != nil {
		return fmt.Sprintf("(%s)", u.Username)
	}
	return ""
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to the gallery CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("gallery %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.sessions.IsAuthenticated() {
				fmt.Println("Available commands: capture, list, delete <n>, whoami, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "whoami":
			a.whoami()
		case "capture":
			a.capture(ctx)
		case "list":
			a.list(ctx)
		case "delete":
			a.delete(ctx, args)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
