package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/migueltorresd/gallery/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) login(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Enter username or email", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	resp, err := a.sessions.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	fmt.Printf("Logged in as %s\n", resp.User.Username)
}

func (a *App) register(ctx context.Context) {
	req := models.RegisterRequest{}
	var err error

	if req.Username, err = getSimpleText(a.reader, "Choose a username", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	if req.Email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	if req.FullName, err = getSimpleText(a.reader, "Enter full name", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	if req.Password, err = getPassword("Choose a password", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}
	if req.ConfirmPassword, err = getPassword("Confirm password", os.Stdout); err != nil {
		fmt.Println("error:", err)
		return
	}

	resp, err := a.sessions.Register(ctx, req)
	if err != nil {
		fmt.Println("Registration failed:", err)
		return
	}
	fmt.Printf("Welcome, %s!\n", resp.User.Username)
}

func (a *App) logout(ctx context.Context) {
	if err := a.sessions.Logout(ctx); err != nil {
		fmt.Println("Logout finished with errors:", err)
		return
	}
	fmt.Println("Logged out")
}

func (a *App) whoami() {
	u := a.sessions.CurrentUser()
	if u == nil {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("%s <%s> (id %d)\n", u.Username, u.Email, u.ID)
}
