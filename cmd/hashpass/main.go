// Command hashpass prints the bcrypt hash of a password for seeding usuarios,
// and with -username also inserts the user.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"techdesk_backend/internal/config"
	"techdesk_backend/internal/database"
	"techdesk_backend/internal/repositories"
	"techdesk_backend/internal/services"
	"techdesk_backend/pkg/utils"
)

func main() {
	password := flag.String("password", "", "password to hash (required)")
	username := flag.String("username", "", "create this user with the hashed password")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "usage: hashpass -password <secret> [-username <name>]")
		os.Exit(2)
	}

	if *username == "" {
		hashed, err := services.HashPassword(*password)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hashed)
		return
	}

	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DB)
	if err != nil {
		utils.LogError(err, "Failed to create database pool")
		os.Exit(1)
	}
	defer pool.Close()

	authService := services.NewAuthService(repositories.NewAuthRepository(), pool, nil)
	user, err := authService.RegisterUser(ctx, *username, *password)
	if err != nil {
		utils.LogError(err, "Failed to create user", map[string]interface{}{"username": *username})
		os.Exit(1)
	}
	fmt.Printf("created user %s (id %d)\n", user.Username, user.ID)
}
