package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"filevault-backend/config"
	"filevault-backend/internal/database"
	"filevault-backend/internal/models"
	"filevault-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// Command flags
	createUser   = flag.Bool("create", false, "Create a new user")
	deleteUser   = flag.Bool("delete", false, "Delete a user and all their tokens and uploads")
	revokeTokens = flag.Bool("revoke-tokens", false, "Revoke all refresh tokens for a user")
	listUsers    = flag.Bool("list", false, "List all users")

	// User data flags
	email    = flag.String("email", "", "User's email")
	password = flag.String("password", "", "User's password")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := database.Initialize(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database.GetDB())
	tokenRepo := repository.NewTokenRepository(database.GetDB())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch {
	case *createUser:
		return handleCreateUser(ctx, userRepo, cfg)
	case *deleteUser:
		return handleDeleteUser(ctx, userRepo)
	case *revokeTokens:
		return handleRevokeTokens(ctx, userRepo, tokenRepo)
	case *listUsers:
		return handleListUsers(ctx, userRepo)
	default:
		printUsage()
		return nil
	}
}

func handleCreateUser(ctx context.Context, userRepo *repository.UserRepository, cfg *config.Config) error {
	if *email == "" || *password == "" {
		return fmt.Errorf("email and password are required")
	}
	if len(*password) < cfg.Auth.PasswordMinLength {
		return fmt.Errorf("password must be at least %d characters", cfg.Auth.PasswordMinLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        *email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}

	if err := userRepo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Successfully created user: %s\n", user.Email)
	return nil
}

func handleDeleteUser(ctx context.Context, userRepo *repository.UserRepository) error {
	if *email == "" {
		return fmt.Errorf("email is required")
	}

	user, err := userRepo.GetUserByEmail(ctx, *email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if err := userRepo.DeleteUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Printf("Successfully deleted user: %s\n", user.Email)
	return nil
}

func handleRevokeTokens(ctx context.Context, userRepo *repository.UserRepository, tokenRepo *repository.TokenRepository) error {
	if *email == "" {
		return fmt.Errorf("email is required")
	}

	user, err := userRepo.GetUserByEmail(ctx, *email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if err := tokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	fmt.Printf("Revoked all refresh tokens for user: %s\n", user.Email)
	return nil
}

func handleListUsers(ctx context.Context, userRepo *repository.UserRepository) error {
	users, err := userRepo.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range users {
		fmt.Printf("%s  %s  %s\n", u.ID, u.Email, u.CreatedAt.Format(time.RFC3339))
	}
	fmt.Printf("%d user(s)\n", len(users))
	return nil
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  Create user:    cli -create -email=user@example.com -password=secret123")
	fmt.Println("  Delete user:    cli -delete -email=user@example.com")
	fmt.Println("  Revoke tokens:  cli -revoke-tokens -email=user@example.com")
	fmt.Println("  List users:     cli -list")
}
