// Command adminctl bootstraps an administrator account. It talks to the
// database directly so the first admin can be created before anyone can
// sign in.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"complaintdesk/internal/config"
	"complaintdesk/internal/database"
	"complaintdesk/internal/ids"
	"complaintdesk/internal/models"
	"complaintdesk/internal/repository"
	"complaintdesk/internal/security"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "adminctl:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	name, err := promptLine(reader, "Name")
	if err != nil {
		return err
	}
	if len(name) < 2 {
		return errors.New("name must be at least 2 characters")
	}

	email, err := promptLine(reader, "Email")
	if err != nil {
		return err
	}
	email = strings.ToLower(email)
	if !strings.Contains(email, "@") {
		return errors.New("email looks invalid")
	}

	password, err := promptPassword("Password")
	if err != nil {
		return err
	}
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, cfg.Postgres.DSN); err != nil {
		return err
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	user := models.User{
		ID:           ids.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
	}

	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return fmt.Errorf("a user with email %s already exists", email)
		}
		return err
	}

	fmt.Printf("admin %s <%s> created\n", user.Name, user.Email)
	return nil
}

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
