// Command useradd creates a login for the intake admin panel.
//
//	useradd -db noahform.db -email admin@noahform.be -name Noah -role admin
//
// The password is read twice from the terminal without echo. When stdin is
// not a terminal a single line is read instead.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/noahform/intake/internal/auth"
	"github.com/noahform/intake/internal/database"
	"github.com/noahform/intake/internal/store"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "useradd:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin *os.File, w io.Writer) error {
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(w)
	dbPath := fs.String("db", envOr("INTAKE_DB_PATH", "noahform.db"), "path to the SQLite database")
	email := fs.String("email", "", "login email (required)")
	name := fs.String("name", "", "display name")
	role := fs.String("role", "admin", "role stored in the token (admin or user)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	*email = strings.TrimSpace(*email)
	if *email == "" {
		return errors.New("-email is required")
	}
	if *role != "admin" && *role != "user" {
		return fmt.Errorf("unknown role %q", *role)
	}

	password, err := promptPassword(stdin, w)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	db, err := database.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	users := store.NewUserStore(db)
	existing, err := users.GetByEmail(ctx, *email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("user %s already exists", *email)
	}

	u, err := users.Create(ctx, *email, hash, *name, *role)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "created user %d (%s, role %s)\n", u.ID, u.Email, u.Role)
	return nil
}

func promptPassword(stdin *os.File, w io.Writer) (string, error) {
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(w, "Password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(w, "Repeat password: ")
	second, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
