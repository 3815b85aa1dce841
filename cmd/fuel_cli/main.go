// Command fuel_cli signs in to a fuel credit server from the terminal and
// keeps the session in the user's config directory.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/client/api"
	"github.com/SscSPs/fuel_credit_app/internal/client/session"
	"github.com/SscSPs/fuel_credit_app/internal/client/storage"
	"github.com/SscSPs/fuel_credit_app/internal/dto"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

const usage = `usage: fuel_cli [flags] <command>

commands:
  register   create an account (sign in afterwards)
  login      sign in and remember the session
  me         show the signed-in user
  logout     sign out and forget the session
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, out io.Writer) error {
	fs := flag.NewFlagSet("fuel_cli", flag.ContinueOnError)
	server := fs.String("server", envOr("FUEL_CREDIT_SERVER", "http://localhost:3000"), "server base URL")
	storePath := fs.String("store", "", "session file (defaults to the user config dir)")
	verbose := fs.Bool("v", false, "log diagnostics to stderr")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage); fs.PrintDefaults() }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("exactly one command is required")
	}

	path := *storePath
	if path == "" {
		p, err := storage.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	manager := session.New(api.New(*server), storage.NewFileStore(path), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := manager.Init(ctx); err != nil {
		return err
	}

	reader := bufio.NewReader(stdin)
	switch fs.Arg(0) {
	case "register":
		return register(ctx, manager, reader, stdin, out)
	case "login":
		return login(ctx, manager, reader, stdin, out)
	case "me":
		return printUser(manager, out)
	case "logout":
		if err := manager.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Signed out.")
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", fs.Arg(0))
	}
}

func register(ctx context.Context, m *session.Manager, reader *bufio.Reader, stdin *os.File, out io.Writer) error {
	var req dto.RegisterRequest
	var err error
	if req.FirstName, err = prompt(reader, out, "First name"); err != nil {
		return err
	}
	if req.LastName, err = prompt(reader, out, "Last name"); err != nil {
		return err
	}
	if req.Email, err = prompt(reader, out, "Email"); err != nil {
		return err
	}
	if req.Password, err = password(stdin, out); err != nil {
		return err
	}

	if err := m.Register(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(out, "Account created. Run `fuel_cli login` to sign in.")
	return nil
}

func login(ctx context.Context, m *session.Manager, reader *bufio.Reader, stdin *os.File, out io.Writer) error {
	if m.IsAuthenticated() {
		fmt.Fprintf(out, "Already signed in as %s.\n", m.CurrentUser().Email)
		return nil
	}
	email, err := prompt(reader, out, "Email")
	if err != nil {
		return err
	}
	pw, err := password(stdin, out)
	if err != nil {
		return err
	}

	if err := m.Login(ctx, email, pw); err != nil {
		return err
	}
	fmt.Fprintf(out, "Welcome, %s.\n", m.CurrentUser().FirstName)
	return nil
}

func printUser(m *session.Manager, out io.Writer) error {
	u := m.CurrentUser()
	if u == nil {
		fmt.Fprintln(out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(out, "%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
	if acc := u.FuelAccount; acc != nil {
		fmt.Fprintf(out, "Account %s  status %s  balance %s  credit limit %s\n",
			acc.ID, acc.Status, acc.Balance.StringFixed(2), acc.CreditLimit.StringFixed(2))
	}
	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func password(stdin *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	pw, err := readPassword(int(stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
