// Command blogadmin runs maintenance tasks against the blog database.
//
//	blogadmin migrate
//	blogadmin create-user -username NAME -email ADDRESS
//	blogadmin reset-link -email ADDRESS
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"seungpyo.lee/PersonalBlog/internal/app"
	"seungpyo.lee/PersonalBlog/internal/config"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/forms"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var errUsage = errors.New("usage: blogadmin <migrate|create-user|reset-link> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, errUsage)
		os.Exit(2)
	}

	cfg, err := config.LoadBlogConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	lg := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})

	cmd, args := os.Args[1], os.Args[2:]
	infra, err := app.OpenInfra(ctx, cfg, lg, cmd == "migrate")
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to open database")
	}
	defer infra.Close()

	if cmd == "migrate" {
		fmt.Fprintln(os.Stdout, "schema is up to date")
		return
	}

	svc, err := app.NewServices(ctx, infra, cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to build services")
	}
	a := &admin{auth: svc.Auth, accounts: svc.Accounts, out: os.Stdout, stdinFd: int(os.Stdin.Fd())}
	if err := a.run(ctx, cmd, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type admin struct {
	auth     domain.AuthService
	accounts domain.AccountService
	out      io.Writer
	stdinFd  int
}

func (a *admin) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "create-user":
		return a.createUser(ctx, args)
	case "reset-link":
		return a.resetLink(ctx, args)
	default:
		return errUsage
	}
}

// createUser registers an account through the same rules as the sign-up form.
func (a *admin) createUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(a.out)
	username := fs.String("username", "", "account username")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := a.prompt("Enter password: ")
	if err != nil {
		return err
	}
	confirm, err := a.prompt("Confirm password: ")
	if err != nil {
		return err
	}

	form := forms.Registration(a.auth.UsernameTaken, a.auth.EmailTaken)
	values, errs, err := form.Validate(ctx, forms.Values{
		"username":         *username,
		"email":            *email,
		"password":         password,
		"confirm_password": confirm,
	})
	if err != nil {
		return err
	}
	if !errs.Valid() {
		return formError(errs)
	}

	user, err := a.auth.Register(ctx, domain.RegisterRequest{
		Username: values["username"],
		Email:    values["email"],
		Password: values["password"],
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created user %d (%s)\n", user.ID, user.Username)
	return nil
}

// resetLink prints a password reset URL instead of emailing it.
func (a *admin) resetLink(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-link", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("reset-link: -email is required")
	}

	link, err := a.accounts.ResetURL(ctx, strings.TrimSpace(*email))
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("reset-link: %s", forms.NoAccountMsg)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, link)
	return nil
}

func (a *admin) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	pw, err := readPassword(a.stdinFd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func formError(errs forms.Errors) error {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	for _, field := range fields {
		fmt.Fprintf(&b, "%s: %s\n", field, strings.Join(errs[field], " "))
	}
	return errors.New(strings.TrimRight(b.String(), "\n"))
}
