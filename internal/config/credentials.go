package config

import (
	"errors"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/naka-gawa/harbor-summary/internal/domain"
)

// Prompter asks the user for secrets.
type Prompter interface {
	Password(message string) (string, error)
}

// EnsureCredentials checks that cfg can authenticate. An API token is
// enough on its own; otherwise a username is required and a missing
// password is asked for through p.
func EnsureCredentials(cfg *Config, p Prompter) error {
	if cfg.APIToken != "" {
		return nil
	}
	if cfg.Username == "" {
		return domain.NewConfigError("--username or --api-token is required")
	}
	if cfg.Password != "" {
		return nil
	}
	if p == nil {
		return domain.NewConfigError("a password is required for user %s", cfg.Username)
	}
	password, err := p.Password("Harbor password:")
	if err != nil {
		return &domain.ConfigError{Message: "failed to read password", Err: err}
	}
	cfg.Password = password
	return nil
}

// TerminalPrompter prompts on the controlling terminal using survey.
type TerminalPrompter struct{}

var errNotTerminal = errors.New("stdin is not a terminal; pass --password or set HARBOR_PASSWORD")

// Password reads a password without echoing it. The prompt goes to stderr
// so stdout stays clean.
func (TerminalPrompter) Password(message string) (string, error) {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return "", errNotTerminal
	}
	var password string
	prompt := &survey.Password{Message: message}
	if err := survey.AskOne(prompt, &password, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)); err != nil {
		return "", err
	}
	return password, nil
}
