package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const minPasswordLength = 8

// readPassword returns flagValue when set. Otherwise it prompts twice with
// echo disabled, or reads one line when stdin is not a terminal.
func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	password := flagValue
	if password == "" {
		var err error
		password, err = promptPassword(cmd)
		if err != nil {
			return "", err
		}
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return password, nil
}

func promptPassword(cmd *cobra.Command) (string, error) {
	stdin, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(stdin.Fd())) {
		// Piped input: read one line without prompting.
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fd := int(stdin.Fd())
	out := cmd.ErrOrStderr()

	fmt.Fprint(out, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Fprint(out, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading password confirmation: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
