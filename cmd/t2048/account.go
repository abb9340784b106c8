package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tile2048/internal/identity"
)

var flagEmail string

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Long: `Create an account. The password is read from the terminal without echo,
or from the first line of stdin when it is piped.

Examples:
  t2048 signup --email me@example.com
  echo 'hunter22' | t2048 signup --email me@example.com`,
	Args: cobra.NoArgs,
	RunE: runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to an existing account",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account and its statistics",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	for _, cmd := range []*cobra.Command{signupCmd, loginCmd} {
		cmd.Flags().StringVar(&flagEmail, "email", "", "Account email (prompted when empty)")
	}
}

func runSignup(cmd *cobra.Command, _ []string) error {
	in := bufio.NewReader(os.Stdin)
	email, err := promptLine(in, "Email: ", flagEmail)
	if err != nil {
		return err
	}
	password, err := readPassword(in, "Password: ")
	if err != nil {
		return err
	}
	if isTerminal() {
		confirm, err := readPassword(in, "Repeat password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return errors.New("passwords do not match")
		}
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.ids.SignUp(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s! You are signed in.\n", u.Email)
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	in := bufio.NewReader(os.Stdin)
	email, err := promptLine(in, "Email: ", flagEmail)
	if err != nil {
		return err
	}
	password, err := readPassword(in, "Password: ")
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.ids.SignIn(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s.\n", u.Email)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if a.ids.Current() == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	if err := a.ids.SignOut(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.ids.RequireUser()
	if errors.Is(err, identity.ErrNotAuthenticated) {
		fmt.Println("Not signed in. Run 't2048 login' or 't2048 signup'.")
		return nil
	}
	if err != nil {
		return err
	}

	stats, err := a.store.Stats(ctx, u.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Email:       %s\n", u.Email)
	fmt.Printf("Account:     %s\n", u.ID)
	fmt.Printf("Games:       %d\n", stats.GamesCount)
	fmt.Printf("High score:  %d\n", stats.HighScore)
	if stats.GamesCount > 0 {
		fmt.Printf("Average:     %.0f\n", stats.AvgScore)
		fmt.Printf("Last played: %s\n", stats.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptLine returns value if set, otherwise reads one line from in.
func promptLine(in *bufio.Reader, prompt, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	if isTerminal() {
		fmt.Fprint(os.Stderr, prompt)
	}
	line, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("could not read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a password without echo from a terminal, or one line
// from in when stdin is not a terminal.
func readPassword(in *bufio.Reader, prompt string) (string, error) {
	if !isTerminal() {
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return "", fmt.Errorf("could not read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return string(pw), nil
}
