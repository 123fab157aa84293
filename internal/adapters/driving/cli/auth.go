package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/storefront-cli/internal/adapters/driven/auth"
	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/logger"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored credentials",
	Long: `Store, inspect and remove the tokens used to authenticate requests.

The access token is sent as a bearer token with every request. The refresh
token is exchanged for a new access token whenever the API answers 401.

Examples:
  # Store a refresh token (prompted without echo)
  storefront auth login

  # Store both tokens non-interactively
  storefront auth login --access-token "..." --refresh-token "..."

  # Use a separate profile
  storefront --profile staging auth login`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store credentials",
	Long: `Replace the stored credentials with the given tokens.

When neither flag is given the refresh token is read from the terminal
without echo, or from standard input when it is not a terminal.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored credentials",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh token for a new access token",
	Args:  cobra.NoArgs,
	RunE:  runAuthRefresh,
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the current access token",
	Long: `Print the current access token, refreshing it first if none is stored.

Useful for handing the token to other tools:
  curl -H "Authorization: Bearer $(storefront auth token)" ...`,
	Args: cobra.NoArgs,
	RunE: runAuthToken,
}

// Flags for auth login.
var (
	loginAccessToken  string
	loginRefreshToken string
)

func init() {
	authLoginCmd.Flags().StringVar(
		&loginAccessToken, "access-token", "", "Access token to store")
	authLoginCmd.Flags().StringVar(
		&loginRefreshToken, "refresh-token", "", "Refresh token to store")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRefreshCmd)
	authCmd.AddCommand(authTokenCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if credentialsService == nil {
		return notConfigured("credentials service")
	}

	access, refresh := loginAccessToken, loginRefreshToken
	if access == "" && refresh == "" {
		token, err := promptSecret(cmd, "Refresh token: ")
		if err != nil {
			return fmt.Errorf("failed to read refresh token: %w", err)
		}
		refresh = token
	}

	if err := credentialsService.Login(cmd.Context(), access, refresh); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	cmd.Println("Credentials saved.")
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if credentialsService == nil {
		return notConfigured("credentials service")
	}
	if err := credentialsService.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	cmd.Println("Credentials removed.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if credentialsService == nil {
		return notConfigured("credentials service")
	}

	status, err := credentialsService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Profile", "Token", "Stored", "Preview"})
	table.Append([]string{status.Scope, "access", yesNo(status.HasAccessToken), status.AccessTokenPreview})
	table.Append([]string{status.Scope, "refresh", yesNo(status.HasRefreshToken), status.RefreshTokenPreview})
	table.Render()

	if !status.IsAuthenticated() {
		cmd.Println("Not logged in. Run 'storefront auth login' to store credentials.")
	}
	return nil
}

func runAuthRefresh(cmd *cobra.Command, _ []string) error {
	if requestGate == nil {
		return notConfigured("request gate")
	}
	if _, ok := requestGate.Refresh(cmd.Context()); !ok {
		if logger.IsVerbose() {
			return errors.New("token refresh failed, run 'storefront auth login' to re-authenticate")
		}
		return errors.New("token refresh failed, run with --verbose for details or 'storefront auth login' to re-authenticate")
	}
	cmd.Println("Access token refreshed.")
	return nil
}

func runAuthToken(cmd *cobra.Command, _ []string) error {
	if requestGate == nil {
		return notConfigured("request gate")
	}
	token, err := auth.NewTokenSource(cmd.Context(), requestGate).Token()
	if err != nil {
		return withHint(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token.AccessToken)
	return nil
}

// promptSecret reads a line without echo when stdin is a terminal, and a
// plain line from the command's input otherwise.
func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		cmd.Print(prompt)
		secret, err := term.ReadPassword(int(in.Fd()))
		cmd.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// withHint adds a suggested next step to errors the user can fix.
func withHint(err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return fmt.Errorf("%w (run 'storefront auth login')", err)
	case errors.Is(err, domain.ErrInvalidTarget):
		return fmt.Errorf("%w (check api.base_url and api.allowed_hosts with 'storefront config show')", err)
	default:
		return err
	}
}
