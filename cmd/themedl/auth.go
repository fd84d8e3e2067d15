package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"themedl/pkg/auth"
	"themedl/pkg/models"
	"themedl/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored shop credentials",
	Long: `Manage the API key and secret stored for each shop.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables THEMEDL_API_KEY and THEMEDL_API_SECRET (read only)`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login <shop>",
	Short: "Store the API key and secret for a shop",
	Example: `  themedl auth login foo
  themedl auth login foo.myshopify.com`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <shop>",
	Short: "Remove stored credentials for a shop",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List shops with stored credentials",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	shop := models.ShopDomain(args[0], cfg.Shopify.DomainSuffix)
	reader := bufio.NewReader(os.Stdin)

	if !quiet {
		auth.ShowCredentialGuide(ui.Out, shop)
		fmt.Fprintln(ui.Out)
	}

	if existing, _ := manager.Retrieve(shop); existing != nil {
		fmt.Fprintf(ui.Out, "Credentials for '%s' already exist. Replace them? (y/N): ", shop)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Fprint(ui.Out, "API key: ")
	key, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	key = strings.TrimSpace(key)

	fmt.Fprint(ui.Out, "API secret (hidden): ")
	secret, err := readSecret(reader)
	if err != nil {
		return fmt.Errorf("failed to read API secret: %w", err)
	}

	account := &auth.ShopAccount{
		Shop:      shop,
		APIKey:    key,
		APISecret: secret,
	}
	if err := manager.Store(account); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Credentials saved for %s", shop))
	fmt.Fprintf(ui.Out, "\nDownload a theme with:\n  themedl download %s <theme-id>\n", shop)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	shop := models.ShopDomain(args[0], cfg.Shopify.DomainSuffix)
	if err := manager.Delete(shop); err != nil {
		return err
	}
	ui.PrintSuccess("Credentials removed: " + shop)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored credentials", "Use 'themedl auth login <shop>' to add a shop")
		return nil
	}

	ui.PrintHighlight("Stored Shops")
	fmt.Fprintln(ui.Out)
	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Fprintf(ui.Out, "%d. %s\n", i+1, sanitized.Shop)
		fmt.Fprintf(ui.Out, "   API key: %s\n", sanitized.APIKey)
		fmt.Fprintf(ui.Out, "   API secret: %s\n", sanitized.APISecret)
		fmt.Fprintf(ui.Out, "   Last Modified: %s\n\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// readSecret reads without echo on a terminal and falls back to a plain line
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(ui.Out)
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
