package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"themedl/pkg/auth"
	"themedl/pkg/fetcher"
	"themedl/pkg/logger"
	"themedl/pkg/models"
	"themedl/pkg/shopify"
	"themedl/pkg/ui"
)

var (
	// Download command flags
	outputDir  string
	apiVersion string
	notify     bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <shop> [key:secret] <theme-id>",
	Short: "Download a theme and pack it into a tar archive",
	Long: `Download every asset of a theme into <shop>-<theme> and pack the
directory into <shop>-<theme>.tar.

The shop is either the bare shop name or its full myshopify.com domain.
Credentials come from the key:secret argument when given, otherwise from
'themedl auth login' or THEMEDL_API_KEY and THEMEDL_API_SECRET.

The output directory must not exist yet. If a download fails, the partial
directory is kept and has to be removed before retrying.`,
	Example: `  # Download theme 42 of foo.myshopify.com
  themedl download foo 0123abcd:shppa_secret 42

  # Use stored credentials and show rate limit pauses
  themedl download foo.myshopify.com 42 -v

  # Write the directory and archive somewhere else
  themedl download foo 42 --output ./themes`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory receiving the theme folder and archive (default: current directory)")
	downloadCmd.Flags().StringVar(&apiVersion, "api-version", "", "Admin API version, e.g. 2024-01 (default: unversioned path)")
	downloadCmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the download ends")
}

func runDownload(cmd *cobra.Command, args []string) error {
	log := logger.GetLogger()

	shop := models.ShopDomain(args[0], cfg.Shopify.DomainSuffix)
	themeID, err := parseThemeID(args[len(args)-1])
	if err != nil {
		return err
	}

	var pair string
	if len(args) == 3 {
		pair = args[1]
	}
	creds, err := resolveCredentials(shop, pair, nil)
	if err != nil {
		return err
	}

	theme := models.ThemeRef{ShopDomain: shop, ThemeID: themeID}
	log.WithFields(map[string]interface{}{
		"shop":     shop,
		"theme_id": themeID,
		"output":   cfg.Output.BaseDirectory,
	}).Info("Starting theme download")

	if !quiet {
		ui.PrintBanner()
		ui.PrintInfo("Theme", theme.Name())
	}

	client := shopify.NewClient(creds, &cfg.Shopify, log)
	display := ui.NewProgressDisplay(ui.Out, theme.Name(), verbose, quiet)
	runner := fetcher.NewRunner(client, cfg, display, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var notifier *ui.Notifier
	if notify {
		notifier = ui.NewNotifier()
	}

	result, err := runner.Run(ctx, theme)
	if err != nil {
		display.Abort()
		if notifier != nil {
			notifier.SendError(theme.Name(), err)
		}
		return err
	}

	display.Complete(result.ArchivePath, result.Entries)
	if notifier != nil {
		notifier.SendSuccess(theme.Name(), result.ArchivePath)
	}
	return nil
}

// parseThemeID accepts a positive decimal theme ID
func parseThemeID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid theme ID %q: must be a positive number", arg)
	}
	return id, nil
}

// resolveCredentials prefers an explicit key:secret pair and falls back to
// stored credentials for the shop
func resolveCredentials(shop, pair string, manager *auth.Manager) (models.ShopCredentials, error) {
	if pair != "" {
		return models.ParseAPIPair(shop, pair)
	}

	if manager == nil {
		m, err := auth.NewManager()
		if err != nil {
			return models.ShopCredentials{}, fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		manager = m
	}

	account, err := manager.Retrieve(shop)
	if err != nil {
		return models.ShopCredentials{}, fmt.Errorf("no credentials for %s: pass KEY:SECRET or run 'themedl auth login %s'", shop, shop)
	}

	creds := account.Credentials()
	creds.Domain = shop
	return creds, nil
}
