package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowCredentialGuide explains how to obtain an API key and secret for a shop
func ShowCredentialGuide(w io.Writer, shop string) {
	if shop == "" {
		shop = "your-shop.myshopify.com"
	}

	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "SHOPIFY API CREDENTIALS")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "themedl reads themes through the Admin API with a private app's")
	fmt.Fprintln(w, "API key and secret (sent as HTTP basic auth).")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "1. Open https://%s/admin/apps/private\n", shop)
	fmt.Fprintln(w, "2. Create a private app, or open an existing one")
	fmt.Fprintln(w, "3. Grant it read access to \"Themes\"")
	fmt.Fprintln(w, "4. Copy the API key and the password (the secret)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Then either:")
	fmt.Fprintf(w, "   themedl auth login %s\n", shop)
	fmt.Fprintln(w, "or pass them once:")
	fmt.Fprintf(w, "   themedl download %s KEY:SECRET THEME_ID\n", shop)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The key and secret give access to the shop's admin data.")
	fmt.Fprintln(w, "Stored credentials are kept in the system keychain or an encrypted file.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
}
