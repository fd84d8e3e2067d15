// Package shopify provides a client for the theme asset endpoints of the
// Shopify admin REST API.
//
// Requests authenticate with HTTP basic auth using a private app's API key
// and secret. Every response updates the client's view of the shop's call
// bucket from the X-Shopify-Shop-Api-Call-Limit header, which the rate
// limiter reads through CallsRemaining.
//
// Example usage:
//
//	creds, _ := models.ParseAPIPair("foo.myshopify.com", "key:secret")
//	client := shopify.NewClient(creds, &cfg.Shopify, log)
//
//	assets, err := client.ListAssets(ctx, 42)
//	if err != nil {
//	    var apiErr *errors.Error
//	    if stderrors.As(err, &apiErr) && apiErr.Type == errors.ErrorTypeAuth {
//	        // bad credentials
//	    }
//	}
//	content, err := client.GetAsset(ctx, 42, assets[0].Key)
package shopify
