// Package fetcher downloads every asset of a Shopify theme and packs the
// result into a tar archive.
//
// A Fetcher performs one listing call, then fetches assets strictly in
// listing order. Each fetch waits on the rate gate first, and each stored
// asset produces two progress events: Downloading, then Downloaded. The
// first error ends the run without retrying.
//
// A Runner wraps the Fetcher in the full run:
//
//	init -> directory_setup -> listing -> downloading -> packaging -> done
//
// Any failure moves it to aborted. An existing output directory aborts
// before the API is contacted, and a run that aborts after setup leaves its
// partial directory on disk for inspection.
//
//	runner := fetcher.NewRunner(client, cfg, display, log)
//	result, err := runner.Run(ctx, models.ThemeRef{ShopDomain: "foo.myshopify.com", ThemeID: 42})
package fetcher
