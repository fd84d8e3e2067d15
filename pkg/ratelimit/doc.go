// Package ratelimit paces calls against the Shopify admin API.
//
// Two independent ceilings are enforced before each call:
//
//   - Spacing: calls are at least Policy.Cycle apart. When the previous call
//     was too recent the limiter sleeps ceil(Cycle - elapsed) rounded up to
//     whole Policy.Unit.
//   - Budget: when the API reports Policy.BudgetFloor or fewer calls left in
//     its bucket, the limiter sleeps Policy.BudgetPause so the bucket can leak.
//
// Spacing is checked first. If it triggers, the budget is not consulted for
// that call, so the two pauses never add up.
//
// Usage:
//
//	limiter := ratelimit.NewCycleLimiter(ratelimit.DefaultPolicy(), client)
//	for _, key := range keys {
//	    if _, err := limiter.CheckCycle(ctx); err != nil {
//	        return err
//	    }
//	    // call the API
//	}
package ratelimit
