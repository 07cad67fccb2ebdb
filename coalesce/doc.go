// Package coalesce deduplicates provider calls.
//
// A Coalescer keys every request by (capability, entity key). Concurrent
// requests for the same key share one in-flight call, and the settled outcome
// (success or failure) is cached so later requests never reach the provider
// again until the key is invalidated. The cache has no time-based expiry
// unless an ExpiryPolicy other than NoExpiry is configured.
//
// Basic usage:
//
//	c := coalesce.New(coalesce.WithLogger(logger))
//	defer c.Close()
//	res := coalesce.Request(ctx, c, model.CapSeat, "12951", func(ctx context.Context) model.Result[model.SeatPrediction] {
//	    return seat.Fetch(ctx, params)
//	})
package coalesce
