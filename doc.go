// Package yatriq is the travel-insight core behind the YATRI-Q planner.
//
// A Client ties the pieces together: provider adapters answer schedule,
// prediction, tracking, booking, chat and planner requests; a coalescer
// deduplicates the predictive lookups; an insight fetcher composes seat,
// tatkal and sentiment predictions; and a tracking simulator advances live
// train positions. Server exposes the Client over a JSON HTTP API.
//
// Basic usage:
//
//	client, err := yatriq.New(ctx, yatriq.Options{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	insight := client.GetCompositeInsight(ctx, model.InsightQuery{TrainNo: "12951"})
package yatriq
