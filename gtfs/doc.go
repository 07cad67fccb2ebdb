/*
Package gtfs indexes the routes of a GTFS static feed so tracked trains can
follow real stop sequences.

This package is data-source agnostic: it accepts raw zip bytes or an
io.ReaderAt and builds an in-memory index. Fetching the zip is left to the
caller, typically feed.Client.

# Basic Usage

	b, err := feed.NewClient().Fetch(ctx, "gtfs.zip")
	if err != nil {
	    return err
	}
	routes, err := gtfs.FromBytes(b)
	if err != nil {
	    return err
	}
	path, ok := routes.Route("12951")

A train is matched by trip_short_name first, then by trip_id. Only
stops.txt, trips.txt and stop_times.txt are read.
*/
package gtfs
