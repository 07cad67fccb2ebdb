// Package feed speaks GTFS-Realtime for tracked trains.
//
// Encode turns a tracking state into a FeedMessage with one VehiclePosition
// and one TripUpdate entity, so map clients and other GTFS-RT consumers can
// follow a simulated train. Decode reads VehiclePositions and TripUpdates
// feeds back into per-train VehicleStatus values, and Seed uses a configured
// feed to place trains when tracking starts.
//
// Feeds are fetched over HTTP(S) or read from local files by Client.
package feed
