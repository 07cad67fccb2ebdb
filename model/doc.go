// Package model defines the data shared by the yatriq core.
//
// It holds:
//   - Result, the ok-or-failed value every provider call resolves to
//   - the error taxonomy (InvalidInput, ProviderUnavailable, NotFound)
//   - prediction payloads (seat, tatkal, sentiment) and the CompositeInsight
//   - trains, search criteria, bookings and round-trip bundles
//   - station paths and the TrackingState owned by a simulator session
//   - the Intent variants produced by the intent router
package model
