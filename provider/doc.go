// Package provider holds the adapters for every external capability:
// schedule search, seat, tatkal and sentiment predictions, live tracking,
// bookings, chat and round-trip planning.
//
// Adapters answer from a built-in sample catalogue after a simulated
// latency. They validate their inputs before waiting, never cache, and return
// a model.Result rather than an error so callers can compose partial
// outcomes. All adapters of one Set share a Runtime which carries the clock,
// latency model, random source and failure injector.
package provider
