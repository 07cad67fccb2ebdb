// Package tracking simulates a train's progress along its station path.
//
// A Simulator owns at most one Session per train. Each running session has
// its own goroutine which waits on the clock, advances the current index by
// one station, and hands a deep copy of the new state to subscribers. The
// first step fires after Options.InitialDelay; later steps are drawn
// uniformly from [Options.MinStep, Options.MaxStep]. A session reaching the
// last station becomes Arrived and schedules nothing further.
//
// Locate derives the train's coordinates, heading and remaining distance
// from a TrackingState for map and feed output.
package tracking
