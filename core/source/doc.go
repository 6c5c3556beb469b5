// Package source generates occurrences at random intervals.
//
// Trigger calls a function a fixed number of times, sleeping a random duration in
// [0, maxInterval) before each call. Burst runs one Trigger per event name in
// parallel and emits through an events.Bus, which is how the simulate command
// drives the synchronizer.
//
// # Usage
//
//	err := source.Burst(ctx, bus, events.DefaultNames, 1000, 5*time.Millisecond)
package source
