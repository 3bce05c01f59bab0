// Package sensors holds the latest sensor readings consumed by the navigation
// loop: the wide-angle range scan and the three short-range proximity
// channels.
//
// Both holders are written by independent transport goroutines and read once
// per control tick. Writes replace values atomically and never block; readers
// always see the most recent complete value. There is no queueing and no
// staleness check.
package sensors
