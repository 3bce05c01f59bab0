// Package nav is the reactive local-navigation core.
//
// Each control tick it turns the latest proximity sample and range scan into
// one velocity Command:
//
//	ZoneDetector   segments the circular scan into opening Arcs
//	Selector       picks one Arc with a sticky widest/narrowest policy
//	HeadingMapper  turns the chosen Arc into forward speed and turn rate
//	CollisionArbiter overrides lidar steering when a proximity channel is
//	               critical, and runs the stuck-recovery state machine
//
// Navigator.Decide ties the stages together for a single tick and
// Controller runs it at a fixed rate, publishing the result. The core does no
// I/O; transports live in scanlink, proxlink and cmdlink.
package nav
