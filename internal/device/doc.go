// Package device implements the fleet's device model: registration via
// check-in, metadata merging, derived online/offline presence, and
// cascading removal.
//
// The presence rule is deliberately simple: a device is online iff its
// last check-in was strictly less than the configured threshold ago.
// The flag is computed on every read and never written to storage, so
// there is no staleness to reconcile and no background sweeper to run.
package device
