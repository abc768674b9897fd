// Package capture stores data reported by devices that isn't part of
// the command lifecycle: message logs and form submissions. Both are
// append-mostly; only message logs support deletion.
package capture
