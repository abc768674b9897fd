// Package api exposes FleetRMS over HTTP: device check-in and polling
// endpoints for the fleet, command and configuration endpoints for the
// controller, plus a minimal HTML status page.
//
// All JSON responses use a flat envelope with "status": "success" on
// the happy path and an "error" object otherwise. Devices poll; nothing
// is pushed.
package api
