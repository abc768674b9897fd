// Package config handles FleetRMS configuration loading and validation.
//
// Configuration comes from three layers, each overriding the last:
//
//  1. Hardcoded defaults
//  2. A YAML configuration file
//  3. FLEETRMS_* environment variables
//
// The presence threshold (how long after its last check-in a device is still
// considered online) lives here because it is a single fixed value shared by
// every device in the fleet.
package config
