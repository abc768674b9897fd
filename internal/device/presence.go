package device

import "time"

// IsOnline reports whether a device with the given last_seen timestamp
// is online at instant now: online iff now - last_seen < threshold.
// A device whose last contact is exactly threshold ago is offline.
//
// lastSeen is a TimeLayout string in UTC. Malformed or empty values
// report offline; future timestamps (clock skew) report online.
func IsOnline(lastSeen string, now time.Time, threshold time.Duration) bool {
	seen, err := time.ParseInLocation(TimeLayout, lastSeen, time.UTC)
	if err != nil {
		return false
	}
	return now.UTC().Sub(seen) < threshold
}
