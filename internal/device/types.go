package device

// TimeLayout is the timestamp format used throughout FleetRMS for
// storage and API exchange: "YYYY-MM-DD HH:MM:SS" in UTC.
const TimeLayout = "2006-01-02 15:04:05"

// Device represents a managed device in the fleet.
//
// Metadata fields are pointers so absent values stay NULL in storage
// and are omitted from JSON. Metadata is recorded on first check-in and
// never overwritten afterwards.
// LastSeen and CreatedAt are stored and exchanged as strings in
// TimeLayout; a malformed LastSeen degrades to "offline" at read time
// instead of failing the read.
type Device struct {
	DeviceID     string  `json:"device_id"`
	Name         *string `json:"device_name,omitempty"`
	OSVersion    *string `json:"os_version,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	BatteryLevel *int    `json:"battery_level,omitempty"`
	LastSeen     string  `json:"last_seen"`
	CreatedAt    string  `json:"created_at"`
}

// CheckIn is a device heartbeat. DeviceID is required; everything else
// is optional metadata refreshed on this contact.
type CheckIn struct {
	DeviceID     string  `json:"device_id"`
	Name         *string `json:"device_name,omitempty"`
	OSVersion    *string `json:"os_version,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	BatteryLevel *int    `json:"battery_level,omitempty"`
}

// Status is a device together with its presence, evaluated at read time.
// Online is never persisted.
type Status struct {
	Device
	Online bool `json:"is_online"`
}
