package command

// Status values for the command lifecycle. Transitions are forward-only:
// pending -> sent -> executed, with pending -> executed allowed for
// devices that confirm out of band.
const (
	StatusPending  = "pending"
	StatusSent     = "sent"
	StatusExecuted = "executed"
)

// Command is a unit of work queued for a device.
//
// Data round-trips as JSON: an arbitrary object supplied at enqueue
// time and handed to the device verbatim on delivery.
type Command struct {
	ID        int64          `json:"id"`
	DeviceID  string         `json:"device_id"`
	Type      string         `json:"command_type"`
	Data      map[string]any `json:"command_data"`
	Status    string         `json:"status"`
	CreatedAt string         `json:"created_at"`
}
