package capture

// MessageLog is a message observed on a device and reported upstream.
type MessageLog struct {
	ID         int64  `json:"id"`
	DeviceID   string `json:"device_id"`
	Sender     string `json:"sender"`
	Body       string `json:"body"`
	ReceivedAt string `json:"received_at,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// FormSubmission is structured data captured on a device, stored as an
// opaque JSON object alongside its type.
type FormSubmission struct {
	ID        int64          `json:"id"`
	DeviceID  string         `json:"device_id"`
	FormType  string         `json:"form_type"`
	FormData  map[string]any `json:"form_data"`
	CreatedAt string         `json:"created_at"`
}
