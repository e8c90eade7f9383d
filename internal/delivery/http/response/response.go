package response

// EventResponse reports how an event was handled. Action names the outbound
// request it started, if any.
type EventResponse struct {
	Dispatched       bool   `json:"dispatched"`
	DefaultPrevented bool   `json:"defaultPrevented"`
	Action           string `json:"action,omitempty"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Page     string            `json:"page"`
	Scanning bool              `json:"scanning"`
	Checks   map[string]string `json:"checks,omitempty"`
}
