package wizard

// Status classifies a step relative to the active one.
type Status string

const (
	StatusComplete Status = "complete"
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
)

// Marker is one bubble of a progress indicator. Reached reports whether the
// connector leading into the marker should be drawn as done; it is false for
// the first marker, which has no incoming connector.
type Marker struct {
	Position int    `json:"position"`
	Title    string `json:"title,omitempty"`
	Status   Status `json:"status"`
	Reached  bool   `json:"reached"`
}

// Progress computes indicator markers for stepCount steps with index active.
// index is clamped first so renderers never highlight a missing step.
func Progress(index, stepCount int) []Marker {
	if stepCount <= 0 {
		return nil
	}
	index = Clamp(index, stepCount)

	markers := make([]Marker, stepCount)
	for i := range markers {
		status := StatusPending
		switch {
		case i < index:
			status = StatusComplete
		case i == index:
			status = StatusActive
		}
		markers[i] = Marker{
			Position: i + 1,
			Status:   status,
			Reached:  i != 0 && index >= i,
		}
	}
	return markers
}
