package tasks

// Task is a single to-do item. The JSON shape matches the persisted layout.
type Task struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Status says which list a task belongs to.
type Status int

const (
	StatusActive Status = iota
	StatusCompleted
)

// Other returns the opposite status.
func (s Status) Other() Status {
	if s == StatusCompleted {
		return StatusActive
	}
	return StatusCompleted
}

func (s Status) String() string {
	if s == StatusCompleted {
		return "completed"
	}
	return "active"
}

func statusOf(completed bool) Status {
	if completed {
		return StatusCompleted
	}
	return StatusActive
}
