package model

type Status string

const (
	StatusOrdered   Status = "ORDERED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var statusLabels = map[Status]string{
	StatusOrdered:   "Ordered",
	StatusCompleted: "Completed",
	StatusCancelled: "Cancelled",
}

// transitions lists the allowed target states of every non-terminal state.
var transitions = map[Status][]Status{
	StatusOrdered: {StatusCancelled, StatusCompleted},
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	return statusLabels[s]
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}
