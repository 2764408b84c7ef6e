package breeding

// Status del evento de reproducción.
// @Enum scheduled, in_progress, completed, failed, cancelled
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// StatusAll es el valor centinela del filtro de estado ("todos").
const StatusAll = "all"

// transitions: scheduled -> in_progress -> completed | failed; scheduled -> cancelled.
var transitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusFailed},
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal: de estos estados no se sale.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// HasOutcome: solo estos estados llevan resultado y conteos de crías.
func (s Status) HasOutcome() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition informa si se puede pasar de from a to. Quedarse en el mismo
// estado siempre se permite.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
