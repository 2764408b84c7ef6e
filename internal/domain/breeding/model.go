package breeding

import "time"

// Event es un cruce programado (o ya ocurrido) entre dos ejemplares.
type Event struct {
	ID          string
	OwnerUserID string
	ColonyID    string

	FatherID string
	MotherID string

	ScheduledDate time.Time
	Status        Status

	// Resultado: solo tiene sentido en completed / failed.
	Result              string
	SuccessfulOffspring int
	FailedOffspring     int

	Notes string

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
