package axolotls

import "time"

// Axolotl es un ejemplar registrado. Vive en exactamente un estanque, y ese
// estanque pertenece a ColonyID.
type Axolotl struct {
	ID          string
	OwnerUserID string

	ColonyID string
	PondID   string

	Code    string // único entre los activos de la colonia
	Name    string
	Species string
	Gender  Gender

	BirthDate  *time.Time
	OriginZone string

	HealthStatus    HealthStatus
	LastHealthCheck time.Time
	Notes           string

	// IsActive=false es la baja lógica; el registro nunca se borra.
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
