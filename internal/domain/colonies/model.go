package colonies

import "time"

// Colony (ajolotario) es la instalación de primer nivel de un usuario.
// Es dueña de sus estanques; un estanque nunca cambia de colonia.
type Colony struct {
	ID          string
	OwnerUserID string

	Name        string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pond (estanque) es la unidad de alojamiento dentro de una colonia.
type Pond struct {
	ID       string
	ColonyID string

	Name        string
	Capacity    int     // cantidad máxima de ejemplares
	Temperature float64 // °C

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	MinTemperature = 0.0
	MaxTemperature = 30.0
)
