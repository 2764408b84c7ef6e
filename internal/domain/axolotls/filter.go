package axolotls

import "strings"

// Criteria es lo que el usuario elige en la pantalla de listado.
// Status vacío equivale a StatusAll. ColonyID y PondID vacíos no filtran.
type Criteria struct {
	Search   string
	Status   string
	ColonyID string
	PondID   string
}

func (c Criteria) matches(a Axolotl) bool {
	if !a.IsActive {
		return false
	}
	if c.ColonyID != "" && a.ColonyID != c.ColonyID {
		return false
	}
	if c.PondID != "" && a.PondID != c.PondID {
		return false
	}
	if c.Status != "" && c.Status != StatusAll && string(a.HealthStatus) != c.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(c.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Name), term) ||
		strings.Contains(strings.ToLower(a.Code), term)
}

// Filter devuelve los activos que cumplen c, en el mismo orden de entrada.
func Filter(items []Axolotl, c Criteria) []Axolotl {
	out := make([]Axolotl, 0, len(items))
	for _, a := range items {
		if c.matches(a) {
			out = append(out, a)
		}
	}
	return out
}
