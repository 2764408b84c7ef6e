package breeding

import "strings"

// Names resuelve ids a nombres para búsqueda y presentación.
// Un id desconocido se resuelve a "".
type Names struct {
	Animals  map[string]string
	Colonies map[string]string
}

// Listed es un evento con los nombres ya resueltos.
type Listed struct {
	Event
	FatherName string
	MotherName string
	ColonyName string
}

func (n Names) Listed(e Event) Listed {
	return Listed{
		Event:      e,
		FatherName: n.Animals[e.FatherID],
		MotherName: n.Animals[e.MotherID],
		ColonyName: n.Colonies[e.ColonyID],
	}
}

// searchText: "<padre> <madre> <colonia>".
func (n Names) searchText(e Event) string {
	return n.Animals[e.FatherID] + " " + n.Animals[e.MotherID] + " " + n.Colonies[e.ColonyID]
}

// Criteria es lo que el usuario elige en la pantalla de eventos.
// Status vacío equivale a StatusAll.
type Criteria struct {
	Search string
	Status string
}

func (c Criteria) matches(e Event, names Names) bool {
	if !e.IsActive {
		return false
	}
	if c.Status != "" && c.Status != StatusAll && string(e.Status) != c.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(c.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(names.searchText(e)), term)
}

// Filter devuelve los activos que cumplen c, en el mismo orden de entrada.
func Filter(items []Event, c Criteria, names Names) []Event {
	out := make([]Event, 0, len(items))
	for _, e := range items {
		if c.matches(e, names) {
			out = append(out, e)
		}
	}
	return out
}
