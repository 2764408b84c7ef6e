package axolotls

// Summary son los conteos de la cabecera del listado.
// ByHealth omite categorías en cero; leer una ausente da 0.
type Summary struct {
	Active   int
	ByHealth map[HealthStatus]int
}

func Summarize(items []Axolotl) Summary {
	s := Summary{ByHealth: map[HealthStatus]int{}}
	for _, a := range items {
		if !a.IsActive {
			continue
		}
		s.Active++
		s.ByHealth[a.HealthStatus]++
	}
	return s
}
