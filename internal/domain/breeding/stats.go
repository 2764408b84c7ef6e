package breeding

import "time"

// Summary son los números de la cabecera de eventos.
type Summary struct {
	Active   int
	ByStatus map[Status]int // solo activos; omite ceros

	// TotalOffspring suma las crías exitosas de todos los eventos, incluidos
	// los dados de baja.
	TotalOffspring int

	Completed int
	Failed    int
	Upcoming  int
}

func Summarize(items []Event, now time.Time) Summary {
	s := Summary{ByStatus: map[Status]int{}}
	for _, e := range items {
		s.TotalOffspring += e.SuccessfulOffspring

		if !e.IsActive {
			continue
		}
		s.Active++
		s.ByStatus[e.Status]++

		switch e.Status {
		case StatusCompleted:
			s.Completed++
		case StatusFailed:
			s.Failed++
		}
		if isUpcoming(e, now) {
			s.Upcoming++
		}
	}
	return s
}

// isUpcoming: activo, scheduled y con fecha estrictamente futura.
func isUpcoming(e Event, now time.Time) bool {
	return e.IsActive && e.Status == StatusScheduled && e.ScheduledDate.After(now)
}
