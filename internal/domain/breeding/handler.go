package breeding

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"axolotary/internal/middleware"
	"axolotary/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/breeding-events", func(br chi.Router) {
		br.Post("/", createEventHandler(svc))
		br.Get("/", listEventsHandler(svc))
		br.Get("/stats", statsHandler(svc))

		br.Get("/{eventID}", getEventHandler(svc))
		br.Patch("/{eventID}", updateEventHandler(svc))
		br.Delete("/{eventID}", deleteEventHandler(svc))
	})
}

// createEventRequest es el formulario para programar un cruce.
type createEventRequest struct {
	ColonyID      string `json:"colony_id" validate:"required"`
	FatherID      string `json:"father_id" validate:"required"`
	MotherID      string `json:"mother_id" validate:"required,nefield=FatherID"`
	ScheduledDate string `json:"scheduled_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"` // RFC3339
	Status        Status `json:"status" validate:"omitempty,oneof=scheduled in_progress completed failed cancelled" enums:"scheduled,in_progress,completed,failed,cancelled"`
	Notes         string `json:"notes"`
}

// updateEventRequest: solo se modifican los campos presentes. result y los
// conteos requieren que el estado final sea completed o failed.
type updateEventRequest struct {
	ColonyID            *string `json:"colony_id" validate:"omitempty,min=1"`
	FatherID            *string `json:"father_id" validate:"omitempty,min=1"`
	MotherID            *string `json:"mother_id" validate:"omitempty,min=1"`
	ScheduledDate       *string `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Status              *Status `json:"status" validate:"omitempty,oneof=scheduled in_progress completed failed cancelled"`
	Result              *string `json:"result"`
	SuccessfulOffspring *int    `json:"successful_offspring" validate:"omitempty,gte=0"`
	FailedOffspring     *int    `json:"failed_offspring" validate:"omitempty,gte=0"`
	Notes               *string `json:"notes"`
}

type eventResponse struct {
	ID                  string    `json:"id"`
	ColonyID            string    `json:"colony_id"`
	ColonyName          string    `json:"colony_name"`
	FatherID            string    `json:"father_id"`
	FatherName          string    `json:"father_name"`
	MotherID            string    `json:"mother_id"`
	MotherName          string    `json:"mother_name"`
	ScheduledDate       time.Time `json:"scheduled_date"`
	Status              Status    `json:"status"`
	Result              string    `json:"result"`
	SuccessfulOffspring int       `json:"successful_offspring"`
	FailedOffspring     int       `json:"failed_offspring"`
	Notes               string    `json:"notes"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type statsResponse struct {
	Active         int            `json:"active"`
	ByStatus       map[Status]int `json:"by_status"`
	TotalOffspring int            `json:"total_offspring"`
	Completed      int            `json:"completed"`
	Failed         int            `json:"failed"`
	Upcoming       int            `json:"upcoming"`
}

// createEventHandler godoc
// @Summary Programar evento de reproducción
// @Description El padre debe ser un macho activo y la madre una hembra activa. Estado inicial por defecto: scheduled.
// @Tags breeding
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param payload body createEventRequest true "Datos del evento; scheduled_date en RFC3339"
// @Success 201 {object} eventResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/breeding-events [post]
func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		var req createEventRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}
		scheduled, _ := time.Parse(time.RFC3339, req.ScheduledDate)

		e, err := svc.Create(r.Context(), userID, CreateInput{
			ColonyID:      req.ColonyID,
			FatherID:      req.FatherID,
			MotherID:      req.MotherID,
			ScheduledDate: scheduled,
			Status:        req.Status,
			Notes:         req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		l, err := svc.Get(r.Context(), userID, e.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toEventResponse(l))
	}
}

// listEventsHandler godoc
// @Summary Listar eventos de reproducción
// @Description Eventos activos en orden de alta. `q` busca en "padre madre ajolotario"; `status` filtra por estado.
// @Tags breeding
// @Produce json
// @Param q query string false "Texto de búsqueda"
// @Param status query string false "all | scheduled | in_progress | completed | failed | cancelled"
// @Success 200 {array} eventResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/breeding-events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		c, err := parseCriteria(r)
		if err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		items, err := svc.View(r.Context(), userID, c)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toEventResponse(l))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// statsHandler godoc
// @Summary Resumen de reproducción
// @Description Conteos por estado (activos), crías exitosas totales, completados, fallidos y próximos.
// @Tags breeding
// @Produce json
// @Success 200 {object} statsResponse
// @Router /api/breeding-events/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		s, err := svc.Stats(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, statsResponse{
			Active:         s.Active,
			ByStatus:       s.ByStatus,
			TotalOffspring: s.TotalOffspring,
			Completed:      s.Completed,
			Failed:         s.Failed,
			Upcoming:       s.Upcoming,
		})
	}
}

// getEventHandler godoc
// @Summary Ver evento de reproducción
// @Tags breeding
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {object} map[string]string
// @Router /api/breeding-events/{eventID} [get]
func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		l, err := svc.Get(r.Context(), userID, chi.URLParam(r, "eventID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toEventResponse(l))
	}
}

// updateEventHandler godoc
// @Summary Actualizar evento de reproducción
// @Description Transiciones válidas: scheduled -> in_progress | cancelled; in_progress -> completed | failed.
// @Tags breeding
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param payload body updateEventRequest true "Campos a modificar"
// @Success 200 {object} eventResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "transición inválida"
// @Router /api/breeding-events/{eventID} [patch]
func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		var req updateEventRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		in := UpdateInput{
			ColonyID:            req.ColonyID,
			FatherID:            req.FatherID,
			MotherID:            req.MotherID,
			Status:              req.Status,
			Result:              req.Result,
			SuccessfulOffspring: req.SuccessfulOffspring,
			FailedOffspring:     req.FailedOffspring,
			Notes:               req.Notes,
		}
		if req.ScheduledDate != nil {
			t, _ := time.Parse(time.RFC3339, *req.ScheduledDate)
			in.ScheduledDate = &t
		}

		e, err := svc.Update(r.Context(), userID, chi.URLParam(r, "eventID"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		l, err := svc.Get(r.Context(), userID, e.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toEventResponse(l))
	}
}

// deleteEventHandler godoc
// @Summary Dar de baja evento de reproducción
// @Tags breeding
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} eventResponse
// @Failure 404 {object} map[string]string
// @Router /api/breeding-events/{eventID} [delete]
func deleteEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		e, err := svc.SoftDelete(r.Context(), userID, chi.URLParam(r, "eventID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toEventResponse(Listed{Event: e}))
	}
}

func parseCriteria(r *http.Request) (Criteria, error) {
	c := Criteria{
		Search: strings.TrimSpace(r.URL.Query().Get("q")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
	}
	if c.Status == "" {
		c.Status = StatusAll
	}
	if c.Status != StatusAll && !Status(c.Status).Valid() {
		return Criteria{}, errors.New("status must be one of: all scheduled in_progress completed failed cancelled")
	}
	return c, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidParents):
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		httpx.WriteMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.WriteMessage(w, http.StatusNotFound, "breeding event not found")
	default:
		httpx.WriteMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func toEventResponse(l Listed) eventResponse {
	return eventResponse{
		ID:                  l.ID,
		ColonyID:            l.ColonyID,
		ColonyName:          l.ColonyName,
		FatherID:            l.FatherID,
		FatherName:          l.FatherName,
		MotherID:            l.MotherID,
		MotherName:          l.MotherName,
		ScheduledDate:       l.ScheduledDate,
		Status:              l.Status,
		Result:              l.Result,
		SuccessfulOffspring: l.SuccessfulOffspring,
		FailedOffspring:     l.FailedOffspring,
		Notes:               l.Notes,
		IsActive:            l.IsActive,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}
