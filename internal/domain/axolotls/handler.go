package axolotls

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"axolotary/internal/middleware"
	"axolotary/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/axolotls", func(ar chi.Router) {
		ar.Post("/", createAxolotlHandler(svc))
		ar.Get("/", listAxolotlsHandler(svc))
		ar.Get("/stats", statsHandler(svc))

		ar.Get("/{axolotlID}", getAxolotlHandler(svc))
		ar.Patch("/{axolotlID}", updateAxolotlHandler(svc))
		// Baja lógica: el registro queda con is_active=false.
		ar.Delete("/{axolotlID}", deleteAxolotlHandler(svc))
	})
}

// createAxolotlRequest es el formulario de alta de un ejemplar.
type createAxolotlRequest struct {
	ColonyID     string       `json:"colony_id" validate:"required"`
	PondID       string       `json:"pond_id" validate:"required"`
	Code         string       `json:"code" validate:"required"`
	Name         string       `json:"name" validate:"required"`
	Species      string       `json:"species" validate:"required"`
	Gender       Gender       `json:"gender" validate:"omitempty,oneof=male female unknown" enums:"male,female,unknown"`
	BirthDate    string       `json:"birth_date" validate:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD
	OriginZone   string       `json:"origin_zone"`
	HealthStatus HealthStatus `json:"health_status" validate:"omitempty,oneof=healthy sick critical treatment" enums:"healthy,sick,critical,treatment"`
	Notes        string       `json:"notes"`
}

// updateAxolotlRequest: solo se modifican los campos presentes.
type updateAxolotlRequest struct {
	ColonyID        *string       `json:"colony_id" validate:"omitempty,min=1"`
	PondID          *string       `json:"pond_id" validate:"omitempty,min=1"`
	Code            *string       `json:"code" validate:"omitempty,min=1"`
	Name            *string       `json:"name" validate:"omitempty,min=1"`
	Species         *string       `json:"species" validate:"omitempty,min=1"`
	Gender          *Gender       `json:"gender" validate:"omitempty,oneof=male female unknown"`
	BirthDate       *string       `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	OriginZone      *string       `json:"origin_zone"`
	HealthStatus    *HealthStatus `json:"health_status" validate:"omitempty,oneof=healthy sick critical treatment"`
	LastHealthCheck *string       `json:"last_health_check" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"` // RFC3339
	Notes           *string       `json:"notes"`
}

type axolotlResponse struct {
	ID              string       `json:"id"`
	ColonyID        string       `json:"colony_id"`
	PondID          string       `json:"pond_id"`
	Code            string       `json:"code"`
	Name            string       `json:"name"`
	Species         string       `json:"species"`
	Gender          Gender       `json:"gender"`
	BirthDate       *string      `json:"birth_date,omitempty"`
	OriginZone      string       `json:"origin_zone"`
	HealthStatus    HealthStatus `json:"health_status"`
	LastHealthCheck time.Time    `json:"last_health_check"`
	Notes           string       `json:"notes"`
	IsActive        bool         `json:"is_active"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type statsResponse struct {
	Active   int                  `json:"active"`
	ByHealth map[HealthStatus]int `json:"by_health"`
}

// createAxolotlHandler godoc
// @Summary Registrar axolotl
// @Description Alta de un ejemplar en un estanque de uno de mis ajolotarios. El código debe ser único entre los activos de la colonia.
// @Tags axolotls
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param payload body createAxolotlRequest true "Datos del ejemplar"
// @Success 201 {object} axolotlResponse
// @Failure 400 {object} map[string]string "validación / estanque fuera de la colonia"
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string "código repetido"
// @Router /api/axolotls [post]
func createAxolotlHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		var req createAxolotlRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		in := CreateInput{
			ColonyID:     req.ColonyID,
			PondID:       req.PondID,
			Code:         req.Code,
			Name:         req.Name,
			Species:      req.Species,
			Gender:       req.Gender,
			OriginZone:   req.OriginZone,
			HealthStatus: req.HealthStatus,
			Notes:        req.Notes,
		}
		if req.BirthDate != "" {
			t, _ := time.Parse(dateLayout, req.BirthDate)
			in.BirthDate = &t
		}

		a, err := svc.Create(r.Context(), userID, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toAxolotlResponse(a))
	}
}

// listAxolotlsHandler godoc
// @Summary Listar mis axolotls
// @Description Devuelve los ejemplares activos en orden de alta. `q` busca en nombre o código (sin distinguir mayúsculas); `status` filtra por estado de salud; `colony_id` y `pond_id` acotan a un ajolotario o estanque.
// @Tags axolotls
// @Produce json
// @Param q query string false "Texto de búsqueda"
// @Param status query string false "all | healthy | sick | critical | treatment"
// @Param colony_id query string false "ID del ajolotario"
// @Param pond_id query string false "ID del estanque"
// @Success 200 {array} axolotlResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/axolotls [get]
func listAxolotlsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]axolotlResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAxolotlResponse(a))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// statsHandler godoc
// @Summary Conteos por estado de salud
// @Tags axolotls
// @Produce json
// @Success 200 {object} statsResponse
// @Failure 401 {object} map[string]string
// @Router /api/axolotls/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		s, err := svc.Stats(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, statsResponse{Active: s.Active, ByHealth: s.ByHealth})
	}
}

// getAxolotlHandler godoc
// @Summary Ver axolotl
// @Tags axolotls
// @Produce json
// @Param axolotlID path string true "ID del ejemplar"
// @Success 200 {object} axolotlResponse
// @Failure 404 {object} map[string]string
// @Router /api/axolotls/{axolotlID} [get]
func getAxolotlHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		a, err := svc.GetForOwner(r.Context(), userID, chi.URLParam(r, "axolotlID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAxolotlResponse(a))
	}
}

// updateAxolotlHandler godoc
// @Summary Actualizar axolotl
// @Description Actualización parcial. Notas vacías no reemplazan las existentes.
// @Tags axolotls
// @Accept json
// @Produce json
// @Param axolotlID path string true "ID del ejemplar"
// @Param payload body updateAxolotlRequest true "Campos a modificar"
// @Success 200 {object} axolotlResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/axolotls/{axolotlID} [patch]
func updateAxolotlHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		var req updateAxolotlRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		in := UpdateInput{
			ColonyID:     req.ColonyID,
			PondID:       req.PondID,
			Code:         req.Code,
			Name:         req.Name,
			Species:      req.Species,
			Gender:       req.Gender,
			OriginZone:   req.OriginZone,
			HealthStatus: req.HealthStatus,
			Notes:        req.Notes,
		}
		if req.BirthDate != nil {
			t, _ := time.Parse(dateLayout, *req.BirthDate)
			in.BirthDate = &t
		}
		if req.LastHealthCheck != nil {
			t, _ := time.Parse(time.RFC3339, *req.LastHealthCheck)
			in.LastHealthCheck = &t
		}

		a, err := svc.Update(r.Context(), userID, chi.URLParam(r, "axolotlID"), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAxolotlResponse(a))
	}
}

// deleteAxolotlHandler godoc
// @Summary Dar de baja axolotl
// @Description Baja lógica: el ejemplar deja de aparecer en listados y conteos pero se conserva el historial.
// @Tags axolotls
// @Produce json
// @Param axolotlID path string true "ID del ejemplar"
// @Success 200 {object} axolotlResponse
// @Failure 404 {object} map[string]string
// @Router /api/axolotls/{axolotlID} [delete]
func deleteAxolotlHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		a, err := svc.SoftDelete(r.Context(), userID, chi.URLParam(r, "axolotlID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAxolotlResponse(a))
	}
}

func parseCriteria(r *http.Request) (Criteria, error) {
	q := r.URL.Query()
	c := Criteria{
		Search:   strings.TrimSpace(q.Get("q")),
		Status:   strings.TrimSpace(q.Get("status")),
		ColonyID: strings.TrimSpace(q.Get("colony_id")),
		PondID:   strings.TrimSpace(q.Get("pond_id")),
	}
	if c.Status == "" {
		c.Status = StatusAll
	}
	if c.Status != StatusAll && !HealthStatus(c.Status).Valid() {
		return Criteria{}, errors.New("status must be one of: all healthy sick critical treatment")
	}
	return c, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidPlacement):
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateCode):
		httpx.WriteMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.WriteMessage(w, http.StatusNotFound, "axolotl not found")
	default:
		httpx.WriteMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func toAxolotlResponse(a Axolotl) axolotlResponse {
	out := axolotlResponse{
		ID:              a.ID,
		ColonyID:        a.ColonyID,
		PondID:          a.PondID,
		Code:            a.Code,
		Name:            a.Name,
		Species:         a.Species,
		Gender:          a.Gender,
		OriginZone:      a.OriginZone,
		HealthStatus:    a.HealthStatus,
		LastHealthCheck: a.LastHealthCheck,
		Notes:           a.Notes,
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.BirthDate != nil {
		s := a.BirthDate.Format(dateLayout)
		out.BirthDate = &s
	}
	return out
}
