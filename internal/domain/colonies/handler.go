package colonies

import (
	"errors"
	"net/http"
	"time"

	"axolotary/internal/middleware"
	"axolotary/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /colonies sobre un router que ya exige sesión.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/colonies", func(cr chi.Router) {
		cr.Post("/", createColonyHandler(svc))
		cr.Get("/", listColoniesHandler(svc))
		cr.Get("/{colonyID}", getColonyHandler(svc))
		cr.Patch("/{colonyID}", updateColonyHandler(svc))
		cr.Delete("/{colonyID}", deleteColonyHandler(svc))

		cr.Post("/{colonyID}/ponds", createPondHandler(svc))
		cr.Get("/{colonyID}/ponds", listPondsHandler(svc))
	})
}

type createColonyRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// updateColonyRequest: solo se modifican los campos presentes.
type updateColonyRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

type colonyResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type createPondRequest struct {
	Name        string  `json:"name" validate:"required"`
	Capacity    int     `json:"capacity" validate:"gte=1"`
	Temperature float64 `json:"temperature" validate:"gte=0,lte=30"`
}

type pondResponse struct {
	ID          string    `json:"id"`
	ColonyID    string    `json:"colony_id"`
	Name        string    `json:"name"`
	Capacity    int       `json:"capacity"`
	Temperature float64   `json:"temperature"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// createColonyHandler godoc
// @Summary Crear ajolotario
// @Tags colonies
// @Accept json
// @Produce json
// @Param payload body createColonyRequest true "Datos del ajolotario"
// @Success 201 {object} colonyResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/colonies [post]
func createColonyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		var req createColonyRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		c, err := svc.Create(r.Context(), userID, CreateInput{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toColonyResponse(c))
	}
}

// listColoniesHandler godoc
// @Summary Listar mis ajolotarios
// @Tags colonies
// @Produce json
// @Success 200 {array} colonyResponse
// @Failure 401 {object} map[string]string
// @Router /api/colonies [get]
func listColoniesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		items, err := svc.ListByOwner(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]colonyResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toColonyResponse(c))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getColonyHandler godoc
// @Summary Ver ajolotario
// @Tags colonies
// @Produce json
// @Param colonyID path string true "ID del ajolotario"
// @Success 200 {object} colonyResponse
// @Failure 404 {object} map[string]string
// @Router /api/colonies/{colonyID} [get]
func getColonyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		c, err := svc.GetForOwner(r.Context(), userID, chi.URLParam(r, "colonyID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toColonyResponse(c))
	}
}

// updateColonyHandler godoc
// @Summary Actualizar ajolotario
// @Tags colonies
// @Accept json
// @Produce json
// @Param colonyID path string true "ID del ajolotario"
// @Param payload body updateColonyRequest true "Campos a modificar"
// @Success 200 {object} colonyResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/colonies/{colonyID} [patch]
func updateColonyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		var req updateColonyRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		c, err := svc.Update(r.Context(), userID, chi.URLParam(r, "colonyID"), UpdateInput{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toColonyResponse(c))
	}
}

// deleteColonyHandler godoc
// @Summary Eliminar ajolotario
// @Description Borra el ajolotario y sus estanques. Falla con 409 si aún tiene ajolotes o eventos activos.
// @Tags colonies
// @Param colonyID path string true "ID del ajolotario"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/colonies/{colonyID} [delete]
func deleteColonyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "colonyID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// createPondHandler godoc
// @Summary Agregar estanque a un ajolotario
// @Description Capacidad >= 1 y temperatura entre 0 y 30 °C.
// @Tags colonies
// @Accept json
// @Produce json
// @Param colonyID path string true "ID del ajolotario"
// @Param payload body createPondRequest true "Datos del estanque"
// @Success 201 {object} pondResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/colonies/{colonyID}/ponds [post]
func createPondHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		var req createPondRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		p, err := svc.AddPond(r.Context(), userID, chi.URLParam(r, "colonyID"), PondInput{
			Name:        req.Name,
			Capacity:    req.Capacity,
			Temperature: req.Temperature,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPondResponse(p))
	}
}

// listPondsHandler godoc
// @Summary Listar estanques de un ajolotario
// @Tags colonies
// @Produce json
// @Param colonyID path string true "ID del ajolotario"
// @Success 200 {array} pondResponse
// @Failure 404 {object} map[string]string
// @Router /api/colonies/{colonyID}/ponds [get]
func listPondsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		items, err := svc.ListPonds(r.Context(), userID, chi.URLParam(r, "colonyID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]pondResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPondResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInUse):
		httpx.WriteMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.WriteMessage(w, http.StatusNotFound, "colony not found")
	default:
		httpx.WriteMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func toColonyResponse(c Colony) colonyResponse {
	return colonyResponse{
		ID:          c.ID,
		OwnerUserID: c.OwnerUserID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toPondResponse(p Pond) pondResponse {
	return pondResponse{
		ID:          p.ID,
		ColonyID:    p.ColonyID,
		Name:        p.Name,
		Capacity:    p.Capacity,
		Temperature: p.Temperature,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
