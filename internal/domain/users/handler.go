package users

import (
	"errors"
	"net/http"
	"time"

	"axolotary/internal/domain/colonies"
	"axolotary/internal/middleware"
	"axolotary/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /auth y /user. signup y login son públicos; el resto
// exige sesión.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/auth/signup", signupHandler(svc))
	r.Post("/auth/login", loginHandler(svc))

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireSession)
		pr.Get("/auth/session", sessionHandler())
		pr.Post("/user/onboarding", onboardingHandler(svc))
	})
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type firstColonyRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type onboardingRequest struct {
	Experience  Experience         `json:"experience" validate:"required,oneof=beginner intermediate expert" enums:"beginner,intermediate,expert"`
	Objectives  []string           `json:"objectives" validate:"required,min=1,dive,required"`
	FirstColony firstColonyRequest `json:"first_colony"`
}

type userResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Experience          Experience `json:"experience,omitempty"`
	Objectives          []string   `json:"objectives"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	CreatedAt           time.Time  `json:"created_at"`
}

type signupResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// sessionResponse es el contrato getSession(): {userId, displayName}.
type sessionResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type onboardingResponse struct {
	Message  string       `json:"message"`
	User     userResponse `json:"user"`
	ColonyID string       `json:"colony_id"`
}

// signupHandler godoc
// @Summary Crear cuenta
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signupRequest true "Datos de registro"
// @Success 201 {object} signupResponse
// @Failure 400 {object} map[string]string "datos inválidos / email ya registrado"
// @Failure 500 {object} map[string]string
// @Router /api/auth/signup [post]
func signupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		u, err := svc.Signup(r.Context(), SignupInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEmailTaken):
				httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
			default:
				httpx.WriteMessage(w, http.StatusInternalServerError, "Error interno del servidor")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, signupResponse{
			Message: "Usuario creado exitosamente",
			User:    toUserResponse(u),
		})
	}
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Description Devuelve un Bearer token para usar en `Authorization`.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string "Credenciales inválidas"
// @Router /api/auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		token, u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				httpx.WriteMessage(w, http.StatusUnauthorized, "Credenciales inválidas")
				return
			}
			httpx.WriteMessage(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(u)})
	}
}

// sessionHandler godoc
// @Summary Sesión actual
// @Tags auth
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} sessionResponse
// @Failure 401 {object} map[string]string
// @Router /api/auth/session [get]
func sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		httpx.WriteJSON(w, http.StatusOK, sessionResponse{
			UserID:      claims.UserID,
			DisplayName: claims.DisplayName,
		})
	}
}

// onboardingHandler godoc
// @Summary Completar onboarding
// @Description Guarda experiencia y objetivos y crea el primer ajolotario.
// @Tags user
// @Accept json
// @Produce json
// @Param payload body onboardingRequest true "Datos de onboarding"
// @Success 200 {object} onboardingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string "No autorizado"
// @Failure 409 {object} map[string]string "Onboarding ya completado"
// @Failure 500 {object} map[string]string
// @Router /api/user/onboarding [post]
func onboardingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.CurrentUserID(r.Context())

		var req onboardingRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		u, c, err := svc.CompleteOnboarding(r.Context(), userID, OnboardingInput{
			Experience: req.Experience,
			Objectives: req.Objectives,
			FirstColony: colonies.CreateInput{
				Name:        req.FirstColony.Name,
				Description: req.FirstColony.Description,
			},
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput), errors.Is(err, colonies.ErrInvalidInput):
				httpx.WriteMessage(w, http.StatusBadRequest, "Datos inválidos")
			case errors.Is(err, ErrAlreadyOnboarded):
				httpx.WriteMessage(w, http.StatusConflict, "El onboarding ya fue completado")
			case errors.Is(err, ErrNotFound):
				// sesión válida pero sin cuenta (p. ej. usuario de depuración)
				httpx.WriteMessage(w, http.StatusUnauthorized, "No autorizado")
			default:
				httpx.WriteMessage(w, http.StatusInternalServerError, "Error interno del servidor")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, onboardingResponse{
			Message:  "Onboarding completado exitosamente",
			User:     toUserResponse(u),
			ColonyID: c.ID,
		})
	}
}

func toUserResponse(u User) userResponse {
	objectives := u.Objectives
	if objectives == nil {
		objectives = []string{}
	}
	return userResponse{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		Experience:          u.Experience,
		Objectives:          objectives,
		OnboardingCompleted: u.OnboardingCompleted,
		CreatedAt:           u.CreatedAt,
	}
}
