package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"axolotary/internal/domain/colonies"
	"axolotary/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyOnboarded   = errors.New("onboarding already completed")
)

const (
	MinNameLength     = 2
	MinPasswordLength = 6
)

// ColonyCreator crea el primer ajolotario durante el onboarding.
type ColonyCreator interface {
	Create(ctx context.Context, ownerUserID string, in colonies.CreateInput) (colonies.Colony, error)
}

type Service struct {
	// onboardMu serializa el onboarding: chequeo y escrituras van juntos.
	onboardMu sync.Mutex

	repo     Repository
	colonies ColonyCreator
	tokens   auth.TokenIssuer
	now      func() time.Time
	cost     int
}

func NewService(repo Repository, colonies ColonyCreator, tokens auth.TokenIssuer) *Service {
	return &Service{
		repo:     repo,
		colonies: colonies,
		tokens:   tokens,
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
	}
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if !strings.Contains(email, "@") || len(name) < MinNameLength || len(in.Password) < MinPasswordLength {
		return User{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Objectives:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login verifica credenciales y emite un token de sesión.
// Email inexistente y contraseña incorrecta dan el mismo error.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, auth.Claims{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.Name,
	})
	if err != nil {
		return "", User{}, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

type OnboardingInput struct {
	Experience  Experience
	Objectives  []string
	FirstColony colonies.CreateInput
}

// CompleteOnboarding guarda el perfil y crea el primer ajolotario. Solo se
// hace una vez por cuenta. El perfil se escribe antes que la colonia; si la
// colonia falla, el perfil vuelve a su estado anterior.
func (s *Service) CompleteOnboarding(ctx context.Context, userID string, in OnboardingInput) (User, colonies.Colony, error) {
	if !in.Experience.Valid() || strings.TrimSpace(in.FirstColony.Name) == "" {
		return User{}, colonies.Colony{}, ErrInvalidInput
	}
	objectives := make([]string, 0, len(in.Objectives))
	for _, o := range in.Objectives {
		if o = strings.TrimSpace(o); o != "" {
			objectives = append(objectives, o)
		}
	}
	if len(objectives) == 0 {
		return User{}, colonies.Colony{}, ErrInvalidInput
	}

	s.onboardMu.Lock()
	defer s.onboardMu.Unlock()

	prev, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, colonies.Colony{}, err
	}
	if prev.OnboardingCompleted {
		return User{}, colonies.Colony{}, ErrAlreadyOnboarded
	}

	u := prev
	u.Experience = in.Experience
	u.Objectives = objectives
	u.OnboardingCompleted = true
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, colonies.Colony{}, err
	}

	c, err := s.colonies.Create(ctx, u.ID, in.FirstColony)
	if err != nil {
		if rerr := s.repo.Update(ctx, prev); rerr != nil {
			err = errors.Join(err, fmt.Errorf("restore user %s: %w", prev.ID, rerr))
		}
		return User{}, colonies.Colony{}, err
	}
	return u, c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// List devuelve todos los usuarios. Lo usa el job de recordatorios.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
