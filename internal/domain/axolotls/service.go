package axolotls

import (
	"context"
	"errors"
	"strings"
	"time"

	"axolotary/internal/platform/metrics"
	"axolotary/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicateCode    = errors.New("code already used in this colony")
	ErrInvalidPlacement = errors.New("pond does not belong to colony")
)

// Placement confirma la jerarquía colonia -> estanque del dueño.
// colonies.Service la implementa.
type Placement interface {
	PondBelongsTo(ctx context.Context, ownerUserID, colonyID, pondID string) (bool, error)
}

type Option func(*Service)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

type Service struct {
	repo      Repository
	placement Placement
	notifier  notify.Notifier
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(repo Repository, placement Placement, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		placement: placement,
		notifier:  notify.Nop{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type CreateInput struct {
	ColonyID     string
	PondID       string
	Code         string
	Name         string
	Species      string
	Gender       Gender
	BirthDate    *time.Time
	OriginZone   string
	HealthStatus HealthStatus
	Notes        string
}

// UpdateInput: nil = no tocar el campo.
type UpdateInput struct {
	ColonyID        *string
	PondID          *string
	Code            *string
	Name            *string
	Species         *string
	Gender          *Gender
	BirthDate       *time.Time
	OriginZone      *string
	HealthStatus    *HealthStatus
	LastHealthCheck *time.Time
	Notes           *string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (a Axolotl, err error) {
	defer func() { s.report(ctx, ownerUserID, "create", err) }()

	if strings.TrimSpace(ownerUserID) == "" {
		return Axolotl{}, ErrInvalidInput
	}

	gender := in.Gender
	if gender == "" {
		gender = GenderUnknown
	}
	health := in.HealthStatus
	if health == "" {
		health = HealthHealthy
	}

	now := s.now()
	a = Axolotl{
		ID:              uuid.NewString(),
		OwnerUserID:     ownerUserID,
		ColonyID:        strings.TrimSpace(in.ColonyID),
		PondID:          strings.TrimSpace(in.PondID),
		Code:            strings.TrimSpace(in.Code),
		Name:            strings.TrimSpace(in.Name),
		Species:         strings.TrimSpace(in.Species),
		Gender:          gender,
		BirthDate:       in.BirthDate,
		OriginZone:      strings.TrimSpace(in.OriginZone),
		HealthStatus:    health,
		LastHealthCheck: now,
		Notes:           strings.TrimSpace(in.Notes),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := validate(a); err != nil {
		return Axolotl{}, err
	}
	if err := s.checkPlacement(ctx, a); err != nil {
		return Axolotl{}, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Axolotl{}, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, ownerUserID, id string, in UpdateInput) (a Axolotl, err error) {
	defer func() { s.report(ctx, ownerUserID, "update", err) }()

	cur, err := s.GetForOwner(ctx, ownerUserID, id)
	if err != nil {
		return Axolotl{}, err
	}
	if !cur.IsActive {
		return Axolotl{}, ErrNotFound
	}

	next := cur
	if in.ColonyID != nil {
		next.ColonyID = strings.TrimSpace(*in.ColonyID)
	}
	if in.PondID != nil {
		next.PondID = strings.TrimSpace(*in.PondID)
	}
	if in.Code != nil {
		next.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		next.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		next.Species = strings.TrimSpace(*in.Species)
	}
	if in.Gender != nil {
		next.Gender = *in.Gender
	}
	if in.BirthDate != nil {
		bd := *in.BirthDate
		next.BirthDate = &bd
	}
	if in.OriginZone != nil {
		next.OriginZone = strings.TrimSpace(*in.OriginZone)
	}
	if in.HealthStatus != nil {
		next.HealthStatus = *in.HealthStatus
	}
	if in.LastHealthCheck != nil {
		next.LastHealthCheck = *in.LastHealthCheck
	}
	// Notas vacías no pisan las existentes.
	if in.Notes != nil && strings.TrimSpace(*in.Notes) != "" {
		next.Notes = strings.TrimSpace(*in.Notes)
	}
	next.UpdatedAt = laterOf(s.now(), cur.UpdatedAt)

	if err := validate(next); err != nil {
		return Axolotl{}, err
	}
	if next.ColonyID != cur.ColonyID || next.PondID != cur.PondID || next.Code != cur.Code {
		if err := s.checkPlacement(ctx, next); err != nil {
			return Axolotl{}, err
		}
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return Axolotl{}, err
	}
	return next, nil
}

// SoftDelete solo apaga IsActive; el resto del registro queda igual.
// Es idempotente: borrar algo ya inactivo no falla ni notifica.
func (s *Service) SoftDelete(ctx context.Context, ownerUserID, id string) (a Axolotl, err error) {
	unchanged := false
	defer func() {
		if !unchanged {
			s.report(ctx, ownerUserID, "delete", err)
		}
	}()

	cur, err := s.GetForOwner(ctx, ownerUserID, id)
	if err != nil {
		return Axolotl{}, err
	}
	if !cur.IsActive {
		unchanged = true
		return cur, nil
	}

	if err := s.repo.SoftDelete(ctx, cur.ID); err != nil {
		return Axolotl{}, err
	}
	cur.IsActive = false
	return cur, nil
}

// GetForOwner devuelve el ejemplar (activo o no) si pertenece al dueño.
func (s *Service) GetForOwner(ctx context.Context, ownerUserID, id string) (Axolotl, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Axolotl{}, ErrNotFound
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Axolotl{}, err
	}
	if a.OwnerUserID != ownerUserID {
		return Axolotl{}, ErrNotFound
	}
	return a, nil
}

// ListByOwner es el Record Store completo del usuario, inactivos incluidos.
func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Axolotl, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) View(ctx context.Context, ownerUserID string, c Criteria) ([]Axolotl, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return Filter(items, c), nil
}

// CountActiveInColony cuenta los ejemplares activos ubicados en la colonia.
func (s *Service) CountActiveInColony(ctx context.Context, ownerUserID, colonyID string) (int, error) {
	items, err := s.View(ctx, ownerUserID, Criteria{ColonyID: colonyID})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *Service) Stats(ctx context.Context, ownerUserID string) (Summary, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items), nil
}

func validate(a Axolotl) error {
	if a.ColonyID == "" || a.PondID == "" {
		return ErrInvalidInput
	}
	if a.Code == "" || a.Name == "" || a.Species == "" {
		return ErrInvalidInput
	}
	if !a.Gender.Valid() || !a.HealthStatus.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// checkPlacement valida estanque/colonia y unicidad del código dentro de la colonia.
func (s *Service) checkPlacement(ctx context.Context, a Axolotl) error {
	if s.placement != nil {
		ok, err := s.placement.PondBelongsTo(ctx, a.OwnerUserID, a.ColonyID, a.PondID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidPlacement
		}
	}

	items, err := s.repo.ListByOwner(ctx, a.OwnerUserID)
	if err != nil {
		return err
	}
	for _, other := range items {
		if other.ID == a.ID || !other.IsActive || other.ColonyID != a.ColonyID {
			continue
		}
		if strings.EqualFold(other.Code, a.Code) {
			return ErrDuplicateCode
		}
	}
	return nil
}

var (
	successMessages = map[string]string{
		"create": "Axolotl creado exitosamente",
		"update": "Axolotl actualizado exitosamente",
		"delete": "Axolotl eliminado exitosamente",
	}
	failureMessages = map[string]string{
		"create": "Error al crear axolotl",
		"update": "Error al actualizar axolotl",
		"delete": "Error al eliminar axolotl",
	}
)

// report deja la métrica y avisa al usuario. Los errores de validación no
// generan aviso: se devuelven campo por campo.
func (s *Service) report(ctx context.Context, ownerUserID, op string, err error) {
	s.metrics.RecordMutation("axolotl", op, err)

	if errors.Is(err, ErrInvalidInput) || ownerUserID == "" {
		return
	}
	n := notify.Notification{UserID: ownerUserID, Title: "Axolotl", Level: notify.LevelSuccess, Message: successMessages[op]}
	if err != nil {
		n.Level = notify.LevelError
		n.Message = failureMessages[op]
	}
	s.notifier.Notify(ctx, n)
}

func laterOf(t, floor time.Time) time.Time {
	if t.Before(floor) {
		return floor
	}
	return t
}
