package breeding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"axolotary/internal/domain/axolotls"
	"axolotary/internal/domain/colonies"
	"axolotary/internal/platform/metrics"
	"axolotary/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidParents    = errors.New("father must be an active male and mother an active female")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// AnimalSource resuelve padres. axolotls.Service la implementa.
type AnimalSource interface {
	GetForOwner(ctx context.Context, ownerUserID, id string) (axolotls.Axolotl, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]axolotls.Axolotl, error)
}

// ColonySource resuelve colonias. colonies.Service la implementa.
type ColonySource interface {
	GetForOwner(ctx context.Context, ownerUserID, id string) (colonies.Colony, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]colonies.Colony, error)
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
	repo     Repository
	animals  AnimalSource
	colonies ColonySource
	notifier notify.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(repo Repository, animals AnimalSource, colonies ColonySource, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		animals:  animals,
		colonies: colonies,
		notifier: notify.Nop{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type CreateInput struct {
	ColonyID      string
	FatherID      string
	MotherID      string
	ScheduledDate time.Time
	Status        Status // vacío = scheduled
	Notes         string
}

// UpdateInput: nil = no tocar el campo.
type UpdateInput struct {
	ColonyID            *string
	FatherID            *string
	MotherID            *string
	ScheduledDate       *time.Time
	Status              *Status
	Result              *string
	SuccessfulOffspring *int
	FailedOffspring     *int
	Notes               *string
}

func (in UpdateInput) touchesOutcome() bool {
	return in.Result != nil || in.SuccessfulOffspring != nil || in.FailedOffspring != nil
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (e Event, err error) {
	defer func() { s.report(ctx, ownerUserID, "create", err) }()

	if strings.TrimSpace(ownerUserID) == "" {
		return Event{}, ErrInvalidInput
	}

	status := in.Status
	if status == "" {
		status = StatusScheduled
	}

	now := s.now()
	e = Event{
		ID:            uuid.NewString(),
		OwnerUserID:   ownerUserID,
		ColonyID:      strings.TrimSpace(in.ColonyID),
		FatherID:      strings.TrimSpace(in.FatherID),
		MotherID:      strings.TrimSpace(in.MotherID),
		ScheduledDate: in.ScheduledDate,
		Status:        status,
		Notes:         strings.TrimSpace(in.Notes),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := validate(e); err != nil {
		return Event{}, err
	}
	if err := s.checkColony(ctx, ownerUserID, e.ColonyID); err != nil {
		return Event{}, err
	}
	if err := s.checkParents(ctx, ownerUserID, e.FatherID, e.MotherID); err != nil {
		return Event{}, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, ownerUserID, id string, in UpdateInput) (e Event, err error) {
	defer func() { s.report(ctx, ownerUserID, "update", err) }()

	cur, err := s.GetForOwner(ctx, ownerUserID, id)
	if err != nil {
		return Event{}, err
	}
	if !cur.IsActive {
		return Event{}, ErrNotFound
	}

	next := cur
	if in.Status != nil {
		if !in.Status.Valid() {
			return Event{}, ErrInvalidInput
		}
		if !CanTransition(cur.Status, *in.Status) {
			return Event{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, *in.Status)
		}
		next.Status = *in.Status
	}

	if in.touchesOutcome() && !next.Status.HasOutcome() {
		return Event{}, fmt.Errorf("%w: outcome requires completed or failed status", ErrInvalidInput)
	}
	if in.Result != nil {
		next.Result = strings.TrimSpace(*in.Result)
	}
	if in.SuccessfulOffspring != nil {
		next.SuccessfulOffspring = *in.SuccessfulOffspring
	}
	if in.FailedOffspring != nil {
		next.FailedOffspring = *in.FailedOffspring
	}

	if in.ColonyID != nil {
		next.ColonyID = strings.TrimSpace(*in.ColonyID)
	}
	if in.FatherID != nil {
		next.FatherID = strings.TrimSpace(*in.FatherID)
	}
	if in.MotherID != nil {
		next.MotherID = strings.TrimSpace(*in.MotherID)
	}
	if in.ScheduledDate != nil {
		next.ScheduledDate = *in.ScheduledDate
	}
	// Notas vacías no pisan las existentes.
	if in.Notes != nil && strings.TrimSpace(*in.Notes) != "" {
		next.Notes = strings.TrimSpace(*in.Notes)
	}
	next.UpdatedAt = laterOf(s.now(), cur.UpdatedAt)

	if err := validate(next); err != nil {
		return Event{}, err
	}
	if next.ColonyID != cur.ColonyID {
		if err := s.checkColony(ctx, ownerUserID, next.ColonyID); err != nil {
			return Event{}, err
		}
	}
	if next.FatherID != cur.FatherID || next.MotherID != cur.MotherID {
		if err := s.checkParents(ctx, ownerUserID, next.FatherID, next.MotherID); err != nil {
			return Event{}, err
		}
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return Event{}, err
	}
	return next, nil
}

// SoftDelete solo apaga IsActive; el resto del registro queda igual.
// Es idempotente: borrar algo ya inactivo no falla ni notifica.
func (s *Service) SoftDelete(ctx context.Context, ownerUserID, id string) (e Event, err error) {
	unchanged := false
	defer func() {
		if !unchanged {
			s.report(ctx, ownerUserID, "delete", err)
		}
	}()

	cur, err := s.GetForOwner(ctx, ownerUserID, id)
	if err != nil {
		return Event{}, err
	}
	if !cur.IsActive {
		unchanged = true
		return cur, nil
	}

	if err := s.repo.SoftDelete(ctx, cur.ID); err != nil {
		return Event{}, err
	}
	cur.IsActive = false
	return cur, nil
}

func (s *Service) GetForOwner(ctx context.Context, ownerUserID, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrNotFound
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if e.OwnerUserID != ownerUserID {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Event, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// CountActiveInColony cuenta los eventos activos registrados en la colonia.
func (s *Service) CountActiveInColony(ctx context.Context, ownerUserID, colonyID string) (int, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range items {
		if e.IsActive && e.ColonyID == colonyID {
			n++
		}
	}
	return n, nil
}

// Get devuelve un evento con los nombres resueltos.
func (s *Service) Get(ctx context.Context, ownerUserID, id string) (Listed, error) {
	e, err := s.GetForOwner(ctx, ownerUserID, id)
	if err != nil {
		return Listed{}, err
	}
	names, err := s.Resolve(ctx, ownerUserID)
	if err != nil {
		return Listed{}, err
	}
	return names.Listed(e), nil
}

// View aplica el filtro de pantalla y resuelve nombres para mostrar.
func (s *Service) View(ctx context.Context, ownerUserID string, c Criteria) ([]Listed, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	names, err := s.Resolve(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	filtered := Filter(items, c, names)
	out := make([]Listed, 0, len(filtered))
	for _, e := range filtered {
		out = append(out, names.Listed(e))
	}
	return out, nil
}

// Resolve arma el índice id -> nombre de ejemplares (incluye bajas) y colonias.
func (s *Service) Resolve(ctx context.Context, ownerUserID string) (Names, error) {
	names := Names{Animals: map[string]string{}, Colonies: map[string]string{}}

	if s.animals != nil {
		animals, err := s.animals.ListByOwner(ctx, ownerUserID)
		if err != nil {
			return Names{}, err
		}
		for _, a := range animals {
			names.Animals[a.ID] = a.Name
		}
	}
	if s.colonies != nil {
		cols, err := s.colonies.ListByOwner(ctx, ownerUserID)
		if err != nil {
			return Names{}, err
		}
		for _, c := range cols {
			names.Colonies[c.ID] = c.Name
		}
	}
	return names, nil
}

func (s *Service) Stats(ctx context.Context, ownerUserID string) (Summary, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items, s.now()), nil
}

// UpcomingWithin devuelve los eventos activos programados en (now, now+window].
func (s *Service) UpcomingWithin(ctx context.Context, ownerUserID string, window time.Duration) ([]Event, error) {
	items, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	limit := now.Add(window)

	out := make([]Event, 0)
	for _, e := range items {
		if isUpcoming(e, now) && !e.ScheduledDate.After(limit) {
			out = append(out, e)
		}
	}
	return out, nil
}

func validate(e Event) error {
	if e.ColonyID == "" || e.FatherID == "" || e.MotherID == "" {
		return ErrInvalidInput
	}
	if e.ScheduledDate.IsZero() {
		return ErrInvalidInput
	}
	if !e.Status.Valid() {
		return ErrInvalidInput
	}
	if e.SuccessfulOffspring < 0 || e.FailedOffspring < 0 {
		return ErrInvalidInput
	}
	return nil
}

func (s *Service) checkColony(ctx context.Context, ownerUserID, colonyID string) error {
	if s.colonies == nil {
		return nil
	}
	if _, err := s.colonies.GetForOwner(ctx, ownerUserID, colonyID); err != nil {
		if errors.Is(err, colonies.ErrNotFound) {
			return fmt.Errorf("%w: unknown colony", ErrInvalidInput)
		}
		return err
	}
	return nil
}

// checkParents: padre macho activo, madre hembra activa, distintos.
// No se exige que estén en la misma colonia del evento.
func (s *Service) checkParents(ctx context.Context, ownerUserID, fatherID, motherID string) error {
	if fatherID == motherID {
		return ErrInvalidParents
	}
	if s.animals == nil {
		return nil
	}

	father, err := s.parent(ctx, ownerUserID, fatherID)
	if err != nil {
		return err
	}
	mother, err := s.parent(ctx, ownerUserID, motherID)
	if err != nil {
		return err
	}
	if father.Gender != axolotls.GenderMale || mother.Gender != axolotls.GenderFemale {
		return ErrInvalidParents
	}
	return nil
}

func (s *Service) parent(ctx context.Context, ownerUserID, id string) (axolotls.Axolotl, error) {
	a, err := s.animals.GetForOwner(ctx, ownerUserID, id)
	if err != nil {
		if errors.Is(err, axolotls.ErrNotFound) {
			return axolotls.Axolotl{}, ErrInvalidParents
		}
		return axolotls.Axolotl{}, err
	}
	if !a.IsActive {
		return axolotls.Axolotl{}, ErrInvalidParents
	}
	return a, nil
}

var (
	successMessages = map[string]string{
		"create": "Evento de reproducción creado exitosamente",
		"update": "Evento de reproducción actualizado exitosamente",
		"delete": "Evento de reproducción eliminado exitosamente",
	}
	failureMessages = map[string]string{
		"create": "Error al crear evento de reproducción",
		"update": "Error al actualizar evento de reproducción",
		"delete": "Error al eliminar evento de reproducción",
	}
)

// report deja la métrica y avisa al usuario. Los errores de validación no
// generan aviso: se devuelven campo por campo.
func (s *Service) report(ctx context.Context, ownerUserID, op string, err error) {
	s.metrics.RecordMutation("breeding_event", op, err)

	if errors.Is(err, ErrInvalidInput) || ownerUserID == "" {
		return
	}
	n := notify.Notification{UserID: ownerUserID, Title: "Reproducción", Level: notify.LevelSuccess, Message: successMessages[op]}
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
