package axolotls

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"axolotary/internal/ports/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	items     []Axolotl
	failWrite bool
}

var errRepoDown = errors.New("repo: unavailable")

func (r *testRepo) Create(_ context.Context, a Axolotl) error {
	if r.failWrite {
		return errRepoDown
	}
	r.items = append(r.items, a)
	return nil
}

func (r *testRepo) Update(_ context.Context, a Axolotl) error {
	if r.failWrite {
		return errRepoDown
	}
	for i := range r.items {
		if r.items[i].ID == a.ID {
			if !r.items[i].IsActive {
				return ErrNotFound
			}
			r.items[i] = a
			return nil
		}
	}
	return ErrNotFound
}

func (r *testRepo) GetByID(_ context.Context, id string) (Axolotl, error) {
	for _, a := range r.items {
		if a.ID == id {
			return a, nil
		}
	}
	return Axolotl{}, ErrNotFound
}

func (r *testRepo) ListByOwner(_ context.Context, owner string) ([]Axolotl, error) {
	out := make([]Axolotl, 0)
	for _, a := range r.items {
		if a.OwnerUserID == owner {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) SoftDelete(_ context.Context, id string) error {
	if r.failWrite {
		return errRepoDown
	}
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].IsActive = false
			return nil
		}
	}
	return ErrNotFound
}

// ponds: pondID -> colonyID
type fakePlacement map[string]string

func (f fakePlacement) PondBelongsTo(_ context.Context, _, colonyID, pondID string) (bool, error) {
	return f[pondID] == colonyID, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) last() notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return notify.Notification{}
	}
	return n.sent[len(n.sent)-1]
}

type fixture struct {
	svc      *Service
	repo     *testRepo
	notifier *recordingNotifier
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &testRepo{},
		notifier: &recordingNotifier{},
		clock:    time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
	}
	placement := fakePlacement{"pond-a": "col-1", "pond-b": "col-1", "pond-x": "col-2"}
	f.svc = NewService(f.repo, placement, WithNotifier(f.notifier))
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) tick(d time.Duration) { f.clock = f.clock.Add(d) }

func (f *fixture) create(t *testing.T, code, name string, health HealthStatus) Axolotl {
	t.Helper()
	a, err := f.svc.Create(context.Background(), "u1", CreateInput{
		ColonyID:     "col-1",
		PondID:       "pond-a",
		Code:         code,
		Name:         name,
		Species:      "Ambystoma mexicanum",
		HealthStatus: health,
	})
	require.NoError(t, err)
	return a
}

func strPtr(s string) *string { return &s }

// -------------------------
// Record Store
// -------------------------

func TestCreate_Defaults(t *testing.T) {
	f := newFixture()

	a, err := f.svc.Create(context.Background(), "u1", CreateInput{
		ColonyID: "col-1",
		PondID:   "pond-a",
		Code:     "AX001",
		Name:     "Luna",
		Species:  "Ambystoma mexicanum",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.True(t, a.IsActive)
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
	assert.Equal(t, f.clock, a.LastHealthCheck)
	assert.Equal(t, GenderUnknown, a.Gender)
	assert.Equal(t, HealthHealthy, a.HealthStatus)
	assert.Equal(t, "", a.Notes)

	assert.Equal(t, notify.LevelSuccess, f.notifier.last().Level)
	assert.Equal(t, "Axolotl creado exitosamente", f.notifier.last().Message)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "u1", CreateInput{ColonyID: "col-1", PondID: "pond-a", Name: "Sin código", Species: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Create(ctx, "u1", CreateInput{ColonyID: "col-1", PondID: "pond-a", Code: "A", Name: "A", Species: "x", Gender: "other"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// los errores de validación no generan aviso
	assert.Empty(t, f.notifier.sent)

	_, err = f.svc.Create(ctx, "u1", CreateInput{ColonyID: "col-1", PondID: "pond-x", Code: "A", Name: "A", Species: "x"})
	assert.ErrorIs(t, err, ErrInvalidPlacement)
	assert.Equal(t, notify.LevelError, f.notifier.last().Level)

	assert.Empty(t, f.repo.items)
}

func TestCreate_CodeUniquePerColony(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	luna := f.create(t, "AX001", "Luna", HealthHealthy)

	_, err := f.svc.Create(ctx, "u1", CreateInput{ColonyID: "col-1", PondID: "pond-b", Code: "ax001", Name: "Otra", Species: "x"})
	assert.ErrorIs(t, err, ErrDuplicateCode)
	assert.Equal(t, notify.LevelError, f.notifier.last().Level)
	assert.Equal(t, "Error al crear axolotl", f.notifier.last().Message)

	// mismo código en otra colonia: permitido
	_, err = f.svc.Create(ctx, "u1", CreateInput{ColonyID: "col-2", PondID: "pond-x", Code: "AX001", Name: "Otra", Species: "x"})
	assert.NoError(t, err)

	// un código dado de baja se puede reutilizar
	_, err = f.svc.SoftDelete(ctx, "u1", luna.ID)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "u1", CreateInput{ColonyID: "col-1", PondID: "pond-a", Code: "AX001", Name: "Nueva", Species: "x"})
	assert.NoError(t, err)
}

func TestCreate_StorageFailureLeavesStoreUnchanged(t *testing.T) {
	f := newFixture()
	f.repo.failWrite = true

	_, err := f.svc.Create(context.Background(), "u1", CreateInput{ColonyID: "col-1", PondID: "pond-a", Code: "AX001", Name: "Luna", Species: "x"})
	assert.ErrorIs(t, err, errRepoDown)
	assert.Empty(t, f.repo.items)
	assert.Equal(t, notify.LevelError, f.notifier.last().Level)
}

func TestUpdate_PartialAndTimestamps(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.create(t, "AX001", "Luna", HealthHealthy)

	f.tick(time.Hour)
	sick := HealthSick
	updated, err := f.svc.Update(ctx, "u1", a.ID, UpdateInput{HealthStatus: &sick})
	require.NoError(t, err)

	assert.Equal(t, HealthSick, updated.HealthStatus)
	assert.Equal(t, a.Name, updated.Name)
	assert.Equal(t, a.Code, updated.Code)
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(a.UpdatedAt))
	assert.Equal(t, "Axolotl actualizado exitosamente", f.notifier.last().Message)
}

func TestUpdate_UpdatedAtNeverMovesBackwards(t *testing.T) {
	f := newFixture()
	a := f.create(t, "AX001", "Luna", HealthHealthy)

	f.tick(-time.Hour)
	updated, err := f.svc.Update(context.Background(), "u1", a.ID, UpdateInput{Name: strPtr("Luna II")})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(a.UpdatedAt))
}

func TestUpdate_KeepsNotesWhenEmpty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, "u1", CreateInput{ColonyID: "col-1", PondID: "pond-a", Code: "AX001", Name: "Luna", Species: "x", Notes: "come bien"})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, "u1", a.ID, UpdateInput{Notes: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "come bien", updated.Notes)

	updated, err = f.svc.Update(ctx, "u1", a.ID, UpdateInput{Name: strPtr("Luna")})
	require.NoError(t, err)
	assert.Equal(t, "come bien", updated.Notes)

	updated, err = f.svc.Update(ctx, "u1", a.ID, UpdateInput{Notes: strPtr("en tratamiento")})
	require.NoError(t, err)
	assert.Equal(t, "en tratamiento", updated.Notes)
}

func TestUpdate_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	luna := f.create(t, "AX001", "Luna", HealthHealthy)
	f.create(t, "AX002", "Shadow", HealthTreatment)

	_, err := f.svc.Update(ctx, "u1", "missing", UpdateInput{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Update(ctx, "u2", luna.ID, UpdateInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Update(ctx, "u1", luna.ID, UpdateInput{Code: strPtr("AX002")})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	_, err = f.svc.Update(ctx, "u1", luna.ID, UpdateInput{PondID: strPtr("pond-x")})
	assert.ErrorIs(t, err, ErrInvalidPlacement)

	// mover a otro estanque de la misma colonia sí se puede
	moved, err := f.svc.Update(ctx, "u1", luna.ID, UpdateInput{PondID: strPtr("pond-b")})
	require.NoError(t, err)
	assert.Equal(t, "pond-b", moved.PondID)

	_, err = f.svc.SoftDelete(ctx, "u1", luna.ID)
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, "u1", luna.ID, UpdateInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_StorageFailureLeavesRecord(t *testing.T) {
	f := newFixture()
	a := f.create(t, "AX001", "Luna", HealthHealthy)

	f.repo.failWrite = true
	_, err := f.svc.Update(context.Background(), "u1", a.ID, UpdateInput{Name: strPtr("Sol")})
	require.Error(t, err)

	got, err := f.svc.GetForOwner(context.Background(), "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Luna", got.Name)
}

func TestSoftDelete_KeepsRecord(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.create(t, "AX001", "Luna", HealthHealthy)

	f.tick(time.Hour)
	deleted, err := f.svc.SoftDelete(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.False(t, deleted.IsActive)
	assert.Equal(t, a.Name, deleted.Name)
	assert.Equal(t, a.UpdatedAt, deleted.UpdatedAt)
	assert.Equal(t, "Axolotl eliminado exitosamente", f.notifier.last().Message)

	all, err := f.svc.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
	// solo cambia IsActive
	want := a
	want.IsActive = false
	assert.Equal(t, want, all[0])

	// idempotente y sin notificación extra
	sent := len(f.notifier.sent)
	again, err := f.svc.SoftDelete(ctx, "u1", a.ID)
	assert.NoError(t, err)
	assert.False(t, again.IsActive)
	assert.Len(t, f.notifier.sent, sent)

	_, err = f.svc.SoftDelete(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// -------------------------
// View Filter + Aggregator
// -------------------------

func TestView_SearchIsCaseInsensitive(t *testing.T) {
	f := newFixture()
	luna := f.create(t, "AX001", "Luna", HealthHealthy)
	f.create(t, "AX002", "Shadow", HealthTreatment)

	items, err := f.svc.View(context.Background(), "u1", Criteria{Search: "luna", Status: StatusAll})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, luna.ID, items[0].ID)

	items, err = f.svc.View(context.Background(), "u1", Criteria{Search: "ax00"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestView_SoftDeletedShadowIsHidden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	luna := f.create(t, "AX001", "Luna", HealthHealthy)
	shadow := f.create(t, "AX002", "Shadow", HealthTreatment)

	_, err := f.svc.SoftDelete(ctx, "u1", shadow.ID)
	require.NoError(t, err)

	items, err := f.svc.View(ctx, "u1", Criteria{Status: StatusAll})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, luna.ID, items[0].ID)

	items, err = f.svc.View(ctx, "u1", Criteria{Search: "shadow", Status: string(HealthTreatment)})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestView_ByColonyAndPond(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	luna := f.create(t, "AX001", "Luna", HealthHealthy)

	sol, err := f.svc.Create(ctx, "u1", CreateInput{ColonyID: "col-1", PondID: "pond-b", Code: "AX002", Name: "Sol", Species: "x"})
	require.NoError(t, err)
	nube, err := f.svc.Create(ctx, "u1", CreateInput{ColonyID: "col-2", PondID: "pond-x", Code: "AX003", Name: "Nube", Species: "x"})
	require.NoError(t, err)

	items, err := f.svc.View(ctx, "u1", Criteria{PondID: "pond-a"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, luna.ID, items[0].ID)

	items, err = f.svc.View(ctx, "u1", Criteria{ColonyID: "col-1"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, luna.ID, items[0].ID)
	assert.Equal(t, sol.ID, items[1].ID)

	items, err = f.svc.View(ctx, "u1", Criteria{ColonyID: "col-1", PondID: "pond-x"})
	require.NoError(t, err)
	assert.Empty(t, items)

	n, err := f.svc.CountActiveInColony(ctx, "u1", "col-2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = f.svc.SoftDelete(ctx, "u1", nube.ID)
	require.NoError(t, err)
	n, err = f.svc.CountActiveInColony(ctx, "u1", "col-2")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.svc.CountActiveInColony(ctx, "u2", "col-1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFilter_StatusOrderAndIdempotence(t *testing.T) {
	now := time.Now()
	items := []Axolotl{
		{ID: "1", Name: "Luna", Code: "AX001", HealthStatus: HealthHealthy, IsActive: true, CreatedAt: now},
		{ID: "2", Name: "Shadow", Code: "AX002", HealthStatus: HealthTreatment, IsActive: true, CreatedAt: now},
		{ID: "3", Name: "Sol", Code: "AX003", HealthStatus: HealthHealthy, IsActive: true, CreatedAt: now},
		{ID: "4", Name: "Nube", Code: "AX004", HealthStatus: HealthHealthy, IsActive: false, CreatedAt: now},
	}

	c := Criteria{Status: string(HealthHealthy)}
	once := Filter(items, c)
	require.Len(t, once, 2)
	assert.Equal(t, "1", once[0].ID)
	assert.Equal(t, "3", once[1].ID)
	assert.Equal(t, once, Filter(once, c))

	for _, a := range Filter(items, Criteria{}) {
		assert.True(t, a.IsActive)
	}
}

func TestSummarize_CountsActiveOnly(t *testing.T) {
	items := []Axolotl{
		{HealthStatus: HealthHealthy, IsActive: true},
		{HealthStatus: HealthTreatment, IsActive: true},
		{HealthStatus: HealthHealthy, IsActive: true},
		{HealthStatus: HealthCritical, IsActive: false},
	}

	s := Summarize(items)
	assert.Equal(t, 3, s.Active)
	assert.Equal(t, 2, s.ByHealth[HealthHealthy])
	assert.Equal(t, 1, s.ByHealth[HealthTreatment])
	assert.Equal(t, 0, s.ByHealth[HealthCritical])
	_, present := s.ByHealth[HealthCritical]
	assert.False(t, present)

	sum := 0
	for _, n := range s.ByHealth {
		sum += n
	}
	assert.Equal(t, s.Active, sum)
}
