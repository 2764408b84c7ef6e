package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"axolotary/internal/domain/colonies"
	"axolotary/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testRepo struct {
	byID map[string]User
	// failUpdate, si está, decide el error de cada Update.
	failUpdate func(u User) error
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]User{}} }

func (r *testRepo) Create(_ context.Context, u User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Update(_ context.Context, u User) error {
	if r.failUpdate != nil {
		if err := r.failUpdate(u); err != nil {
			return err
		}
	}
	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *testRepo) List(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

type fakeIssuer struct{ last auth.Claims }

func (f *fakeIssuer) Issue(_ context.Context, c auth.Claims) (string, error) {
	f.last = c
	return "token-for-" + c.UserID, nil
}

type fakeColonies struct {
	created []colonies.CreateInput
	fail    error
}

func (f *fakeColonies) Create(_ context.Context, owner string, in colonies.CreateInput) (colonies.Colony, error) {
	if f.fail != nil {
		return colonies.Colony{}, f.fail
	}
	f.created = append(f.created, in)
	return colonies.Colony{ID: "col-1", OwnerUserID: owner, Name: in.Name}, nil
}

func newTestService() (*Service, *fakeIssuer, *fakeColonies) {
	issuer := &fakeIssuer{}
	cols := &fakeColonies{}
	svc := NewService(newTestRepo(), cols, issuer)
	svc.cost = bcrypt.MinCost
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, issuer, cols
}

func TestSignup(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Email: " Ana@Example.com ", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.False(t, u.OnboardingCompleted)

	_, err = svc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "otro123", Name: "Ana B"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Signup(ctx, SignupInput{Email: "b@example.com", Password: "123", Name: "Beto"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Signup(ctx, SignupInput{Email: "c@example.com", Password: "secret1", Name: "C"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	svc, issuer, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	token, got, err := svc.Login(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "token-for-"+u.ID, token)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Ana", issuer.last.DisplayName)

	_, _, err = svc.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nadie@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCompleteOnboarding(t *testing.T) {
	svc, _, cols := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	_, _, err = svc.CompleteOnboarding(ctx, u.ID, OnboardingInput{Experience: "guru", Objectives: []string{"x"}, FirstColony: colonies.CreateInput{Name: "A"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.CompleteOnboarding(ctx, u.ID, OnboardingInput{Experience: ExperienceBeginner, Objectives: []string{" "}, FirstColony: colonies.CreateInput{Name: "A"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.CompleteOnboarding(ctx, "ghost", OnboardingInput{Experience: ExperienceBeginner, Objectives: []string{"cría"}, FirstColony: colonies.CreateInput{Name: "A"}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, cols.created)

	updated, c, err := svc.CompleteOnboarding(ctx, u.ID, OnboardingInput{
		Experience:  ExperienceExpert,
		Objectives:  []string{"conservación", "cría"},
		FirstColony: colonies.CreateInput{Name: "Xochimilco"},
	})
	require.NoError(t, err)
	assert.True(t, updated.OnboardingCompleted)
	assert.Equal(t, ExperienceExpert, updated.Experience)
	assert.Equal(t, []string{"conservación", "cría"}, updated.Objectives)
	assert.Equal(t, "Xochimilco", c.Name)
	assert.Equal(t, u.ID, c.OwnerUserID)

	stored, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.OnboardingCompleted)
}

func TestCompleteOnboarding_ColonyFailureKeepsUser(t *testing.T) {
	svc, _, cols := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	cols.fail = errors.New("db down")
	_, _, err = svc.CompleteOnboarding(ctx, u.ID, OnboardingInput{Experience: ExperienceBeginner, Objectives: []string{"cría"}, FirstColony: colonies.CreateInput{Name: "A"}})
	require.Error(t, err)

	stored, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, stored.OnboardingCompleted)
	assert.Empty(t, stored.Objectives)
	assert.Equal(t, u.UpdatedAt, stored.UpdatedAt)

	// tras el fallo se puede reintentar
	cols.fail = nil
	_, _, err = svc.CompleteOnboarding(ctx, u.ID, OnboardingInput{Experience: ExperienceBeginner, Objectives: []string{"cría"}, FirstColony: colonies.CreateInput{Name: "A"}})
	require.NoError(t, err)
	assert.Len(t, cols.created, 1)
}

func TestCompleteOnboarding_OnlyOnce(t *testing.T) {
	svc, _, cols := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	in := OnboardingInput{Experience: ExperienceBeginner, Objectives: []string{"cría"}, FirstColony: colonies.CreateInput{Name: "A"}}
	_, _, err = svc.CompleteOnboarding(ctx, u.ID, in)
	require.NoError(t, err)

	in.Experience = ExperienceExpert
	_, _, err = svc.CompleteOnboarding(ctx, u.ID, in)
	assert.ErrorIs(t, err, ErrAlreadyOnboarded)
	assert.Len(t, cols.created, 1)

	stored, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, ExperienceBeginner, stored.Experience)
}

func TestCompleteOnboarding_UserWriteFailureCreatesNoColony(t *testing.T) {
	svc, _, cols := newTestService()
	repo := svc.repo.(*testRepo)
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	boom := errors.New("db down")
	repo.failUpdate = func(User) error { return boom }

	_, _, err = svc.CompleteOnboarding(ctx, u.ID, OnboardingInput{Experience: ExperienceBeginner, Objectives: []string{"cría"}, FirstColony: colonies.CreateInput{Name: "A"}})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, cols.created)
}

func TestCompleteOnboarding_RestoreFailureIsReported(t *testing.T) {
	svc, _, cols := newTestService()
	repo := svc.repo.(*testRepo)
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	colErr := errors.New("colonies down")
	restoreErr := errors.New("users down")
	cols.fail = colErr
	// la primera escritura (perfil completo) pasa; la restauración falla
	repo.failUpdate = func(u User) error {
		if !u.OnboardingCompleted {
			return restoreErr
		}
		return nil
	}

	_, _, err = svc.CompleteOnboarding(ctx, u.ID, OnboardingInput{Experience: ExperienceBeginner, Objectives: []string{"cría"}, FirstColony: colonies.CreateInput{Name: "A"}})
	assert.ErrorIs(t, err, colErr)
	assert.ErrorIs(t, err, restoreErr)
}
