package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"axolotary/internal/domain/users"
)

type UsersRepo struct {
	db *DB
}

var _ users.Repository = (*UsersRepo)(nil)

func NewUsersRepo(db *DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `
	id, email, name, password_hash,
	experience, objectives, onboarding_completed,
	created_at, updated_at`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	objectives, err := encodeObjectives(u.Objectives)
	if err != nil {
		return err
	}
	seqCol, seqVal := r.db.seqInsert("users")
	_, err = r.db.exec(ctx, `
		INSERT INTO users (`+userColumns+seqCol+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9`+seqVal+`)
	`,
		u.ID,
		u.Email,
		u.Name,
		u.PasswordHash,
		string(u.Experience),
		objectives,
		u.OnboardingCompleted,
		utc(u.CreatedAt),
		utc(u.UpdatedAt),
	)
	return err
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	objectives, err := encodeObjectives(u.Objectives)
	if err != nil {
		return err
	}
	res, err := r.db.exec(ctx, `
		UPDATE users
		SET
			email = $2,
			name = $3,
			password_hash = $4,
			experience = $5,
			objectives = $6,
			onboarding_completed = $7,
			updated_at = $8
		WHERE id = $1
	`,
		u.ID,
		u.Email,
		u.Name,
		u.PasswordHash,
		string(u.Experience),
		objectives,
		u.OnboardingCompleted,
		utc(u.UpdatedAt),
	)
	if err != nil {
		return err
	}
	return expectOne(res, users.ErrNotFound)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) getOne(ctx context.Context, q, arg string) (users.User, error) {
	u, err := scanUser(r.db.queryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	return u, nil
}

func scanUser(s scanner) (users.User, error) {
	var (
		u          users.User
		experience string
		objectives string
	)
	if err := s.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&experience,
		&objectives,
		&u.OnboardingCompleted,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return users.User{}, err
	}
	u.Experience = users.Experience(experience)
	if err := json.Unmarshal([]byte(objectives), &u.Objectives); err != nil {
		return users.User{}, fmt.Errorf("decode objectives: %w", err)
	}
	return u, nil
}

// objectives se guarda como arreglo JSON en una columna TEXT.
func encodeObjectives(o []string) (string, error) {
	if o == nil {
		o = []string{}
	}
	b, err := json.Marshal(o)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
