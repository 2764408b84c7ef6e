package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"axolotary/internal/domain/axolotls"
)

type AxolotlsRepo struct {
	db *DB
}

var _ axolotls.Repository = (*AxolotlsRepo)(nil)

func NewAxolotlsRepo(db *DB) *AxolotlsRepo {
	return &AxolotlsRepo{db: db}
}

const axolotlColumns = `
	id, owner_user_id, colony_id, pond_id,
	code, name, species, gender,
	birth_date, origin_zone,
	health_status, last_health_check, notes,
	is_active, created_at, updated_at`

func (r *AxolotlsRepo) Create(ctx context.Context, a axolotls.Axolotl) error {
	seqCol, seqVal := r.db.seqInsert("axolotls")
	_, err := r.db.exec(ctx, `
		INSERT INTO axolotls (`+axolotlColumns+seqCol+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16`+seqVal+`)
	`,
		a.ID,
		a.OwnerUserID,
		a.ColonyID,
		a.PondID,
		a.Code,
		a.Name,
		a.Species,
		string(a.Gender),
		toNullTime(a.BirthDate),
		a.OriginZone,
		string(a.HealthStatus),
		utc(a.LastHealthCheck),
		a.Notes,
		a.IsActive,
		utc(a.CreatedAt),
		utc(a.UpdatedAt),
	)
	return err
}

func (r *AxolotlsRepo) Update(ctx context.Context, a axolotls.Axolotl) error {
	res, err := r.db.exec(ctx, `
		UPDATE axolotls
		SET
			colony_id = $2,
			pond_id = $3,
			code = $4,
			name = $5,
			species = $6,
			gender = $7,
			birth_date = $8,
			origin_zone = $9,
			health_status = $10,
			last_health_check = $11,
			notes = $12,
			updated_at = $13
		WHERE id = $1 AND is_active = TRUE
	`,
		a.ID,
		a.ColonyID,
		a.PondID,
		a.Code,
		a.Name,
		a.Species,
		string(a.Gender),
		toNullTime(a.BirthDate),
		a.OriginZone,
		string(a.HealthStatus),
		utc(a.LastHealthCheck),
		a.Notes,
		utc(a.UpdatedAt),
	)
	if err != nil {
		return err
	}
	return expectOne(res, axolotls.ErrNotFound)
}

func (r *AxolotlsRepo) GetByID(ctx context.Context, id string) (axolotls.Axolotl, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return axolotls.Axolotl{}, axolotls.ErrNotFound
	}

	row := r.db.queryRow(ctx, `SELECT `+axolotlColumns+` FROM axolotls WHERE id = $1`, id)
	a, err := scanAxolotl(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return axolotls.Axolotl{}, axolotls.ErrNotFound
		}
		return axolotls.Axolotl{}, err
	}
	return a, nil
}

func (r *AxolotlsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]axolotls.Axolotl, error) {
	rows, err := r.db.query(ctx, `
		SELECT `+axolotlColumns+`
		FROM axolotls
		WHERE owner_user_id = $1
		ORDER BY seq ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]axolotls.Axolotl, 0)
	for rows.Next() {
		a, err := scanAxolotl(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AxolotlsRepo) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, `
		UPDATE axolotls
		SET is_active = FALSE
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	return expectOne(res, axolotls.ErrNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAxolotl(s scanner) (axolotls.Axolotl, error) {
	var (
		a      axolotls.Axolotl
		gender string
		health string
		bd     sql.NullTime
	)
	if err := s.Scan(
		&a.ID,
		&a.OwnerUserID,
		&a.ColonyID,
		&a.PondID,
		&a.Code,
		&a.Name,
		&a.Species,
		&gender,
		&bd,
		&a.OriginZone,
		&health,
		&a.LastHealthCheck,
		&a.Notes,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return axolotls.Axolotl{}, err
	}
	a.Gender = axolotls.Gender(gender)
	a.HealthStatus = axolotls.HealthStatus(health)
	a.BirthDate = fromNullTime(bd)
	return a, nil
}
