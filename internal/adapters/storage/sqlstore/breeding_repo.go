package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"axolotary/internal/domain/breeding"
)

type BreedingRepo struct {
	db *DB
}

var _ breeding.Repository = (*BreedingRepo)(nil)

func NewBreedingRepo(db *DB) *BreedingRepo {
	return &BreedingRepo{db: db}
}

const breedingColumns = `
	id, owner_user_id, colony_id,
	father_id, mother_id,
	scheduled_date, status,
	result, successful_offspring, failed_offspring,
	notes, is_active, created_at, updated_at`

func (r *BreedingRepo) Create(ctx context.Context, e breeding.Event) error {
	seqCol, seqVal := r.db.seqInsert("breeding_events")
	_, err := r.db.exec(ctx, `
		INSERT INTO breeding_events (`+breedingColumns+seqCol+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14`+seqVal+`)
	`,
		e.ID,
		e.OwnerUserID,
		e.ColonyID,
		e.FatherID,
		e.MotherID,
		utc(e.ScheduledDate),
		string(e.Status),
		e.Result,
		e.SuccessfulOffspring,
		e.FailedOffspring,
		e.Notes,
		e.IsActive,
		utc(e.CreatedAt),
		utc(e.UpdatedAt),
	)
	return err
}

func (r *BreedingRepo) Update(ctx context.Context, e breeding.Event) error {
	res, err := r.db.exec(ctx, `
		UPDATE breeding_events
		SET
			colony_id = $2,
			father_id = $3,
			mother_id = $4,
			scheduled_date = $5,
			status = $6,
			result = $7,
			successful_offspring = $8,
			failed_offspring = $9,
			notes = $10,
			updated_at = $11
		WHERE id = $1 AND is_active = TRUE
	`,
		e.ID,
		e.ColonyID,
		e.FatherID,
		e.MotherID,
		utc(e.ScheduledDate),
		string(e.Status),
		e.Result,
		e.SuccessfulOffspring,
		e.FailedOffspring,
		e.Notes,
		utc(e.UpdatedAt),
	)
	if err != nil {
		return err
	}
	return expectOne(res, breeding.ErrNotFound)
}

func (r *BreedingRepo) GetByID(ctx context.Context, id string) (breeding.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return breeding.Event{}, breeding.ErrNotFound
	}

	row := r.db.queryRow(ctx, `SELECT `+breedingColumns+` FROM breeding_events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return breeding.Event{}, breeding.ErrNotFound
		}
		return breeding.Event{}, err
	}
	return e, nil
}

func (r *BreedingRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]breeding.Event, error) {
	rows, err := r.db.query(ctx, `
		SELECT `+breedingColumns+`
		FROM breeding_events
		WHERE owner_user_id = $1
		ORDER BY seq ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]breeding.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *BreedingRepo) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, `
		UPDATE breeding_events
		SET is_active = FALSE
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	return expectOne(res, breeding.ErrNotFound)
}

func scanEvent(s scanner) (breeding.Event, error) {
	var (
		e      breeding.Event
		status string
	)
	if err := s.Scan(
		&e.ID,
		&e.OwnerUserID,
		&e.ColonyID,
		&e.FatherID,
		&e.MotherID,
		&e.ScheduledDate,
		&status,
		&e.Result,
		&e.SuccessfulOffspring,
		&e.FailedOffspring,
		&e.Notes,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return breeding.Event{}, err
	}
	e.Status = breeding.Status(status)
	return e, nil
}
