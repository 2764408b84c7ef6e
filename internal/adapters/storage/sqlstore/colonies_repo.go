package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"axolotary/internal/domain/colonies"
)

type ColoniesRepo struct {
	db *DB
}

var _ colonies.Repository = (*ColoniesRepo)(nil)

func NewColoniesRepo(db *DB) *ColoniesRepo {
	return &ColoniesRepo{db: db}
}

func (r *ColoniesRepo) Create(ctx context.Context, c colonies.Colony) error {
	seqCol, seqVal := r.db.seqInsert("colonies")
	_, err := r.db.exec(ctx, `
		INSERT INTO colonies (
			id, owner_user_id, name, description,
			created_at, updated_at`+seqCol+`
		) VALUES ($1,$2,$3,$4,$5,$6`+seqVal+`)
	`,
		c.ID,
		c.OwnerUserID,
		c.Name,
		c.Description,
		utc(c.CreatedAt),
		utc(c.UpdatedAt),
	)
	return err
}

func (r *ColoniesRepo) GetByID(ctx context.Context, id string) (colonies.Colony, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return colonies.Colony{}, colonies.ErrNotFound
	}

	row := r.db.queryRow(ctx, `
		SELECT id, owner_user_id, name, description, created_at, updated_at
		FROM colonies
		WHERE id = $1
	`, id)

	var c colonies.Colony
	if err := row.Scan(&c.ID, &c.OwnerUserID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return colonies.Colony{}, colonies.ErrNotFound
		}
		return colonies.Colony{}, err
	}
	return c, nil
}

func (r *ColoniesRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]colonies.Colony, error) {
	rows, err := r.db.query(ctx, `
		SELECT id, owner_user_id, name, description, created_at, updated_at
		FROM colonies
		WHERE owner_user_id = $1
		ORDER BY seq ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]colonies.Colony, 0)
	for rows.Next() {
		var c colonies.Colony
		if err := rows.Scan(&c.ID, &c.OwnerUserID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ColoniesRepo) Update(ctx context.Context, c colonies.Colony) error {
	res, err := r.db.exec(ctx, `
		UPDATE colonies
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`, c.ID, c.Name, c.Description, utc(c.UpdatedAt))
	if err != nil {
		return err
	}
	return expectOne(res, colonies.ErrNotFound)
}

// Delete borra estanques y colonia en una sola transacción.
func (r *ColoniesRepo) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, r.db.rebind(`DELETE FROM ponds WHERE colony_id = $1`), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, r.db.rebind(`DELETE FROM colonies WHERE id = $1`), id)
	if err != nil {
		return err
	}
	if err = expectOne(res, colonies.ErrNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ColoniesRepo) CreatePond(ctx context.Context, p colonies.Pond) error {
	seqCol, seqVal := r.db.seqInsert("ponds")
	_, err := r.db.exec(ctx, `
		INSERT INTO ponds (
			id, colony_id, name, capacity, temperature,
			created_at, updated_at`+seqCol+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7`+seqVal+`)
	`,
		p.ID,
		p.ColonyID,
		p.Name,
		p.Capacity,
		p.Temperature,
		utc(p.CreatedAt),
		utc(p.UpdatedAt),
	)
	return err
}

func (r *ColoniesRepo) GetPond(ctx context.Context, id string) (colonies.Pond, error) {
	row := r.db.queryRow(ctx, `
		SELECT id, colony_id, name, capacity, temperature, created_at, updated_at
		FROM ponds
		WHERE id = $1
	`, strings.TrimSpace(id))

	var p colonies.Pond
	if err := row.Scan(&p.ID, &p.ColonyID, &p.Name, &p.Capacity, &p.Temperature, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return colonies.Pond{}, colonies.ErrNotFound
		}
		return colonies.Pond{}, err
	}
	return p, nil
}

func (r *ColoniesRepo) ListPonds(ctx context.Context, colonyID string) ([]colonies.Pond, error) {
	rows, err := r.db.query(ctx, `
		SELECT id, colony_id, name, capacity, temperature, created_at, updated_at
		FROM ponds
		WHERE colony_id = $1
		ORDER BY seq ASC
	`, colonyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]colonies.Pond, 0)
	for rows.Next() {
		var p colonies.Pond
		if err := rows.Scan(&p.ID, &p.ColonyID, &p.Name, &p.Capacity, &p.Temperature, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
