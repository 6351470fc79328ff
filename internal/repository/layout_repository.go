package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/bus-ticketing/internal/model"
)

const layoutColumns = `id, owner_id, name, seat_count, layout_data, created_at, updated_at`

// LayoutRepo stores saved layout documents in `bus_layouts`.
type LayoutRepo struct {
	db *sql.DB
}

// NewLayoutRepo constructs a LayoutRepo with the given DB handle.
func NewLayoutRepo(db *sql.DB) *LayoutRepo {
	return &LayoutRepo{db: db}
}

// Create inserts the layout and fills in ID and timestamps.  A name the
// owner already used yields ErrLayoutNameTaken.
func (r *LayoutRepo) Create(ctx context.Context, l *model.BusLayout) error {
	data, err := json.Marshal(l.Document.LayoutData)
	if err != nil {
		return fmt.Errorf("encode layout_data: %w", err)
	}
	l.SeatCount = l.Document.SeatCount()

	const q = `INSERT INTO bus_layouts (owner_id, name, seat_rows, seat_cols, aisle_column, seat_count, layout_data)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		l.OwnerID, l.Name, l.Document.Rows, l.Document.Columns, l.Document.AisleColumn, l.SeatCount, data)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrLayoutNameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*l = *fresh
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanLayout reads one row selected with layoutColumns plus the three
// dimension columns.
func scanLayout(s rowScanner) (*model.BusLayout, error) {
	var (
		l    model.BusLayout
		data []byte
	)
	if err := s.Scan(&l.ID, &l.OwnerID, &l.Name, &l.SeatCount, &data, &l.CreatedAt, &l.UpdatedAt,
		&l.Document.Rows, &l.Document.Columns, &l.Document.AisleColumn); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &l.Document.LayoutData); err != nil {
		return nil, fmt.Errorf("decode layout %d: %w", l.ID, err)
	}
	if err := l.Document.Validate(); err != nil {
		return nil, fmt.Errorf("layout %d: %w", l.ID, err)
	}
	return &l, nil
}

// GetByID retrieves a layout regardless of owner.
func (r *LayoutRepo) GetByID(ctx context.Context, id uint64) (*model.BusLayout, error) {
	const q = `SELECT ` + layoutColumns + `, seat_rows, seat_cols, aisle_column FROM bus_layouts WHERE id = ?`
	l, err := scanLayout(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLayoutNotFound
		}
		return nil, err
	}
	return l, nil
}

// ListByOwner returns the owner's layouts, newest first.
func (r *LayoutRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.BusLayout, error) {
	const q = `SELECT ` + layoutColumns + `, seat_rows, seat_cols, aisle_column
	           FROM bus_layouts
	           WHERE owner_id = ?
	           ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.BusLayout{}
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByIDAndOwner deletes a layout if it belongs to the owner.
func (r *LayoutRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bus_layouts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLayoutNotFound
	}
	return nil
}
