package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storen/internal/core"
)

const pgUniqueViolation = "23505"

// Postgres implements core.TableStore against the remote database. All
// name-based relational logic lives above this layer; the store only
// translates queries.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ core.TableStore = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// stockWhere builds WHERE conditions and positional args for a StockQuery.
func stockWhere(q core.StockQuery) (string, []any) {
	var conditions []string
	var args []any

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if q.Warehouse != "" {
		args = append(args, q.Warehouse)
		conditions = append(conditions, fmt.Sprintf("warehouse = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (s *Postgres) SelectStock(ctx context.Context, q core.StockQuery) ([]core.StockItem, int, error) {
	where, args := stockWhere(q)

	var total int
	countQuery := "SELECT count(*) FROM stock_items" + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: count stock: %v", ErrRemoteRead, err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, quantity, price, threshold, category, warehouse, thumbnail
		FROM stock_items%s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit(), q.From)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: query stock: %v", ErrRemoteRead, err)
	}
	defer rows.Close()

	var items []core.StockItem
	for rows.Next() {
		var it core.StockItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &it.Price, &it.Threshold,
			&it.Category, &it.Warehouse, &it.Thumbnail); err != nil {
			return nil, 0, fmt.Errorf("%w: scan stock row: %v", ErrRemoteRead, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: read stock rows: %v", ErrRemoteRead, err)
	}
	return items, total, nil
}

func (s *Postgres) InsertStock(ctx context.Context, row core.StockItem) (core.StockItem, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO stock_items (name, quantity, price, threshold, category, warehouse, thumbnail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, row.Name, row.Quantity, row.Price, row.Threshold, row.Category, row.Warehouse, row.Thumbnail).Scan(&row.ID)
	if err != nil {
		return core.StockItem{}, fmt.Errorf("%w: insert stock: %v", ErrRemoteWrite, err)
	}
	return row, nil
}

func (s *Postgres) UpdateStock(ctx context.Context, id int64, row core.StockItem) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE stock_items
		SET name = $1, quantity = $2, price = $3, threshold = $4,
		    category = $5, warehouse = $6, thumbnail = $7
		WHERE id = $8
	`, row.Name, row.Quantity, row.Price, row.Threshold, row.Category, row.Warehouse, row.Thumbnail, id)
	if err != nil {
		return fmt.Errorf("%w: update stock %d: %v", ErrRemoteWrite, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: update stock %d: no such row", ErrRemoteWrite, id)
	}
	return nil
}

func (s *Postgres) DeleteStock(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM stock_items WHERE id = $1", id); err != nil {
		return fmt.Errorf("%w: delete stock %d: %v", ErrRemoteWrite, id, err)
	}
	return nil
}

func (s *Postgres) ListCategories(ctx context.Context) ([]core.Entry, error) {
	return s.listEntries(ctx, "categories")
}

func (s *Postgres) InsertCategory(ctx context.Context, name string) (core.Entry, error) {
	return s.insertEntry(ctx, "categories", name)
}

func (s *Postgres) ListWarehouses(ctx context.Context) ([]core.Entry, error) {
	return s.listEntries(ctx, "warehouses")
}

func (s *Postgres) InsertWarehouse(ctx context.Context, name string) (core.Entry, error) {
	return s.insertEntry(ctx, "warehouses", name)
}

// listEntries reads a full reference table. table is a trusted constant, never
// user input.
func (s *Postgres) listEntries(ctx context.Context, table string) ([]core.Entry, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name FROM "+table+" ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrRemoteRead, table, err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		var e core.Entry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("%w: scan %s row: %v", ErrRemoteRead, table, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s rows: %v", ErrRemoteRead, table, err)
	}
	return entries, nil
}

func (s *Postgres) insertEntry(ctx context.Context, table, name string) (core.Entry, error) {
	e := core.Entry{Name: name}
	err := s.pool.QueryRow(ctx,
		"INSERT INTO "+table+" (name) VALUES ($1) RETURNING id", name).Scan(&e.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return core.Entry{}, fmt.Errorf("%w: %q already exists in %s", ErrDuplicateName, name, table)
		}
		return core.Entry{}, fmt.Errorf("%w: insert into %s: %v", ErrRemoteWrite, table, err)
	}
	return e, nil
}
