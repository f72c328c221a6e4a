package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type friendRow struct {
	bun.BaseModel `bun:"table:friends"`

	Pos         int64     `bun:"pos,pk,autoincrement"`
	Name        string    `bun:"name,notnull,unique"`
	Location    string    `bun:"location,notnull,default:''"`
	LastContact time.Time `bun:"last_contact,nullzero"`
}

type cellRow struct {
	bun.BaseModel `bun:"table:cells"`

	Name  string `bun:"name,pk"`
	Value string `bun:"value,notnull"`
}

// PostgresStore implements Store on Postgres through bun. The pos column
// preserves insertion order so ranking ties stay stable across backends.
type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is empty")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	for _, model := range []any{(*friendRow)(nil), (*cellRow)(nil)} {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Friends(ctx context.Context) ([]Friend, error) {
	var rows []friendRow
	if err := s.db.NewSelect().Model(&rows).Order("pos ASC").Scan(ctx); err != nil {
		return nil, err
	}

	friends := make([]Friend, 0, len(rows))
	for _, r := range rows {
		friends = append(friends, Friend{
			Name:        r.Name,
			Location:    r.Location,
			LastContact: r.LastContact,
		})
	}
	return friends, nil
}

func (s *PostgresStore) UpdateFriend(ctx context.Context, name string, patch FriendPatch) error {
	var last any
	if !patch.LastContact.IsZero() {
		last = patch.LastContact.UTC()
	}

	res, err := s.db.NewUpdate().
		Model((*friendRow)(nil)).
		Set("last_contact = ?", last).
		Where("name = ?", name).
		Exec(ctx)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrFriendNotFound, name)
	}
	return nil
}

func (s *PostgresStore) Scalar(ctx context.Context, cell Cell) (string, error) {
	var row cellRow
	err := s.db.NewSelect().Model(&row).Where("name = ?", string(cell)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrCellNotFound, cell)
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (s *PostgresStore) SetScalars(ctx context.Context, values map[Cell]string) error {
	if len(values) == 0 {
		return nil
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for cell, v := range values {
			row := &cellRow{Name: string(cell), Value: v}
			if _, err := tx.NewInsert().
				Model(row).
				On("CONFLICT (name) DO UPDATE").
				Set("value = EXCLUDED.value").
				Exec(ctx); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		return nil
	})
}

// AddFriend inserts a roster row, for provisioning and tests.
func (s *PostgresStore) AddFriend(ctx context.Context, f Friend) error {
	row := &friendRow{Name: f.Name, Location: f.Location, LastContact: f.LastContact}
	_, err := s.db.NewInsert().Model(row).Exec(ctx)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
