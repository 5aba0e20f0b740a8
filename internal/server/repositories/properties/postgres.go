// Package properties provides the PostgreSQL-backed listing repository.
package properties

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/dbx"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/jackc/pgx/v5/pgtype"
)

// SimilarLimit caps ListByType.
const SimilarLimit = 3

const columns = `id, user_id, title, type, price, location, bedrooms, bathrooms, description,
		features, images, available, landlord_phone, created_at, updated_at`

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns listings matching filter. Location matches as a
// case-insensitive substring.
func (r *PostgresRepository) List(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	var (
		conds []string
		args  []any
	)

	if filter.Available != nil {
		args = append(args, *filter.Available)
		conds = append(conds, fmt.Sprintf("available = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, "%"+escapeLike(filter.Location)+"%")
		conds = append(conds, fmt.Sprintf("location ILIKE $%d", len(args)))
	}

	query := `SELECT ` + columns + ` FROM properties`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	return r.queryMany(ctx, query, args...)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	query := `SELECT ` + columns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]models.Property, error) {
	query := `SELECT ` + columns + ` FROM properties WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, userID)
}

func (r *PostgresRepository) ListByType(ctx context.Context, propertyType string, excludeID string) ([]models.Property, error) {
	if excludeID == "" {
		query := `SELECT ` + columns + ` FROM properties
		WHERE available AND type = $1
		ORDER BY created_at DESC LIMIT ` + fmt.Sprint(SimilarLimit)
		return r.queryMany(ctx, query, propertyType)
	}

	query := `SELECT ` + columns + ` FROM properties
		WHERE available AND type = $1 AND id <> $2
		ORDER BY created_at DESC LIMIT ` + fmt.Sprint(SimilarLimit)
	return r.queryMany(ctx, query, propertyType, excludeID)
}

// Create inserts a listing owned by ownerID.
func (r *PostgresRepository) Create(ctx context.Context, ownerID string, p *models.NewProperty) (*models.Property, error) {
	query := `
		INSERT INTO properties (user_id, title, type, price, location, bedrooms, bathrooms,
			description, features, images, available, landlord_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + columns

	created, err := scanProperty(r.db.QueryRowContext(ctx, query,
		ownerID, p.Title, p.Type, p.Price, p.Location, p.Bedrooms, p.Bathrooms,
		p.Description, textArray(nonNil(p.Features)), textArray(nonNil(p.Images)), p.Available, p.LandlordPhone))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// Update is a single conditional statement: a missing row and a row owned
// by someone else are indistinguishable to the caller.
func (r *PostgresRepository) Update(ctx context.Context, id string, ownerID string, patch *models.PropertyPatch) (*models.Property, error) {
	query := `
		UPDATE properties SET
			title = COALESCE($3, title),
			type = COALESCE($4, type),
			price = COALESCE($5, price),
			location = COALESCE($6, location),
			bedrooms = COALESCE($7, bedrooms),
			bathrooms = COALESCE($8, bathrooms),
			description = COALESCE($9, description),
			features = COALESCE($10, features),
			images = COALESCE($11, images),
			available = COALESCE($12, available),
			landlord_phone = COALESCE($13, landlord_phone),
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + columns

	updated, err := scanProperty(r.db.QueryRowContext(ctx, query,
		id, ownerID, patch.Title, patch.Type, patch.Price, patch.Location, patch.Bedrooms, patch.Bathrooms,
		patch.Description, textArray(patch.Features), textArray(patch.Images), patch.Available, patch.LandlordPhone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, ownerID string) (bool, error) {
	query := `
		DELETE FROM properties
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Property, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProperty reads one row in columns order. text[] columns go through
// pgtype so they decode the same way from pgx and from plain drivers.
func scanProperty(s rowScanner) (*models.Property, error) {
	m := pgtype.NewMap()
	p := &models.Property{}
	err := s.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Type, &p.Price, &p.Location, &p.Bedrooms, &p.Bathrooms, &p.Description,
		m.SQLScanner(&p.Features), m.SQLScanner(&p.Images), &p.Available, &p.LandlordPhone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Features = nonNil(p.Features)
	p.Images = nonNil(p.Images)
	return p, nil
}

// textArray passes a nil slice as SQL NULL so COALESCE keeps the column.
func textArray(v []string) any {
	if v == nil {
		return nil
	}
	return v
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
