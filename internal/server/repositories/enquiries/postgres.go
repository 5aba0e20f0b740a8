package enquiries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/dbx"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
)

const columns = `id, property_id, name, phone, whatsapp, message, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListForProperties(ctx context.Context, propertyIDs []string) ([]models.Enquiry, error) {
	result := make([]models.Enquiry, 0)
	if len(propertyIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + columns + ` FROM enquiries
		WHERE property_id = ANY($1)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Enquiry
		if err := rows.Scan(&e.ID, &e.PropertyID, &e.Name, &e.Phone, &e.Whatsapp, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Create checks availability and inserts in one statement, so a listing
// withdrawn concurrently cannot receive the enquiry. A listing deleted
// between the check and the insert surfaces as a foreign key violation.
func (r *PostgresRepository) Create(ctx context.Context, e *models.NewEnquiry) (*models.Enquiry, error) {
	query := `
		INSERT INTO enquiries (property_id, name, phone, whatsapp, message)
		SELECT $1::uuid, $2::text, $3::text, $4::boolean, $5::text
		WHERE EXISTS (SELECT 1 FROM properties WHERE id = $1::uuid AND available)
		RETURNING ` + columns

	created := &models.Enquiry{}
	err := r.db.QueryRowContext(ctx, query, e.PropertyID, e.Name, e.Phone, e.Whatsapp, e.Message).Scan(
		&created.ID, &created.PropertyID, &created.Name, &created.Phone, &created.Whatsapp, &created.Message, &created.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsForeignKeyViolation(err, "") {
			return nil, common.ErrPropertyUnavailable
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}
