package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/gatehouse/internal/database"
	"github.com/BradenHooton/gatehouse/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository tracks the at-most-one active session per user.
type SessionRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db, pool: db.Pool}
}

func scanSessionRow(scanner rowScanner) (*models.Session, error) {
	var session models.Session

	err := scanner.Scan(&session.ID, &session.UserID, &session.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &session, nil
}

func (r *SessionRepository) GetByUserID(ctx context.Context, userID string) (*models.Session, error) {
	query := `SELECT id, user_id, created_at FROM sessions WHERE user_id = $1`

	return scanSessionRow(r.pool.QueryRow(ctx, query, userID))
}

func (r *SessionRepository) Create(ctx context.Context, userID string) (*models.Session, error) {
	query := `
		INSERT INTO sessions (id, user_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, created_at
	`

	return scanSessionRow(r.pool.QueryRow(ctx, query, uuid.New().String(), userID, time.Now()))
}

// DeleteByUserID removes the user's session if one exists. A missing session
// is not an error.
func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM sessions WHERE user_id = $1`

	_, err := r.pool.Exec(ctx, query, userID)
	return database.MapPostgresError(err)
}

// Replace atomically swaps any existing session for userID with a fresh one.
// Delete and insert run in one transaction; together with the UNIQUE
// constraint on user_id this keeps concurrent logins from leaving two rows.
func (r *SessionRepository) Replace(ctx context.Context, userID string) (*models.Session, error) {
	var session *models.Session

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
			return database.MapPostgresError(err)
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO sessions (id, user_id, created_at)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, created_at
		`, uuid.New().String(), userID, time.Now())

		var err error
		session, err = scanSessionRow(row)
		return err
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}
