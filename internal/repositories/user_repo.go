package repositories

import (
	"context"
	"time"

	"github.com/BradenHooton/gatehouse/internal/database"
	"github.com/BradenHooton/gatehouse/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, first_name, last_name, email, password_hash, role, pending_token,
		verified, logged_in, otp, otp_expires_at, profile_pic, address, city, zip_code, phone_no,
		created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (works for QueryRow and Rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.PasswordHash, &user.Role, &user.PendingToken,
		&user.Verified, &user.LoggedIn, &user.OTP, &user.OTPExpiresAt,
		&user.ProfilePic, &user.Address, &user.City, &user.ZipCode, &user.PhoneNo,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

// Create persists a new user. The caller is expected to have minted user.ID
// already so the verification token can name it before the row exists.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash, role, pending_token,
			verified, logged_in, otp, otp_expires_at, profile_pic, address, city, zip_code, phone_no,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email,
		user.PasswordHash, user.Role, user.PendingToken,
		user.Verified, user.LoggedIn, user.OTP, user.OTPExpiresAt,
		user.ProfilePic, user.Address, user.City, user.ZipCode, user.PhoneNo,
		user.CreatedAt, user.UpdatedAt,
	))
}

// Update writes back the mutable account state for an existing user.
func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, pending_token = $3, verified = $4,
			logged_in = $5, otp = $6, otp_expires_at = $7, profile_pic = $8,
			address = $9, city = $10, zip_code = $11, phone_no = $12, updated_at = $13
		WHERE id = $14
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.FirstName, user.LastName, user.PendingToken, user.Verified,
		user.LoggedIn, user.OTP, user.OTPExpiresAt, user.ProfilePic,
		user.Address, user.City, user.ZipCode, user.PhoneNo, user.UpdatedAt, id,
	))
}
