package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travelms/travel-be/internal/models"
	"github.com/travelms/travel-be/internal/storage"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.UserStore        = (*Store)(nil)
	_ storage.DestinationStore = (*Store)(nil)
	_ storage.BookingStore     = (*Store)(nil)
)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for the travel backend.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS destinations (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			country TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			best_time_to_visit TEXT NOT NULL DEFAULT '',
			popular_attractions TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS booking (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT REFERENCES users(id),
			destination_id BIGINT REFERENCES destinations(id),
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS hotel_booking (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT REFERENCES users(id),
			hotel_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			payment_status TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return s.seedDestinations(ctx)
}

// seedDestinations inserts the starter catalog when the table is empty.
func (s *Store) seedDestinations(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&count); err != nil {
		return fmt.Errorf("count destinations: %w", err)
	}
	if count > 0 {
		return nil
	}
	const query = `
	INSERT INTO destinations (name, country, description, image_url, best_time_to_visit, popular_attractions) VALUES
	('Rajasthan', 'India', 'Land of kings with magnificent palaces and forts', 'https://images.unsplash.com/photo-1477587458883-47145ed94245', 'October to March', 'Jaipur City Palace, Udaipur Lake Palace, Jaisalmer Fort'),
	('Kerala', 'India', 'Gods own country with backwaters and spices', 'https://images.unsplash.com/photo-1602216056096-3b40cc0c9944', 'September to March', 'Alleppey Backwaters, Munnar Tea Gardens, Kochi Fort'),
	('Goa', 'India', 'Beach paradise with Portuguese heritage', 'https://images.unsplash.com/photo-1512343879784-a960bf40e7f2', 'November to February', 'Baga Beach, Old Goa Churches, Dudhsagar Falls'),
	('Himachal Pradesh', 'India', 'Mountain state with adventure opportunities', 'https://images.unsplash.com/photo-1506905925346-21bda4d32df4', 'March to June, September to November', 'Shimla Mall Road, Manali Solang Valley, Dharamshala'),
	('Uttarakhand', 'India', 'Land of gods with spiritual and adventure tourism', 'https://images.unsplash.com/photo-1544735716-392fe2489ffa', 'April to June, September to November', 'Rishikesh, Haridwar, Valley of Flowers, Kedarnath');`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("seed destinations: %w", err)
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (username, email, name, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING id, username, email, name, password_hash, created_at;`
	row := s.pool.QueryRow(ctx, query, user.Username, user.Email, user.Name, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `
	SELECT id, username, email, name, password_hash, created_at
	FROM users WHERE id = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `
	SELECT id, username, email, name, password_hash, created_at
	FROM users WHERE username = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

// UsernameOrEmailTaken reports whether either credential is in use.
func (s *Store) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2);`
	var taken bool
	if err := s.pool.QueryRow(ctx, query, username, email).Scan(&taken); err != nil {
		return false, fmt.Errorf("check credentials: %w", err)
	}
	return taken, nil
}

// EmailTakenByOther reports whether the email belongs to a different user.
func (s *Store) EmailTakenByOther(ctx context.Context, email string, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id != $2);`
	var taken bool
	if err := s.pool.QueryRow(ctx, query, email, id).Scan(&taken); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

// UpdateProfile persists name and email for the user.
func (s *Store) UpdateProfile(ctx context.Context, id int64, name, email string) (models.User, error) {
	const query = `
	UPDATE users SET name = $1, email = $2 WHERE id = $3
	RETURNING id, username, email, name, password_hash, created_at;`
	updated, err := scanUser(s.pool.QueryRow(ctx, query, name, email, id))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return updated, nil
}

// UpdatePasswordHash overwrites the stored password hash.
func (s *Store) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListDestinations returns the full catalog ordered by name.
func (s *Store) ListDestinations(ctx context.Context) ([]models.Destination, error) {
	const query = `
	SELECT id, name, country, description, image_url, best_time_to_visit, popular_attractions, created_at
	FROM destinations ORDER BY name ASC;`
	return s.queryDestinations(ctx, query)
}

// PopularDestinations returns the newest six catalog entries.
func (s *Store) PopularDestinations(ctx context.Context) ([]models.Destination, error) {
	const query = `
	SELECT id, name, country, description, image_url, best_time_to_visit, popular_attractions, created_at
	FROM destinations ORDER BY created_at DESC, id DESC LIMIT 6;`
	return s.queryDestinations(ctx, query)
}

// FindDestination fetches one catalog entry.
func (s *Store) FindDestination(ctx context.Context, id int64) (models.Destination, error) {
	const query = `
	SELECT id, name, country, description, image_url, best_time_to_visit, popular_attractions, created_at
	FROM destinations WHERE id = $1;`
	var d models.Destination
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Country, &d.Description, &d.ImageURL,
		&d.BestTimeToVisit, &d.PopularAttractions, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Destination{}, storage.ErrNotFound
		}
		return models.Destination{}, err
	}
	return d, nil
}

// ConfirmPendingBookings bulk-confirms bookings and settles hotel payments.
func (s *Store) ConfirmPendingBookings(ctx context.Context) (int64, int64, int64, error) {
	hotelStatus, err := s.pool.Exec(ctx,
		`UPDATE hotel_booking SET status = 'confirmed' WHERE status = 'pending'`)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("confirm hotel bookings: %w", err)
	}
	hotelPayments, err := s.pool.Exec(ctx,
		`UPDATE hotel_booking SET payment_status = 'paid' WHERE payment_status = 'pending' OR payment_status IS NULL`)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("settle hotel payments: %w", err)
	}
	packages, err := s.pool.Exec(ctx,
		`UPDATE booking SET status = 'confirmed' WHERE status = 'pending'`)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("confirm package bookings: %w", err)
	}
	return hotelStatus.RowsAffected(), hotelPayments.RowsAffected(), packages.RowsAffected(), nil
}

func (s *Store) queryDestinations(ctx context.Context, query string) ([]models.Destination, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query destinations: %w", err)
	}
	defer rows.Close()

	var out []models.Destination
	for rows.Next() {
		var d models.Destination
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Country, &d.Description, &d.ImageURL,
			&d.BestTimeToVisit, &d.PopularAttractions, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
