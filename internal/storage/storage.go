package storage

import (
	"context"
	"errors"

	"github.com/travelms/travel-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures persistence operations needed by the auth service.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	// UsernameOrEmailTaken reports whether any user already holds the
	// given username or email.
	UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error)
	// EmailTakenByOther reports whether a user other than id holds the email.
	EmailTakenByOther(ctx context.Context, email string, id int64) (bool, error)
	UpdateProfile(ctx context.Context, id int64, name, email string) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// DestinationStore serves the read-only destinations catalog.
type DestinationStore interface {
	ListDestinations(ctx context.Context) ([]models.Destination, error)
	PopularDestinations(ctx context.Context) ([]models.Destination, error)
	FindDestination(ctx context.Context, id int64) (models.Destination, error)
}

// BookingStore exposes the bulk maintenance operation used by cmd/bookings.
type BookingStore interface {
	// ConfirmPendingBookings flips pending hotel and package bookings to
	// confirmed and marks unpaid hotel bookings as paid. It returns the
	// affected row counts in that order.
	ConfirmPendingBookings(ctx context.Context) (hotelStatus, hotelPayments, packages int64, err error)
}
