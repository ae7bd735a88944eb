package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stwalsh4118/bma/api/internal/database"
	"github.com/stwalsh4118/bma/api/internal/domain"
)

// Store groups the repositories of the property domain behind one
// transactional boundary.
type Store interface {
	Buildings() BuildingRepository
	Apartments() ApartmentRepository
	Leases() LeaseRepository
	Tenants() TenantRepository
	Parking() ParkingRepository
	Users() UserRepository

	// WithTx runs fn with a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithTx on a Store that is already transactional reuses the
	// open transaction.
	WithTx(ctx context.Context, fn func(Store) error) error
}

type pgStore struct {
	conn database.Conn
	db   database.DBTX
	inTx bool
}

// NewStore creates a Store backed by conn.
func NewStore(conn database.Conn) Store {
	return &pgStore{conn: conn, db: conn}
}

func (s *pgStore) Buildings() BuildingRepository   { return &buildingRepository{db: s.db} }
func (s *pgStore) Apartments() ApartmentRepository { return &apartmentRepository{db: s.db} }
func (s *pgStore) Leases() LeaseRepository         { return &leaseRepository{db: s.db} }
func (s *pgStore) Tenants() TenantRepository       { return &tenantRepository{db: s.db} }
func (s *pgStore) Parking() ParkingRepository      { return &parkingRepository{db: s.db} }
func (s *pgStore) Users() UserRepository           { return &userRepository{db: s.db} }

func (s *pgStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return database.InTx(ctx, s.conn, func(tx pgx.Tx) error {
		return fn(&pgStore{conn: s.conn, db: tx, inTx: true})
	})
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// PostgreSQL error codes surfaced as domain conflicts.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// writeError translates constraint and serialization failures into
// domain.ConflictError and wraps everything else with context.
func writeError(resource, action string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &domain.ConflictError{
				Resource: resource,
				Message:  fmt.Sprintf("%s violates unique constraint %s", resource, pgErr.ConstraintName),
				Err:      err,
			}
		case pgSerializationFailure, pgDeadlockDetected:
			return &domain.ConflictError{
				Resource: resource,
				Message:  "concurrent update, retry the request",
				Err:      err,
			}
		}
	}
	return fmt.Errorf("failed to %s %s: %w", action, resource, err)
}

// notFoundOrError maps pgx.ErrNoRows to a nil result, which repositories
// return as (nil, nil).
func notFoundOrError(resource string, key interface{}, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return fmt.Errorf("failed to query %s %v: %w", resource, key, err)
}
