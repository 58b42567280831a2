// Package exprstore provides data access objects persisting the two
// resources the expression engine itself treats as ephemeral: macro
// libraries (the engine's macro table lives only for one parse) and
// variable-environment snapshots (the engine's Environment has no save/load
// of its own). It mirrors the dao-shaped storage interface pattern, with
// inmem and sqlite implementations.
package exprstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from storage format")
)

// Store holds all the repositories exprstore offers.
type Store interface {
	Libraries() LibraryRepository
	Snapshots() SnapshotRepository
	Close() error
}

// Library is a named, persisted macro source: the literal text of one or
// more `$(name, body...)` definitions a host wants to re-prime a fresh
// Environment with before compiling a caller's expression.
type Library struct {
	ID      uuid.UUID
	Name    string
	Source  string
	Created time.Time
}

// LibraryRepository stores Libraries.
type LibraryRepository interface {
	Create(ctx context.Context, lib Library) (Library, error)
	GetByID(ctx context.Context, id uuid.UUID) (Library, error)
	GetByName(ctx context.Context, name string) (Library, error)
	GetAll(ctx context.Context) ([]Library, error)
	Update(ctx context.Context, id uuid.UUID, lib Library) (Library, error)
	Delete(ctx context.Context, id uuid.UUID) (Library, error)
	Close() error
}

// Snapshot is a named, persisted set of variable/value pairs for one
// exprscript.Environment, so a host can save an environment's state and
// reload it into a fresh Environment later.
type Snapshot struct {
	ID        uuid.UUID
	Name      string
	Variables map[string]float64
	Updated   time.Time
}

// SnapshotRepository stores Snapshots.
type SnapshotRepository interface {
	Create(ctx context.Context, snap Snapshot) (Snapshot, error)
	GetByID(ctx context.Context, id uuid.UUID) (Snapshot, error)
	GetByName(ctx context.Context, name string) (Snapshot, error)
	GetAll(ctx context.Context) ([]Snapshot, error)
	Update(ctx context.Context, id uuid.UUID, snap Snapshot) (Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) (Snapshot, error)
	Close() error
}
