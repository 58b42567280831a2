// Package inmem is an in-memory implementation of exprstore.Store, used for
// tests and for the "inmem" server DB type.
package inmem

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lucaspiller/exprscript/internal/exprstore"
)

type store struct {
	libs  *librariesRepository
	snaps *snapshotsRepository
}

// NewDatastore returns an exprstore.Store backed entirely by in-process maps.
func NewDatastore() exprstore.Store {
	return &store{
		libs:  newLibrariesRepository(),
		snaps: newSnapshotsRepository(),
	}
}

func (s *store) Libraries() exprstore.LibraryRepository { return s.libs }
func (s *store) Snapshots() exprstore.SnapshotRepository { return s.snaps }

func (s *store) Close() error {
	return nil
}

type librariesRepository struct {
	byID map[uuid.UUID]exprstore.Library
}

func newLibrariesRepository() *librariesRepository {
	return &librariesRepository{byID: make(map[uuid.UUID]exprstore.Library)}
}

func (r *librariesRepository) Close() error { return nil }

func (r *librariesRepository) Create(ctx context.Context, lib exprstore.Library) (exprstore.Library, error) {
	for _, existing := range r.byID {
		if existing.Name == lib.Name {
			return exprstore.Library{}, exprstore.ErrConstraintViolation
		}
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return exprstore.Library{}, fmt.Errorf("could not generate ID: %w", err)
	}
	lib.ID = id
	lib.Created = time.Now()
	r.byID[id] = lib
	return lib, nil
}

func (r *librariesRepository) GetByID(ctx context.Context, id uuid.UUID) (exprstore.Library, error) {
	lib, ok := r.byID[id]
	if !ok {
		return exprstore.Library{}, exprstore.ErrNotFound
	}
	return lib, nil
}

func (r *librariesRepository) GetByName(ctx context.Context, name string) (exprstore.Library, error) {
	for _, lib := range r.byID {
		if lib.Name == name {
			return lib, nil
		}
	}
	return exprstore.Library{}, exprstore.ErrNotFound
}

func (r *librariesRepository) GetAll(ctx context.Context) ([]exprstore.Library, error) {
	all := make([]exprstore.Library, 0, len(r.byID))
	for _, lib := range r.byID {
		all = append(all, lib)
	}
	return all, nil
}

func (r *librariesRepository) Update(ctx context.Context, id uuid.UUID, lib exprstore.Library) (exprstore.Library, error) {
	if _, ok := r.byID[id]; !ok {
		return exprstore.Library{}, exprstore.ErrNotFound
	}
	lib.ID = id
	r.byID[id] = lib
	return lib, nil
}

func (r *librariesRepository) Delete(ctx context.Context, id uuid.UUID) (exprstore.Library, error) {
	lib, ok := r.byID[id]
	if !ok {
		return exprstore.Library{}, exprstore.ErrNotFound
	}
	delete(r.byID, id)
	return lib, nil
}

type snapshotsRepository struct {
	byID map[uuid.UUID]exprstore.Snapshot
}

func newSnapshotsRepository() *snapshotsRepository {
	return &snapshotsRepository{byID: make(map[uuid.UUID]exprstore.Snapshot)}
}

func (r *snapshotsRepository) Close() error { return nil }

func (r *snapshotsRepository) Create(ctx context.Context, snap exprstore.Snapshot) (exprstore.Snapshot, error) {
	for _, existing := range r.byID {
		if existing.Name == snap.Name {
			return exprstore.Snapshot{}, exprstore.ErrConstraintViolation
		}
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return exprstore.Snapshot{}, fmt.Errorf("could not generate ID: %w", err)
	}
	snap.ID = id
	snap.Updated = time.Now()
	r.byID[id] = snap
	return snap, nil
}

func (r *snapshotsRepository) GetByID(ctx context.Context, id uuid.UUID) (exprstore.Snapshot, error) {
	snap, ok := r.byID[id]
	if !ok {
		return exprstore.Snapshot{}, exprstore.ErrNotFound
	}
	return snap, nil
}

func (r *snapshotsRepository) GetByName(ctx context.Context, name string) (exprstore.Snapshot, error) {
	for _, snap := range r.byID {
		if snap.Name == name {
			return snap, nil
		}
	}
	return exprstore.Snapshot{}, exprstore.ErrNotFound
}

func (r *snapshotsRepository) GetAll(ctx context.Context) ([]exprstore.Snapshot, error) {
	all := make([]exprstore.Snapshot, 0, len(r.byID))
	for _, snap := range r.byID {
		all = append(all, snap)
	}
	return all, nil
}

func (r *snapshotsRepository) Update(ctx context.Context, id uuid.UUID, snap exprstore.Snapshot) (exprstore.Snapshot, error) {
	if _, ok := r.byID[id]; !ok {
		return exprstore.Snapshot{}, exprstore.ErrNotFound
	}
	snap.ID = id
	snap.Updated = time.Now()
	r.byID[id] = snap
	return snap, nil
}

func (r *snapshotsRepository) Delete(ctx context.Context, id uuid.UUID) (exprstore.Snapshot, error) {
	snap, ok := r.byID[id]
	if !ok {
		return exprstore.Snapshot{}, exprstore.ErrNotFound
	}
	delete(r.byID, id)
	return snap, nil
}
