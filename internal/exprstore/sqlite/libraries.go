package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lucaspiller/exprscript/internal/exprstore"
)

// LibrariesDB is a sqlite-backed exprstore.LibraryRepository.
type LibrariesDB struct {
	db *sql.DB
}

func (repo *LibrariesDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS libraries (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *LibrariesDB) Create(ctx context.Context, lib exprstore.Library) (exprstore.Library, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return exprstore.Library{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO libraries (id, name, source, created) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return exprstore.Library{}, wrapDBError(err)
	}
	now := time.Now()

	_, err = stmt.ExecContext(ctx, newUUID.String(), lib.Name, lib.Source, now.Unix())
	if err != nil {
		return exprstore.Library{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *LibrariesDB) GetByID(ctx context.Context, id uuid.UUID) (exprstore.Library, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT name, source, created FROM libraries WHERE id = ?;`, id.String())
	return repo.scanOne(id, row)
}

func (repo *LibrariesDB) GetByName(ctx context.Context, name string) (exprstore.Library, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, source, created FROM libraries WHERE name = ?;`, name)

	var idStr string
	var source string
	var created int64
	if err := row.Scan(&idStr, &source, &created); err != nil {
		return exprstore.Library{}, wrapDBError(err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return exprstore.Library{}, fmt.Errorf("stored UUID %q is invalid", idStr)
	}

	return exprstore.Library{ID: id, Name: name, Source: source, Created: time.Unix(created, 0)}, nil
}

func (repo *LibrariesDB) scanOne(id uuid.UUID, row *sql.Row) (exprstore.Library, error) {
	lib := exprstore.Library{ID: id}
	var created int64
	if err := row.Scan(&lib.Name, &lib.Source, &created); err != nil {
		return exprstore.Library{}, wrapDBError(err)
	}
	lib.Created = time.Unix(created, 0)
	return lib, nil
}

func (repo *LibrariesDB) GetAll(ctx context.Context) ([]exprstore.Library, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, source, created FROM libraries;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []exprstore.Library
	for rows.Next() {
		var idStr string
		lib := exprstore.Library{}
		var created int64
		if err := rows.Scan(&idStr, &lib.Name, &lib.Source, &created); err != nil {
			return nil, wrapDBError(err)
		}
		lib.ID, err = uuid.Parse(idStr)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid", idStr)
		}
		lib.Created = time.Unix(created, 0)
		all = append(all, lib)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *LibrariesDB) Update(ctx context.Context, id uuid.UUID, lib exprstore.Library) (exprstore.Library, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE libraries SET name=?, source=? WHERE id=?;`, lib.Name, lib.Source, id.String())
	if err != nil {
		return exprstore.Library{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return exprstore.Library{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return exprstore.Library{}, exprstore.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *LibrariesDB) Delete(ctx context.Context, id uuid.UUID) (exprstore.Library, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM libraries WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, exprstore.ErrNotFound
	}
	return curVal, nil
}

func (repo *LibrariesDB) Close() error {
	return nil
}
