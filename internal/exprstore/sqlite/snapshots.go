package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"github.com/lucaspiller/exprscript/internal/exprstore"
)

// SnapshotsDB is a sqlite-backed exprstore.SnapshotRepository. The
// Variables map is REZI-encoded to a binary blob before being stored, since
// sqlite has no native map column type.
type SnapshotsDB struct {
	db *sql.DB
}

func (repo *SnapshotsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		variables TEXT NOT NULL,
		updated INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func encodeVariables(vars map[string]float64) string {
	data := rezi.EncBinary(vars)
	return base64.StdEncoding.EncodeToString(data)
}

func decodeVariables(s string) (map[string]float64, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: stored variables are not valid base64: %v", exprstore.ErrDecodingFailure, err)
	}

	vars := map[string]float64{}
	n, err := rezi.DecBinary(raw, &vars)
	if err != nil {
		return nil, fmt.Errorf("%w: REZI decode: %v", exprstore.ErrDecodingFailure, err)
	}
	if n != len(raw) {
		return nil, fmt.Errorf("%w: REZI decoded byte count mismatch; only consumed %d/%d bytes", exprstore.ErrDecodingFailure, n, len(raw))
	}

	return vars, nil
}

func (repo *SnapshotsDB) Create(ctx context.Context, snap exprstore.Snapshot) (exprstore.Snapshot, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return exprstore.Snapshot{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO snapshots (id, name, variables, updated) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return exprstore.Snapshot{}, wrapDBError(err)
	}
	now := time.Now()

	_, err = stmt.ExecContext(ctx, newUUID.String(), snap.Name, encodeVariables(snap.Variables), now.Unix())
	if err != nil {
		return exprstore.Snapshot{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SnapshotsDB) GetByID(ctx context.Context, id uuid.UUID) (exprstore.Snapshot, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT name, variables, updated FROM snapshots WHERE id = ?;`, id.String())
	return repo.scanOne(id, row)
}

func (repo *SnapshotsDB) scanOne(id uuid.UUID, row *sql.Row) (exprstore.Snapshot, error) {
	snap := exprstore.Snapshot{ID: id}
	var encVars string
	var updated int64
	if err := row.Scan(&snap.Name, &encVars, &updated); err != nil {
		return exprstore.Snapshot{}, wrapDBError(err)
	}
	snap.Updated = time.Unix(updated, 0)

	vars, err := decodeVariables(encVars)
	if err != nil {
		return exprstore.Snapshot{}, err
	}
	snap.Variables = vars

	return snap, nil
}

func (repo *SnapshotsDB) GetByName(ctx context.Context, name string) (exprstore.Snapshot, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, variables, updated FROM snapshots WHERE name = ?;`, name)

	var idStr string
	var encVars string
	var updated int64
	if err := row.Scan(&idStr, &encVars, &updated); err != nil {
		return exprstore.Snapshot{}, wrapDBError(err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return exprstore.Snapshot{}, fmt.Errorf("stored UUID %q is invalid", idStr)
	}
	vars, err := decodeVariables(encVars)
	if err != nil {
		return exprstore.Snapshot{}, err
	}

	return exprstore.Snapshot{ID: id, Name: name, Variables: vars, Updated: time.Unix(updated, 0)}, nil
}

func (repo *SnapshotsDB) GetAll(ctx context.Context) ([]exprstore.Snapshot, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, variables, updated FROM snapshots;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []exprstore.Snapshot
	for rows.Next() {
		var idStr, encVars string
		snap := exprstore.Snapshot{}
		var updated int64
		if err := rows.Scan(&idStr, &snap.Name, &encVars, &updated); err != nil {
			return nil, wrapDBError(err)
		}
		snap.ID, err = uuid.Parse(idStr)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid", idStr)
		}
		snap.Updated = time.Unix(updated, 0)
		snap.Variables, err = decodeVariables(encVars)
		if err != nil {
			return all, err
		}
		all = append(all, snap)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *SnapshotsDB) Update(ctx context.Context, id uuid.UUID, snap exprstore.Snapshot) (exprstore.Snapshot, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE snapshots SET name=?, variables=?, updated=? WHERE id=?;`,
		snap.Name, encodeVariables(snap.Variables), time.Now().Unix(), id.String())
	if err != nil {
		return exprstore.Snapshot{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return exprstore.Snapshot{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return exprstore.Snapshot{}, exprstore.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *SnapshotsDB) Delete(ctx context.Context, id uuid.UUID) (exprstore.Snapshot, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id.String())
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

func (repo *SnapshotsDB) Close() error {
	return nil
}
