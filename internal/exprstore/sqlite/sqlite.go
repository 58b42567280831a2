// Package sqlite is a modernc.org/sqlite-backed implementation of
// exprstore.Store.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lucaspiller/exprscript/internal/exprstore"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB

	libs  *LibrariesDB
	snaps *SnapshotsDB
}

// NewDatastore opens (creating if necessary) a sqlite database at file and
// returns an exprstore.Store backed by it.
func NewDatastore(file string) (exprstore.Store, error) {
	st := &store{dbFilename: file}

	var err error
	st.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.libs = &LibrariesDB{db: st.db}
	if err := st.libs.init(); err != nil {
		return nil, err
	}

	st.snaps = &SnapshotsDB{db: st.db}
	if err := st.snaps.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Libraries() exprstore.LibraryRepository  { return s.libs }
func (s *store) Snapshots() exprstore.SnapshotRepository { return s.snaps }

func (s *store) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return exprstore.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return exprstore.ErrNotFound
	}
	return err
}
