package inmem

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lucaspiller/exprscript/internal/exprstore"
	"github.com/stretchr/testify/assert"
)

func Test_Libraries_CreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	st := NewDatastore()
	defer st.Close()

	created, err := st.Libraries().Create(ctx, exprstore.Library{Name: "math", Source: "$(sq, $1*$1)"})
	assert.NoError(t, err)
	assert.NotEqual(t, created.ID.String(), "")

	got, err := st.Libraries().GetByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created, got)

	byName, err := st.Libraries().GetByName(ctx, "math")
	assert.NoError(t, err)
	assert.Equal(t, created, byName)

	updated := created
	updated.Source = "$(sq, $1*$1), $(cube, $1*$1*$1)"
	updated, err = st.Libraries().Update(ctx, created.ID, updated)
	assert.NoError(t, err)
	assert.Equal(t, "$(sq, $1*$1), $(cube, $1*$1*$1)", updated.Source)

	deleted, err := st.Libraries().Delete(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = st.Libraries().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, exprstore.ErrNotFound)
}

func Test_Libraries_Create_duplicateNameIsConstraintViolation(t *testing.T) {
	ctx := context.Background()
	st := NewDatastore()
	defer st.Close()

	_, err := st.Libraries().Create(ctx, exprstore.Library{Name: "math", Source: "x"})
	assert.NoError(t, err)

	_, err = st.Libraries().Create(ctx, exprstore.Library{Name: "math", Source: "y"})
	assert.ErrorIs(t, err, exprstore.ErrConstraintViolation)
}

func Test_Snapshots_CreateGetAll(t *testing.T) {
	ctx := context.Background()
	st := NewDatastore()
	defer st.Close()

	_, err := st.Snapshots().Create(ctx, exprstore.Snapshot{
		Name:      "session-1",
		Variables: map[string]float64{"x": 5, "y": 3},
	})
	assert.NoError(t, err)

	all, err := st.Snapshots().GetAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, float64(5), all[0].Variables["x"])
}

func Test_Snapshots_Delete_missingIsNotFound(t *testing.T) {
	ctx := context.Background()
	st := NewDatastore()
	defer st.Close()

	id, err := uuid.NewRandom()
	assert.NoError(t, err)

	_, err = st.Snapshots().Delete(ctx, id)
	assert.ErrorIs(t, err, exprstore.ErrNotFound)
}
