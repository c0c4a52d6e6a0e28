package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainware/module-content/pkg/modulecontent"
)

func TestCreateAssignsSerialIDs(t *testing.T) {
	r := New()
	ctx := context.Background()

	a := &modulecontent.Module{Title: "A"}
	b := &modulecontent.Module{Title: "B"}
	require.NoError(t, r.CreateModule(ctx, a))
	require.NoError(t, r.CreateModule(ctx, b))

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
}

func TestSetNextID(t *testing.T) {
	r := New()
	r.SetNextID(57)

	m := &modulecontent.Module{Title: "Gap"}
	require.NoError(t, r.CreateModule(context.Background(), m))
	assert.Equal(t, int64(57), m.ID)
}

func TestGetReturnsCopy(t *testing.T) {
	r := New()
	ctx := context.Background()

	m := &modulecontent.Module{Title: "Original"}
	require.NoError(t, r.CreateModule(ctx, m))

	got, err := r.GetModule(ctx, m.ID)
	require.NoError(t, err)
	got.Title = "Mutated"

	again, err := r.GetModule(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
}

func TestGetMissing(t *testing.T) {
	r := New()
	_, err := r.GetModule(context.Background(), 404)
	assert.ErrorIs(t, err, modulecontent.ErrModuleNotFound)
}

func TestUpdateModule(t *testing.T) {
	r := New()
	ctx := context.Background()

	m := &modulecontent.Module{Title: "Before"}
	require.NoError(t, r.CreateModule(ctx, m))

	m.Title = "After"
	require.NoError(t, r.UpdateModule(ctx, m))

	got, err := r.GetModule(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
}

func TestUpdateMissing(t *testing.T) {
	r := New()
	err := r.UpdateModule(context.Background(), &modulecontent.Module{ID: 404})
	assert.ErrorIs(t, err, modulecontent.ErrModuleNotFound)
}
