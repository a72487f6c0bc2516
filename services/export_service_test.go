package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without a store", func(t *testing.T) {
		env := newTestEnv(t)
		exports := NewExportService(env.repo, nil, nil)
		_, err := exports.Export(ctx, env.newSession(t))
		assert.ErrorIs(t, err, ErrExportDisabled)
		assert.ErrorIs(t, exports.DeleteExport(ctx, "any"), ErrExportDisabled)
	})

	t.Run("requires generated teams", func(t *testing.T) {
		env := newTestEnv(t)
		exports := NewExportService(env.repo, &fakeStore{}, nil)
		_, err := exports.Export(ctx, env.newSession(t))
		assert.ErrorIs(t, err, ErrTeamsNotGenerated)
	})

	t.Run("uploads snapshot", func(t *testing.T) {
		env := newTestEnv(t)
		store := &fakeStore{}
		exports := NewExportService(env.repo, store, nil).(*exportService)
		exports.now = func() time.Time { return time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC) }

		id := readyFlat(t, env, "Red", "Blue")
		obj, err := exports.Export(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "exports/"+id+".json", obj.Key)
		assert.Equal(t, "https://cdn.example.com/exports/"+id+".json", obj.Location)

		var snap map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(store.objects[obj.Key], &snap))
		assert.JSONEq(t, `"2024-05-01T18:00:00Z"`, string(snap["exported_at"]))
		assert.JSONEq(t, `true`, string(snap["names_confirmed"]))
		assert.JSONEq(t, `[{"teamA":0,"teamB":1}]`, string(snap["schedule"]))

		require.NoError(t, exports.DeleteExport(ctx, id))
		assert.Empty(t, store.objects)
	})

	t.Run("store failure", func(t *testing.T) {
		env := newTestEnv(t)
		storeErr := errors.New("bucket unreachable")
		exports := NewExportService(env.repo, &fakeStore{err: storeErr}, nil)

		id := readyFlat(t, env, "Red", "Blue")
		_, err := exports.Export(ctx, id)
		assert.ErrorIs(t, err, ErrExportFailed)
		assert.ErrorIs(t, err, storeErr)
	})
}
