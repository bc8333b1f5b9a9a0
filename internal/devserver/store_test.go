package devserver_test

import (
	"context"
	"testing"

	"github.com/database-playground/query-console/internal/devserver"
	"github.com/database-playground/query-console/internal/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Execute(t *testing.T) {
	store := testhelper.NewDevServerStore(t)
	ctx := context.Background()

	created, err := store.Execute(ctx, "CREATE TABLE people (name TEXT, age INTEGER)")
	require.NoError(t, err)
	assert.IsType(t, &devserver.Affected{}, created)

	inserted, err := store.Execute(ctx, "INSERT INTO people VALUES ('ada', 36), ('alan', 41)")
	require.NoError(t, err)
	require.IsType(t, &devserver.Affected{}, inserted)
	assert.EqualValues(t, 2, inserted.(*devserver.Affected).Affected)

	selected, err := store.Execute(ctx, "  select name, age from people order by age  ")
	require.NoError(t, err)
	require.IsType(t, &devserver.Rows{}, selected)

	rows := selected.(*devserver.Rows)
	assert.Equal(t, []string{"name", "age"}, rows.Headers)
	assert.Equal(t, [][]any{{"ada", int64(36)}, {"alan", int64(41)}}, rows.Rows)
	assert.GreaterOrEqual(t, rows.TimeTaken, float64(0))
}

func TestStore_ExecuteEmptyResult(t *testing.T) {
	store := testhelper.NewDevServerStore(t)

	selected, err := store.Execute(context.Background(), "SELECT 1 AS one WHERE 0")
	require.NoError(t, err)

	rows := selected.(*devserver.Rows)
	assert.Equal(t, []string{"one"}, rows.Headers)
	assert.NotNil(t, rows.Rows)
	assert.Empty(t, rows.Rows)
}

func TestStore_ExecuteErrors(t *testing.T) {
	store := testhelper.NewDevServerStore(t)

	_, err := store.Execute(context.Background(), "   ")
	require.ErrorIs(t, err, devserver.ErrEmptyQuery)

	_, err = store.Execute(context.Background(), "SELECT * FROM missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}

func TestStore_ExecuteLeadingComments(t *testing.T) {
	store := testhelper.NewDevServerStore(t)
	ctx := context.Background()

	_, err := store.Execute(ctx, "CREATE TABLE people (name TEXT)")
	require.NoError(t, err)

	queries := map[string]string{
		"line comment":   "-- note\nSELECT 1 AS one",
		"block comment":  "/* totals */ SELECT 1 AS one",
		"mixed":          "-- a\n/* b */\n  values (1)",
		"returning line": "INSERT INTO people VALUES ('ada')\nRETURNING name",
	}

	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			got, err := store.Execute(ctx, query)
			require.NoError(t, err)
			require.IsType(t, &devserver.Rows{}, got)
			assert.Len(t, got.(*devserver.Rows).Rows, 1)
		})
	}
}
