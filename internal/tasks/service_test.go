package tasks_test

import (
	"context"
	"testing"
	"time"

	"github.com/Aidin1998/taskapi/internal/database"
	"github.com/Aidin1998/taskapi/internal/tasks"
	"github.com/Aidin1998/taskapi/pkg/errors"
	"github.com/Aidin1998/taskapi/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*tasks.Service, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	db := testutil.NewTestDB(t, database.WithNowFunc(clock.Now))
	svc, err := tasks.NewService(zap.NewNop(), db)
	require.NoError(t, err)
	return svc, clock
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestNewService_NilDB(t *testing.T) {
	_, err := tasks.NewService(zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, tasks.CreateInput{Title: "Learn X", Description: strPtr("docs")})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.Completed)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Learn X", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "docs", *got.Description)
	assert.False(t, got.Completed)
}

func TestList_NewestFirst(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	var ids []uint
	for _, title := range []string{"T1", "T2", "T3"} {
		task, err := svc.Create(ctx, tasks.CreateInput{Title: title})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"T3", "T2", "T1"}, []string{list[0].Title, list[1].Title, list[2].Title})
	assert.Equal(t, ids[2], list[0].ID)
}

func TestList_SameTimestampFallsBackToID(t *testing.T) {
	svc, clock := newService(t)
	clock.Step = 0
	ctx := context.Background()

	for _, title := range []string{"A", "B"} {
		_, err := svc.Create(ctx, tasks.CreateInput{Title: title})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Title)
}

func TestUpdate_MergesSuppliedFields(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, tasks.CreateInput{Title: "Write docs", Description: strPtr("README")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, tasks.UpdateInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Write docs", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "README", *updated.Description)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
}

func TestUpdate_ClearsDescription(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, tasks.CreateInput{Title: "t", Description: strPtr("d")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, tasks.UpdateInput{SetDescription: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Description)
}

func TestUpdate_CanUncomplete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, tasks.CreateInput{Title: "t", Completed: true})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, tasks.UpdateInput{Completed: boolPtr(false)})
	require.NoError(t, err)

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
}

func TestMissingTask_NotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, 999)
	assert.True(t, errors.Is(err, errors.NotFound))

	_, err = svc.Update(ctx, 999, tasks.UpdateInput{Title: strPtr("x")})
	assert.True(t, errors.Is(err, errors.NotFound))

	err = svc.Delete(ctx, 999)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestDelete_NoResurrectionAndNoIDReuse(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, tasks.CreateInput{Title: "gone"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, first.ID))

	_, err = svc.Get(ctx, first.ID)
	assert.True(t, errors.Is(err, errors.NotFound))

	_, err = svc.Update(ctx, first.ID, tasks.UpdateInput{Completed: boolPtr(true)})
	assert.True(t, errors.Is(err, errors.NotFound))

	second, err := svc.Create(ctx, tasks.CreateInput{Title: "next"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestPing(t *testing.T) {
	svc, _ := newService(t)
	assert.NoError(t, svc.Ping(context.Background()))
}
