package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore подключается к базе из TEST_DATABASE_URL; без неё тесты
// пропускаются.
func testStore(t *testing.T) Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, EnsureSchema(context.Background(), db))
	return NewRepo(db)
}

func testReport(t *testing.T) *Report {
	t.Helper()
	chatID := -int64(time.Now().UnixNano())
	return &Report{
		ReportID:        ID(chatID, 1),
		OriginChatID:    chatID,
		OriginMessageID: 1,
		AuthorID:        100,
		AuthorUsername:  "tester",
		AuthorFirstName: "Аня",
		Tag:             "#BUG",
		Content:         "кнопка не работает",
		Status:          StatusNew,
	}
}

func TestAddIsIdempotent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	rep := testReport(t)

	created, err := store.Add(ctx, rep)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Positive(t, rep.NumericID)

	dup := *rep
	created, err = store.Add(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := testStore(t)

	rep, err := store.Get(context.Background(), "0_0")
	require.NoError(t, err)
	assert.Nil(t, rep)
}

func TestUpdateStatus(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	rep := testReport(t)

	_, err := store.Add(ctx, rep)
	require.NoError(t, err)

	adminMsg := int64(500)
	adminChat := int64(-200)
	ok, err := store.UpdateStatus(ctx, rep.ReportID, StatusInProgress, &adminMsg, &adminChat)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := store.Get(ctx, rep.ReportID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StatusInProgress, got.Status)
	assert.Equal(t, rep.NumericID, got.NumericID)
	require.NotNil(t, got.AdminMessageID)
	assert.Equal(t, adminMsg, *got.AdminMessageID)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	// nil admin ids keep the stored values
	ok, err = store.UpdateStatus(ctx, rep.ReportID, StatusResolved, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)

	got, err = store.Get(ctx, rep.ReportID)
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, got.Status)
	require.NotNil(t, got.AdminMessageID)
	assert.Equal(t, adminMsg, *got.AdminMessageID)

	ok, err = store.UpdateStatus(ctx, "0_0", StatusResolved, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListAndCountFilters(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	tag := fmt.Sprintf("#BUG%d", time.Now().UnixNano())
	for i := 0; i < 3; i++ {
		rep := testReport(t)
		rep.ReportID = ID(rep.OriginChatID, i+1)
		rep.OriginMessageID = i + 1
		rep.Tag = tag
		_, err := store.Add(ctx, rep)
		require.NoError(t, err)
	}

	count, err := store.Count(ctx, Filter{Tag: tag})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	reports, err := store.List(ctx, Filter{Tag: tag, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	count, err = store.Count(ctx, Filter{Tag: tag, Status: StatusResolved})
	require.NoError(t, err)
	assert.Zero(t, count)
}
