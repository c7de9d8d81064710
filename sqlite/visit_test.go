package sqlite_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ pagecrawl.VisitService = (*sqlite.VisitService)(nil)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createRun(t *testing.T, svc *sqlite.VisitService) *pagecrawl.Run {
	t.Helper()

	run := &pagecrawl.Run{BaseURL: "https://example.com"}
	require.NoError(t, svc.CreateRun(context.Background(), run))
	return run
}

func TestVisitService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID and start time", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewVisitService(openDB(t))
		run := createRun(t, svc)

		assert.NotEmpty(t, run.ID)
		assert.False(t, run.StartedAt.IsZero())

		found, err := svc.FindRunByID(context.Background(), run.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", found.BaseURL)
		assert.True(t, found.FinishedAt.IsZero())
	})

	t.Run("validates run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewVisitService(openDB(t))
		err := svc.CreateRun(context.Background(), &pagecrawl.Run{})

		require.Error(t, err)
		assert.Equal(t, pagecrawl.EINVALID, pagecrawl.ErrorCode(err))
	})
}

func TestVisitService_FinishRun(t *testing.T) {
	t.Parallel()

	t.Run("stores final counters", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewVisitService(openDB(t))
		run := createRun(t, svc)

		run.Saved, run.Empty, run.Failed = 10, 2, 1
		run.FinishedAt = time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
		require.NoError(t, svc.FinishRun(context.Background(), run))

		found, err := svc.FindRunByID(context.Background(), run.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, found.Saved)
		assert.Equal(t, 2, found.Empty)
		assert.Equal(t, 1, found.Failed)
		assert.Equal(t, run.FinishedAt, found.FinishedAt)
	})

	t.Run("returns not found for unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewVisitService(openDB(t))
		err := svc.FinishRun(context.Background(), &pagecrawl.Run{ID: "missing", BaseURL: "https://example.com"})

		require.Error(t, err)
		assert.Equal(t, pagecrawl.ENOTFOUND, pagecrawl.ErrorCode(err))
	})
}

func TestVisitService_FindRunByID_NotFound(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewVisitService(openDB(t))
	_, err := svc.FindRunByID(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, pagecrawl.ENOTFOUND, pagecrawl.ErrorCode(err))
}

func TestVisitService_RecordVisit(t *testing.T) {
	t.Parallel()

	t.Run("stores visits in recording order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewVisitService(openDB(t))
		run := createRun(t, svc)
		ctx := context.Background()

		require.NoError(t, svc.RecordVisit(ctx, &pagecrawl.Visit{
			RunID:       run.ID,
			URL:         "https://example.com/",
			Path:        "out/index.md",
			ContentHash: "abc123",
			Status:      pagecrawl.VisitSaved,
			Attempts:    1,
		}))
		require.NoError(t, svc.RecordVisit(ctx, &pagecrawl.Visit{
			RunID:    run.ID,
			URL:      "https://example.com/broken",
			Depth:    1,
			Status:   pagecrawl.VisitFailed,
			Attempts: 5,
			Error:    "navigating to https://example.com/broken: timeout",
		}))

		visits, err := svc.FindVisits(ctx, run.ID)

		require.NoError(t, err)
		require.Len(t, visits, 2)

		assert.NotEmpty(t, visits[0].ID)
		assert.Equal(t, "https://example.com/", visits[0].URL)
		assert.Equal(t, "out/index.md", visits[0].Path)
		assert.Equal(t, "abc123", visits[0].ContentHash)
		assert.Equal(t, pagecrawl.VisitSaved, visits[0].Status)
		assert.False(t, visits[0].VisitedAt.IsZero())

		assert.Equal(t, 1, visits[1].Depth)
		assert.Equal(t, pagecrawl.VisitFailed, visits[1].Status)
		assert.Equal(t, 5, visits[1].Attempts)
		assert.Contains(t, visits[1].Error, "timeout")
	})

	t.Run("scopes visits to their run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewVisitService(openDB(t))
		first := createRun(t, svc)
		second := createRun(t, svc)
		ctx := context.Background()

		require.NoError(t, svc.RecordVisit(ctx, &pagecrawl.Visit{RunID: first.ID, URL: "https://example.com/a", Status: pagecrawl.VisitEmpty}))

		visits, err := svc.FindVisits(ctx, second.ID)
		require.NoError(t, err)
		assert.Empty(t, visits)
	})

	t.Run("returns not found for unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewVisitService(openDB(t))
		err := svc.RecordVisit(context.Background(), &pagecrawl.Visit{
			RunID:  "missing",
			URL:    "https://example.com/",
			Status: pagecrawl.VisitSaved,
		})

		require.Error(t, err)
		assert.Equal(t, pagecrawl.ENOTFOUND, pagecrawl.ErrorCode(err))
	})

	t.Run("validates visit", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewVisitService(openDB(t))
		run := createRun(t, svc)

		err := svc.RecordVisit(context.Background(), &pagecrawl.Visit{RunID: run.ID, URL: "https://example.com/", Status: "bogus"})

		require.Error(t, err)
		assert.Equal(t, pagecrawl.EINVALID, pagecrawl.ErrorCode(err))
	})

	t.Run("accepts concurrent writers", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewVisitService(openDB(t))
		run := createRun(t, svc)

		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- svc.RecordVisit(context.Background(), &pagecrawl.Visit{
					RunID:  run.ID,
					URL:    fmt.Sprintf("https://example.com/page%d", i),
					Status: pagecrawl.VisitSaved,
				})
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		visits, err := svc.FindVisits(context.Background(), run.ID)
		require.NoError(t, err)
		assert.Len(t, visits, 20)
	})
}
