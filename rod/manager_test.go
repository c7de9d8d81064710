//go:build integration

package rod_test

import (
	"context"
	"testing"

	"github.com/fwojciec/pagecrawl"
	"github.com/fwojciec/pagecrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Acquire_ReplacesProcessAfterQuota(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(2))
	require.NoError(t, err)
	defer manager.Close()

	first, err := manager.Acquire(ctx)
	require.NoError(t, err)
	first.Release()
	second, err := manager.Acquire(ctx)
	require.NoError(t, err)
	second.Release()

	assert.Same(t, first.Browser, second.Browser)

	third, err := manager.Acquire(ctx)
	require.NoError(t, err)
	defer third.Release()

	assert.NotSame(t, first.Browser, third.Browser)
	assert.Equal(t, 1, manager.Recycled())
}

func TestBrowserManager_Close(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)
	require.NotZero(t, manager.LauncherPID())

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())

	_, err = manager.Acquire(ctx)
	assert.Equal(t, pagecrawl.EINVALID, pagecrawl.ErrorCode(err))
	assert.Zero(t, manager.LauncherPID())
}
