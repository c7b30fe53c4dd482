package dbbadger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/swapgate-network/swapgate-daemon/internal/core/domain"
)

const testDbDir = "testdb"

func newTestRepository(t *testing.T, dir string) domain.TradeViewRepository {
	dbManager, err := NewDbManager(dir, nil)
	require.NoError(t, err)
	return NewTradeViewRepositoryImpl(dbManager)
}

func TestTradeViewRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, "")
	defer repo.Close()

	expiresAt := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	views := []domain.TradeView{
		{ID: "a", Status: "waiting", UpdatedAt: 1, ExpiresAt: &expiresAt},
		{ID: "b", Status: "confirming", UpdatedAt: 3},
		{ID: "c", Status: "finished", UpdatedAt: 2},
	}
	for _, v := range views {
		require.NoError(t, repo.AddOrUpdateTradeView(ctx, v))
	}

	err := repo.AddOrUpdateTradeView(ctx, domain.TradeView{})
	require.ErrorIs(t, err, ErrMissingTradeViewID)

	view, err := repo.GetTradeView(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "waiting", view.Status)
	require.NotNil(t, view.ExpiresAt)
	require.True(t, expiresAt.Equal(*view.ExpiresAt))

	_, err = repo.GetTradeView(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrTradeViewNotFound)

	all, err := repo.GetAllTradeViews(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "b", all[0].ID)
	require.Equal(t, "c", all[1].ID)
	require.Equal(t, "a", all[2].ID)

	// Views are replaced wholesale.
	require.NoError(t, repo.AddOrUpdateTradeView(ctx, domain.TradeView{
		ID: "a", Status: "sending", UpdatedAt: 4,
	}))
	view, err = repo.GetTradeView(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "sending", view.Status)
	require.Nil(t, view.ExpiresAt)

	require.NoError(t, repo.DeleteTradeView(ctx, "a"))
	require.NoError(t, repo.DeleteTradeView(ctx, "a"))
	all, err = repo.GetAllTradeViews(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestTradeViewRepositoryOnDisk(t *testing.T) {
	ctx := context.Background()
	defer os.RemoveAll(testDbDir)

	repo := newTestRepository(t, testDbDir)
	require.NoError(t, repo.AddOrUpdateTradeView(ctx, domain.TradeView{
		ID: "a", Status: "waiting", UpdatedAt: 1,
	}))
	repo.Close()

	repo = newTestRepository(t, testDbDir)
	defer repo.Close()

	view, err := repo.GetTradeView(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "waiting", view.Status)
}
