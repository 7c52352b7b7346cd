package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paste-content-service/internal/domain"
)

func newPopularityService(repo *fakePostRepo, ledger *fakeLedger, cache *fakeCache, pub *fakePublisher) *PopularityService {
	return NewPopularityService(repo, ledger, cache, pub, zap.NewNop(), 1000, time.Hour)
}

func TestPopularityService_Pass(t *testing.T) {
	repo := newFakePostRepo()
	ledger := newFakeLedger()
	cache := newFakeCache()
	pub := newFakePublisher()
	svc := newPopularityService(repo, ledger, cache, pub)

	repo.add(&domain.Post{ID: 1, Title: "viral", UserID: 7, ViewsCount: 1500})
	repo.add(&domain.Post{ID: 2, Title: "quiet", UserID: 7, ViewsCount: 10})

	ctx := context.Background()
	require.NoError(t, svc.Pass(ctx))

	ok, _ := cache.Exists(ctx, postCacheKey(1))
	assert.True(t, ok, "popular post should be primed into the cache")
	ok, _ = cache.Exists(ctx, postCacheKey(2))
	assert.False(t, ok, "post below threshold must not be cached")

	require.Equal(t, 1, pub.notificationCount())
	assert.Equal(t, domain.NotificationPopularPost, pub.notifications[0].Subject)
	assert.Equal(t, 7, pub.notifications[0].To)
}

func TestPopularityService_Pass_ThresholdIsInclusive(t *testing.T) {
	repo := newFakePostRepo()
	pub := newFakePublisher()
	svc := newPopularityService(repo, newFakeLedger(), newFakeCache(), pub)

	repo.add(&domain.Post{ID: 1, UserID: 7, ViewsCount: 1000})

	require.NoError(t, svc.Pass(context.Background()))
	assert.Equal(t, 1, pub.notificationCount())
}

func TestPopularityService_Pass_NotificationFiresOnce(t *testing.T) {
	repo := newFakePostRepo()
	ledger := newFakeLedger()
	pub := newFakePublisher()
	svc := newPopularityService(repo, ledger, newFakeCache(), pub)

	repo.add(&domain.Post{ID: 1, UserID: 7, ViewsCount: 1500})

	ctx := context.Background()
	require.NoError(t, svc.Pass(ctx))
	require.NoError(t, svc.Pass(ctx))
	require.NoError(t, svc.Pass(ctx))

	assert.Equal(t, 1, pub.notificationCount(), "repeat passes must not re-notify")
}

func TestPopularityService_Pass_LedgerInsertIsAuthoritative(t *testing.T) {
	repo := newFakePostRepo()
	ledger := newFakeLedger()
	pub := newFakePublisher()
	svc := newPopularityService(repo, ledger, newFakeCache(), pub)

	repo.add(&domain.Post{ID: 1, UserID: 7, ViewsCount: 1500})

	// A concurrent pass recorded the entry between our pre-filter load and
	// the insert. Seed the ledger directly to model that window.
	_, err := ledger.RecordFired(context.Background(), 1, domain.NotificationPopularPost, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, svc.Pass(context.Background()))
	assert.Zero(t, pub.notificationCount())
}

func TestPopularityService_Pass_ExistingCacheEntryKeepsTTL(t *testing.T) {
	repo := newFakePostRepo()
	cache := newFakeCache()
	svc := newPopularityService(repo, newFakeLedger(), cache, newFakePublisher())

	repo.add(&domain.Post{ID: 1, UserID: 7, ViewsCount: 1500})

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, postCacheKey(1), []byte("warm"), time.Hour))
	before := cache.setCalls

	require.NoError(t, svc.Pass(ctx))

	assert.Equal(t, before, cache.setCalls, "present entries are never rewritten")
	data, _ := cache.Get(ctx, postCacheKey(1))
	assert.Equal(t, []byte("warm"), data)
}
