package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"paste-content-service/internal/domain"
)

// In-memory fakes for the domain ports. Only the behavior the services rely
// on is modeled; everything else is a straight map lookup.

type fakePostRepo struct {
	mu     sync.Mutex
	nextID int
	posts  map[int]*domain.Post

	incrementCalls int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{nextID: 1, posts: map[int]*domain.Post{}}
}

func (r *fakePostRepo) add(p *domain.Post) *domain.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	} else if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	cp := *p
	r.posts[p.ID] = &cp
	return p
}

func (r *fakePostRepo) get(id int) *domain.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	r.add(post)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id int) (*domain.Post, error) {
	p := r.get(id)
	if p == nil || p.IsDeleted {
		return nil, nil
	}
	return p, nil
}

func (r *fakePostRepo) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == slug && !p.IsDeleted {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) GetByHash(_ context.Context, hash string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Hash == hash && !p.IsDeleted {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) GetDeletedByID(_ context.Context, id int) (*domain.Post, error) {
	p := r.get(id)
	if p == nil || !p.IsDeleted {
		return nil, nil
	}
	return p, nil
}

func (r *fakePostRepo) listWhere(keep func(*domain.Post) bool) []*domain.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Post
	for _, p := range r.posts {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakePostRepo) ListByUser(_ context.Context, userID int) ([]*domain.Post, error) {
	return r.listWhere(func(p *domain.Post) bool { return p.UserID == userID && !p.IsDeleted }), nil
}

func (r *fakePostRepo) ListDeletedByUser(_ context.Context, userID int) ([]*domain.Post, error) {
	return r.listWhere(func(p *domain.Post) bool { return p.UserID == userID && p.IsDeleted }), nil
}

func (r *fakePostRepo) ListAllByUser(_ context.Context, userID int) ([]*domain.Post, error) {
	return r.listWhere(func(p *domain.Post) bool { return p.UserID == userID }), nil
}

func (r *fakePostRepo) ListActive(_ context.Context) ([]*domain.Post, error) {
	return r.listWhere(func(p *domain.Post) bool { return !p.IsDeleted }), nil
}

func (r *fakePostRepo) Update(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) IncrementViews(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.IsDeleted {
		return domain.ErrNotFound
	}
	p.ViewsCount++
	r.incrementCalls++
	return nil
}

func (r *fakePostRepo) IncrementLikes(_ context.Context, id, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.LikesCount += delta
	return nil
}

func (r *fakePostRepo) FindExpired(_ context.Context, now time.Time) ([]*domain.Post, error) {
	return r.listWhere(func(p *domain.Post) bool { return !p.IsDeleted && p.IsExpired(now) }), nil
}

func (r *fakePostRepo) SoftDelete(_ context.Context, id int, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.IsDeleted {
		return nil
	}
	p.IsDeleted = true
	t := now
	p.DeletedAt = &t
	return nil
}

func (r *fakePostRepo) FindDeletedBefore(_ context.Context, cutoff time.Time) ([]*domain.Post, error) {
	return r.listWhere(func(p *domain.Post) bool {
		return p.IsDeleted && p.DeletedAt != nil && !p.DeletedAt.After(cutoff)
	}), nil
}

func (r *fakePostRepo) Purge(_ context.Context, ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.posts, id)
	}
	return nil
}

func (r *fakePostRepo) FindPopular(_ context.Context, minViews int) ([]*domain.Post, error) {
	return r.listWhere(func(p *domain.Post) bool { return !p.IsDeleted && p.ViewsCount >= minViews }), nil
}

func (r *fakePostRepo) MaxViews(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, p := range r.posts {
		if !p.IsDeleted && p.ViewsCount > max {
			max = p.ViewsCount
		}
	}
	return max, nil
}

func (r *fakePostRepo) UpdateRatings(_ context.Context, ratings map[int]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rating := range ratings {
		if p, ok := r.posts[id]; ok {
			p.Rating = rating
		}
	}
	return nil
}

func (r *fakePostRepo) Counts(_ context.Context) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active, deleted int64
	for _, p := range r.posts {
		if p.IsDeleted {
			deleted++
		} else {
			active++
		}
	}
	return active, deleted, nil
}

type likeKey struct{ postID, userID int }

type fakeLikeRepo struct {
	mu    sync.Mutex
	likes map[likeKey]struct{}
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[likeKey]struct{}{}}
}

func (r *fakeLikeRepo) Add(_ context.Context, postID, userID int, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{postID, userID}
	if _, ok := r.likes[k]; ok {
		return domain.ErrAlreadyLiked
	}
	r.likes[k] = struct{}{}
	return nil
}

func (r *fakeLikeRepo) Remove(_ context.Context, postID, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{postID, userID}
	if _, ok := r.likes[k]; !ok {
		return domain.ErrLikeNotFound
	}
	delete(r.likes, k)
	return nil
}

func (r *fakeLikeRepo) CountByPost(_ context.Context, postID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.likes {
		if k.postID == postID {
			n++
		}
	}
	return n, nil
}

func (r *fakeLikeRepo) MaxLikes(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[int]int{}
	max := 0
	for k := range r.likes {
		counts[k.postID]++
		if counts[k.postID] > max {
			max = counts[k.postID]
		}
	}
	return max, nil
}

func (r *fakeLikeRepo) PostIDsByUser(_ context.Context, userID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int
	for k := range r.likes {
		if k.userID == userID {
			ids = append(ids, k.postID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	nextID  int
	reviews map[int]*domain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{nextID: 1, reviews: map[int]*domain.Review{}}
}

func (r *fakeReviewRepo) Add(_ context.Context, review *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = r.nextID
	r.nextID++
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) ListByPost(_ context.Context, postID int) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for _, rv := range r.reviews {
		if rv.PostID == postID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, reviewID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reviews, reviewID)
	return nil
}

func (r *fakeReviewRepo) AverageGrade(_ context.Context, postID int) (float64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum, n := 0, 0
	for _, rv := range r.reviews {
		if rv.PostID == postID {
			sum += rv.Grade
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(n), true, nil
}

type ledgerKey struct {
	postID int
	typ    domain.NotificationType
}

type fakeLedger struct {
	mu      sync.Mutex
	entries map[ledgerKey]time.Time
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: map[ledgerKey]time.Time{}}
}

func (l *fakeLedger) HasFired(_ context.Context, postID int, t domain.NotificationType) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[ledgerKey{postID, t}]
	return ok, nil
}

func (l *fakeLedger) RecordFired(_ context.Context, postID int, t domain.NotificationType, when time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := ledgerKey{postID, t}
	if _, ok := l.entries[k]; ok {
		return false, nil
	}
	l.entries[k] = when
	return true, nil
}

func (l *fakeLedger) FiredPostIDs(_ context.Context, t domain.NotificationType) (map[int]struct{}, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := map[int]struct{}{}
	for k := range l.entries {
		if k.typ == t {
			out[k.postID] = struct{}{}
		}
	}
	return out, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte

	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.setCalls++
	return nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

type visitKey struct {
	visitor string
	postID  int
}

type fakeViewLedger struct {
	mu   sync.Mutex
	seen map[visitKey]struct{}
}

func newFakeViewLedger() *fakeViewLedger {
	return &fakeViewLedger{seen: map[visitKey]struct{}{}}
}

func (l *fakeViewLedger) Seen(_ context.Context, visitorID string, postID int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[visitKey{visitorID, postID}]
	return ok, nil
}

func (l *fakeViewLedger) MarkCounted(_ context.Context, visitorID string, postID int, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[visitKey{visitorID, postID}] = struct{}{}
	return nil
}

type fakePublisher struct {
	mu            sync.Mutex
	notifications []domain.EmailNotification
	indexed       []domain.PostIndex
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{}
}

func (p *fakePublisher) PublishNotification(_ context.Context, n domain.EmailNotification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, n)
	return nil
}

func (p *fakePublisher) PublishIndex(_ context.Context, idx domain.PostIndex) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexed = append(p.indexed, idx)
	return nil
}

func (p *fakePublisher) notificationCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.notifications)
}

type fakeHashClient struct {
	mu       sync.Mutex
	hashes   map[int]string
	deleted  map[int]bool
	restored [][]int
}

func newFakeHashClient() *fakeHashClient {
	return &fakeHashClient{hashes: map[int]string{}, deleted: map[int]bool{}}
}

func (c *fakeHashClient) GenerateHash(_ context.Context, postID int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := "h" + string(rune('0'+postID%10)) + "x"
	c.hashes[postID] = h
	return h, nil
}

func (c *fakeHashClient) PostIDByHash(_ context.Context, hash string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, h := range c.hashes {
		if h == hash {
			return id, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (c *fakeHashClient) DeleteHash(_ context.Context, postID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted[postID] = true
	return nil
}

func (c *fakeHashClient) RestoreHashes(_ context.Context, postIDs []int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range postIDs {
		c.deleted[id] = false
	}
	c.restored = append(c.restored, postIDs)
	return nil
}

// Compile-time checks that the fakes satisfy the ports.
var (
	_ domain.PostRepository     = (*fakePostRepo)(nil)
	_ domain.LikeRepository     = (*fakeLikeRepo)(nil)
	_ domain.ReviewRepository   = (*fakeReviewRepo)(nil)
	_ domain.NotificationLedger = (*fakeLedger)(nil)
	_ domain.Cache              = (*fakeCache)(nil)
	_ domain.ViewLedger         = (*fakeViewLedger)(nil)
	_ domain.Publisher          = (*fakePublisher)(nil)
	_ domain.HashClient         = (*fakeHashClient)(nil)
)
