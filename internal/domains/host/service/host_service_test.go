package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook-backend/internal/domains/host"
	"staybook-backend/internal/domains/user"
	"staybook-backend/pkg/cache"
)

// ========================================
// FAKES
// ========================================

type fakeHostRepo struct {
	hosts map[uuid.UUID]*host.Host
}

func newFakeHostRepo() *fakeHostRepo {
	return &fakeHostRepo{hosts: make(map[uuid.UUID]*host.Host)}
}

func (r *fakeHostRepo) Create(_ context.Context, h *host.Host) error {
	for _, existing := range r.hosts {
		if existing.UserID == h.UserID {
			return host.ErrAlreadyApplied
		}
		if existing.SocialLink == h.SocialLink {
			return host.ErrSocialLinkTaken
		}
	}
	clone := *h
	r.hosts[h.ID] = &clone
	return nil
}

func (r *fakeHostRepo) FindByID(_ context.Context, id uuid.UUID) (*host.Host, error) {
	h, ok := r.hosts[id]
	if !ok {
		return nil, host.ErrHostNotFound
	}
	clone := *h
	return &clone, nil
}

func (r *fakeHostRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*host.Host, error) {
	for _, h := range r.hosts {
		if h.UserID == userID {
			clone := *h
			return &clone, nil
		}
	}
	return nil, host.ErrHostNotFound
}

func (r *fakeHostRepo) Update(_ context.Context, h *host.Host) error {
	if _, ok := r.hosts[h.ID]; !ok {
		return host.ErrHostNotFound
	}
	clone := *h
	r.hosts[h.ID] = &clone
	return nil
}

func (r *fakeHostRepo) UpdatePhotoURL(_ context.Context, id uuid.UUID, url string) error {
	h, ok := r.hosts[id]
	if !ok {
		return host.ErrHostNotFound
	}
	h.ProfilePhotoURL = url
	return nil
}

func (r *fakeHostRepo) SetStatus(_ context.Context, id uuid.UUID, status host.VerificationStatus) error {
	h, ok := r.hosts[id]
	if !ok {
		return host.ErrHostNotFound
	}
	h.VerificationStatus = status
	return nil
}

func (r *fakeHostRepo) ListVerified(_ context.Context) ([]host.Host, error) {
	return r.listByStatus(host.StatusVerified), nil
}

func (r *fakeHostRepo) ListByStatus(_ context.Context, status host.VerificationStatus) ([]host.Host, error) {
	return r.listByStatus(status), nil
}

func (r *fakeHostRepo) listByStatus(status host.VerificationStatus) []host.Host {
	var out []host.Host
	for _, h := range r.hosts {
		if h.VerificationStatus == status {
			out = append(out, *h)
		}
	}
	return out
}

type fakeRoleUpdater struct {
	roles map[uuid.UUID]user.Role
}

func (r *fakeRoleUpdater) UpdateRole(_ context.Context, id uuid.UUID, role user.Role) error {
	r.roles[id] = role
	return nil
}

type fakePhotoStore struct {
	uploads map[string][]byte
}

func (s *fakePhotoStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.uploads[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (s *fakePhotoStore) Delete(_ context.Context, key string) error {
	delete(s.uploads, key)
	return nil
}

// ========================================
// SETUP
// ========================================

type fixture struct {
	svc    host.Service
	repo   *fakeHostRepo
	users  *fakeRoleUpdater
	cache  cache.Cache
	photos *fakePhotoStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:   newFakeHostRepo(),
		users:  &fakeRoleUpdater{roles: make(map[uuid.UUID]user.Role)},
		cache:  cache.NewMemoryCache(),
		photos: &fakePhotoStore{uploads: make(map[string][]byte)},
	}
	f.svc = NewHostService(f.repo, f.users, f.cache, f.photos)
	return f
}

func applyRequest() host.ApplyRequest {
	return host.ApplyRequest{
		Bio:              "Longtime host around the lakes region.",
		Address:          "12 Shoreline Road, Bahir Dar",
		IdentityDocument: "ID-884213",
		SocialLink:       "https://instagram.com/lakesidehost",
	}
}

// ========================================
// TESTS
// ========================================

func TestApplyStartsPending(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Apply(context.Background(), uuid.New(), applyRequest())
	require.NoError(t, err)
	assert.Equal(t, host.StatusPending, dto.VerificationStatus)

	// Pending profiles are invisible through the verified lookup.
	_, err = f.svc.GetVerified(context.Background(), dto.UserID)
	assert.ErrorIs(t, err, host.ErrHostNotFound)
}

func TestApplyTwiceRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := f.svc.Apply(ctx, userID, applyRequest())
	require.NoError(t, err)

	req := applyRequest()
	req.SocialLink = "https://instagram.com/otherhandle"
	_, err = f.svc.Apply(ctx, userID, req)
	assert.ErrorIs(t, err, host.ErrAlreadyApplied)
}

func TestReviewApprovalPromotesUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	dto, err := f.svc.Apply(ctx, userID, applyRequest())
	require.NoError(t, err)

	// Seed the user cache keys so the promotion has something to evict.
	require.NoError(t, f.cache.Set(ctx, user.CacheKey(userID), struct{}{}, time.Hour))
	require.NoError(t, f.cache.Set(ctx, user.CacheKeyAll, []struct{}{}, time.Hour))

	require.NoError(t, f.svc.Review(ctx, dto.ID, host.ReviewRequest{Approve: true}))

	assert.Equal(t, user.RoleHost, f.users.roles[userID])

	// Stale role must not be served from the user cache.
	exists, err := f.cache.Exists(ctx, user.CacheKey(userID))
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = f.cache.Exists(ctx, user.CacheKeyAll)
	require.NoError(t, err)
	assert.False(t, exists)

	// Verified profile is now served.
	got, err := f.svc.GetVerified(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, host.StatusVerified, got.VerificationStatus)
}

func TestReviewRejectionLeavesRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	dto, err := f.svc.Apply(ctx, userID, applyRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Review(ctx, dto.ID, host.ReviewRequest{Approve: false, Reason: "document unreadable"}))

	_, promoted := f.users.roles[userID]
	assert.False(t, promoted)

	_, err = f.svc.GetVerified(ctx, userID)
	assert.ErrorIs(t, err, host.ErrHostNotFound)
}

func TestReviewIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Apply(ctx, uuid.New(), applyRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Review(ctx, dto.ID, host.ReviewRequest{Approve: true}))

	err = f.svc.Review(ctx, dto.ID, host.ReviewRequest{Approve: false})
	assert.ErrorIs(t, err, host.ErrAlreadyReviewed)
}

func TestUploadProfilePhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := f.svc.Apply(ctx, userID, applyRequest())
	require.NoError(t, err)

	url, err := f.svc.UploadProfilePhoto(ctx, userID, "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Contains(t, url, "hosts/"+userID.String()+"/profile.png")

	got, err := f.svc.GetMyProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, url, got.ProfilePhotoURL)
}

func TestUploadProfilePhotoRejectsUnsupportedType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := f.svc.Apply(ctx, userID, applyRequest())
	require.NoError(t, err)

	_, err = f.svc.UploadProfilePhoto(ctx, userID, "application/pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, host.ErrPhotoUploadUnsupported)
}
