package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook-backend/internal/domains/property"
	"staybook-backend/internal/domains/user"
	"staybook-backend/pkg/cache"
)

// ========================================
// FAKES
// ========================================

type fakePropertyRepo struct {
	properties map[uuid.UUID]*property.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{properties: make(map[uuid.UUID]*property.Property)}
}

func (r *fakePropertyRepo) Create(_ context.Context, p *property.Property) error {
	clone := *p
	r.properties[p.ID] = &clone
	return nil
}

func (r *fakePropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*property.Property, error) {
	p, ok := r.properties[id]
	if !ok {
		return nil, property.ErrPropertyNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakePropertyRepo) Update(_ context.Context, p *property.Property) error {
	if _, ok := r.properties[p.ID]; !ok {
		return property.ErrPropertyNotFound
	}
	clone := *p
	r.properties[p.ID] = &clone
	return nil
}

func (r *fakePropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.properties[id]; !ok {
		return property.ErrPropertyNotFound
	}
	delete(r.properties, id)
	return nil
}

func (r *fakePropertyRepo) SetAvailable(_ context.Context, id uuid.UUID, available bool) error {
	p, ok := r.properties[id]
	if !ok {
		return property.ErrPropertyNotFound
	}
	p.Available = available
	return nil
}

func (r *fakePropertyRepo) MarkVerified(_ context.Context, id uuid.UUID) error {
	p, ok := r.properties[id]
	if !ok {
		return property.ErrPropertyNotFound
	}
	p.Verified = true
	return nil
}

func (r *fakePropertyRepo) ListEligible(_ context.Context) ([]property.Property, error) {
	var out []property.Property
	for _, p := range r.properties {
		if p.IsEligible() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) ListByHost(_ context.Context, hostID uuid.UUID) ([]property.Property, error) {
	var out []property.Property
	for _, p := range r.properties {
		if p.HostID == hostID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) ListUnverified(_ context.Context) ([]property.Property, error) {
	var out []property.Property
	for _, p := range r.properties {
		if !p.Verified {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeHostFinder struct {
	users map[uuid.UUID]*user.UserDTO
}

func (f *fakeHostFinder) GetActive(_ context.Context, id uuid.UUID) (*user.UserDTO, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeHostFinder) add(role user.Role) uuid.UUID {
	id := uuid.New()
	f.users[id] = &user.UserDTO{ID: id, Role: role, Verified: true}
	return id
}

// ========================================
// SETUP
// ========================================

func newService() (property.Service, *fakePropertyRepo, *fakeHostFinder) {
	repo := newFakePropertyRepo()
	users := &fakeHostFinder{users: make(map[uuid.UUID]*user.UserDTO)}
	return NewPropertyService(repo, cache.NewMemoryCache(), users), repo, users
}

func createRequest() property.CreateRequest {
	return property.CreateRequest{
		Name:          "Lakeside Cabin",
		Description:   "Two-bedroom cabin right on the shoreline.",
		Location:      "Bahir Dar",
		PricePerNight: decimal.NewFromInt(120),
		MaxGuests:     4,
	}
}

// ========================================
// TESTS
// ========================================

func TestCreateRequiresHostRole(t *testing.T) {
	svc, repo, users := newService()
	ctx := context.Background()

	// A plain guest cannot list a property; promotion to host unlocks it.
	guestID := users.add(user.RoleGuest)
	_, err := svc.Create(ctx, guestID, createRequest())
	assert.ErrorIs(t, err, property.ErrNotHost)
	assert.Empty(t, repo.properties)

	// The role is read live, so the same session creates fine once the
	// account is promoted.
	users.users[guestID].Role = user.RoleHost
	dto, err := svc.Create(ctx, guestID, createRequest())
	require.NoError(t, err)
	assert.Equal(t, guestID, dto.HostID)

	// Unknown callers are rejected outright.
	_, err = svc.Create(ctx, uuid.New(), createRequest())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestCreateStartsUnverified(t *testing.T) {
	svc, _, users := newService()
	ctx := context.Background()

	dto, err := svc.Create(ctx, users.add(user.RoleHost), createRequest())
	require.NoError(t, err)
	assert.False(t, dto.Verified)
	assert.True(t, dto.Available)

	// Unverified listings are invisible to guests.
	_, err = svc.GetEligible(ctx, dto.ID)
	assert.ErrorIs(t, err, property.ErrPropertyNotFound)

	listed, err := svc.ListEligible(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestVerifyMakesEligible(t *testing.T) {
	svc, _, users := newService()
	ctx := context.Background()

	dto, err := svc.Create(ctx, users.add(user.RoleHost), createRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Verify(ctx, dto.ID))

	got, err := svc.GetEligible(ctx, dto.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)

	// Second verify hits the already-verified guard.
	err = svc.Verify(ctx, dto.ID)
	assert.ErrorIs(t, err, property.ErrAlreadyVerified)
}

func TestSetAvailabilityConvergesCache(t *testing.T) {
	svc, _, users := newService()
	ctx := context.Background()
	hostID := users.add(user.RoleHost)

	dto, err := svc.Create(ctx, hostID, createRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Verify(ctx, dto.ID))

	// Serve once so the instance key is populated.
	_, err = svc.GetEligible(ctx, dto.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SetAvailability(ctx, hostID, dto.ID, false))

	// Paused listing must not be served from a stale cache entry.
	_, err = svc.GetEligible(ctx, dto.ID)
	assert.ErrorIs(t, err, property.ErrPropertyNotFound)

	require.NoError(t, svc.SetAvailability(ctx, hostID, dto.ID, true))
	_, err = svc.GetEligible(ctx, dto.ID)
	assert.NoError(t, err)
}

func TestUpdateOwnerOnly(t *testing.T) {
	svc, _, users := newService()
	ctx := context.Background()
	hostID := users.add(user.RoleHost)

	dto, err := svc.Create(ctx, hostID, createRequest())
	require.NoError(t, err)

	req := property.UpdateRequest{
		Name:          "Lakeside Cabin Deluxe",
		Description:   "Two-bedroom cabin right on the shoreline.",
		Location:      "Bahir Dar",
		PricePerNight: decimal.NewFromInt(150),
		MaxGuests:     5,
	}

	_, err = svc.Update(ctx, uuid.New(), dto.ID, req)
	assert.ErrorIs(t, err, property.ErrNotOwner)

	updated, err := svc.Update(ctx, hostID, dto.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "150", updated.PricePerNight.String())
}

func TestDeleteOwnerOnly(t *testing.T) {
	svc, repo, users := newService()
	ctx := context.Background()
	hostID := users.add(user.RoleHost)

	dto, err := svc.Create(ctx, hostID, createRequest())
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), dto.ID)
	assert.ErrorIs(t, err, property.ErrNotOwner)

	require.NoError(t, svc.Delete(ctx, hostID, dto.ID))
	_, err = repo.FindByID(ctx, dto.ID)
	assert.ErrorIs(t, err, property.ErrPropertyNotFound)
}

func TestListMineIncludesAllStates(t *testing.T) {
	svc, _, users := newService()
	ctx := context.Background()
	hostID := users.add(user.RoleHost)

	first, err := svc.Create(ctx, hostID, createRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Verify(ctx, first.ID))

	second := createRequest()
	second.Name = "City Loft"
	_, err = svc.Create(ctx, hostID, second)
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, hostID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	// Guests only see the verified one.
	listed, err := svc.ListEligible(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
