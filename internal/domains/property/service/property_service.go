package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/property"
	"staybook-backend/internal/domains/user"
	"staybook-backend/pkg/cache"
)

const propertyCacheTTL = time.Hour

// propertyService implements property.Service. Listings flow through a
// manual admin check before they are servable; the cache only ever holds
// verified, available rows.
type propertyService struct {
	repo  property.Repository
	cache cache.Cache
	users property.HostFinder
}

func NewPropertyService(repo property.Repository, c cache.Cache, users property.HostFinder) property.Service {
	return &propertyService{repo: repo, cache: c, users: users}
}

// ========================================
// HOST-FACING
// ========================================

func (s *propertyService) Create(ctx context.Context, hostID uuid.UUID, req property.CreateRequest) (*property.PropertyDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Role is read from the live account, not the session: the session role
	// is a login-time snapshot and would still say guest right after a host
	// application is approved.
	caller, err := s.users.GetActive(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if caller.Role != user.RoleHost {
		return nil, property.ErrNotHost
	}

	now := time.Now()
	p := &property.Property{
		ID:            uuid.New(),
		HostID:        hostID,
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
		Verified:      false,
		Available:     true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidateAndRefresh(ctx, p)

	dto := p.ToDTO()
	return &dto, nil
}

func (s *propertyService) Update(ctx context.Context, hostID, propertyID uuid.UUID, req property.UpdateRequest) (*property.PropertyDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.ownedBy(ctx, hostID, propertyID)
	if err != nil {
		return nil, err
	}

	p.Name = req.Name
	p.Description = req.Description
	p.Location = req.Location
	p.PricePerNight = req.PricePerNight
	p.MaxGuests = req.MaxGuests
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidateAndRefresh(ctx, p)

	dto := p.ToDTO()
	return &dto, nil
}

func (s *propertyService) Delete(ctx context.Context, hostID, propertyID uuid.UUID) error {
	p, err := s.ownedBy(ctx, hostID, propertyID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, property.CacheKey(p.ID), property.CacheKeyAll); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate property cache after delete")
	}
	s.refreshSnapshot(ctx)
	return nil
}

func (s *propertyService) SetAvailability(ctx context.Context, hostID, propertyID uuid.UUID, available bool) error {
	p, err := s.ownedBy(ctx, hostID, propertyID)
	if err != nil {
		return err
	}

	if err := s.repo.SetAvailable(ctx, p.ID, available); err != nil {
		return err
	}

	p.Available = available
	s.invalidateAndRefresh(ctx, p)
	return nil
}

func (s *propertyService) ListMine(ctx context.Context, hostID uuid.UUID) ([]property.PropertyDTO, error) {
	properties, err := s.repo.ListByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	return toDTOs(properties), nil
}

// ========================================
// CACHE-BACKED READS
// ========================================

// GetEligible is the read-through lookup used by the booking flow. Only
// verified, available listings are served; stale cached entries are evicted.
func (s *propertyService) GetEligible(ctx context.Context, propertyID uuid.UUID) (*property.PropertyDTO, error) {
	var cached property.Property
	found, err := s.cache.Get(ctx, property.CacheKey(propertyID), &cached)
	if err != nil {
		log.Warn().Err(err).Msg("Property cache read failed, falling back to database")
	} else if found {
		if cached.IsEligible() {
			dto := cached.ToDTO()
			return &dto, nil
		}
		if err := s.cache.Delete(ctx, property.CacheKey(propertyID)); err != nil {
			log.Warn().Err(err).Msg("Failed to evict stale property cache entry")
		}
		return nil, property.ErrPropertyNotFound
	}

	p, err := s.repo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !p.IsEligible() {
		return nil, property.ErrPropertyNotFound
	}

	if err := s.cache.Set(ctx, property.CacheKey(p.ID), p, propertyCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to populate property cache")
	}

	dto := p.ToDTO()
	return &dto, nil
}

func (s *propertyService) ListEligible(ctx context.Context) ([]property.PropertyDTO, error) {
	var cached []property.Property
	found, err := s.cache.Get(ctx, property.CacheKeyAll, &cached)
	if err != nil {
		log.Warn().Err(err).Msg("Properties snapshot read failed, falling back to database")
	} else if found {
		return toDTOs(cached), nil
	}

	properties, err := s.repo.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, property.CacheKeyAll, properties, propertyCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to populate properties snapshot")
	}

	return toDTOs(properties), nil
}

// ========================================
// ADMIN
// ========================================

func (s *propertyService) ListUnverified(ctx context.Context) ([]property.PropertyDTO, error) {
	properties, err := s.repo.ListUnverified(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(properties), nil
}

func (s *propertyService) Verify(ctx context.Context, propertyID uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if p.Verified {
		return property.ErrAlreadyVerified
	}

	if err := s.repo.MarkVerified(ctx, p.ID); err != nil {
		return err
	}

	p.Verified = true
	s.invalidateAndRefresh(ctx, p)

	log.Info().Str("property_id", p.ID.String()).Msg("Property verified")
	return nil
}

// ========================================
// HELPERS
// ========================================

func (s *propertyService) ownedBy(ctx context.Context, hostID, propertyID uuid.UUID) (*property.Property, error) {
	p, err := s.repo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.HostID != hostID {
		return nil, property.ErrNotOwner
	}
	return p, nil
}

// invalidateAndRefresh runs after every committed write: drop both keys, then
// repopulate the instance key for eligible listings and rebuild the snapshot.
func (s *propertyService) invalidateAndRefresh(ctx context.Context, p *property.Property) {
	if err := s.cache.Delete(ctx, property.CacheKey(p.ID), property.CacheKeyAll); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate property cache")
	}

	if p.IsEligible() {
		if err := s.cache.Set(ctx, property.CacheKey(p.ID), p, propertyCacheTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to refresh property cache entry")
		}
	}

	s.refreshSnapshot(ctx)
}

func (s *propertyService) refreshSnapshot(ctx context.Context) {
	properties, err := s.repo.ListEligible(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to rebuild properties snapshot")
		return
	}
	if err := s.cache.Set(ctx, property.CacheKeyAll, properties, propertyCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to store properties snapshot")
	}
}

func toDTOs(properties []property.Property) []property.PropertyDTO {
	dtos := make([]property.PropertyDTO, 0, len(properties))
	for i := range properties {
		dtos = append(dtos, properties[i].ToDTO())
	}
	return dtos
}
