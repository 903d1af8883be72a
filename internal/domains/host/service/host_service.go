package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"staybook-backend/internal/domains/host"
	"staybook-backend/internal/domains/user"
	"staybook-backend/pkg/cache"
)

const hostCacheTTL = time.Hour

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// hostService implements host.Service. Verification is a manual admin
// review; approval also promotes the owning account to the host role, which
// makes the user cache keys part of this domain's invalidation set.
type hostService struct {
	repo   host.Repository
	users  host.RoleUpdater
	cache  cache.Cache
	photos host.PhotoStore
}

func NewHostService(repo host.Repository, users host.RoleUpdater, c cache.Cache, photos host.PhotoStore) host.Service {
	return &hostService{repo: repo, users: users, cache: c, photos: photos}
}

// ========================================
// APPLICATION LIFECYCLE
// ========================================

func (s *hostService) Apply(ctx context.Context, userID uuid.UUID, req host.ApplyRequest) (*host.HostDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	h := &host.Host{
		ID:                 uuid.New(),
		UserID:             userID,
		Bio:                req.Bio,
		Address:            req.Address,
		IdentityDocument:   req.IdentityDocument,
		SocialLink:         req.SocialLink,
		VerificationStatus: host.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}

	// Pending profiles are not eligible; refresh only drops stale keys here.
	s.invalidateAndRefresh(ctx, h)

	dto := h.ToDTO()
	return &dto, nil
}

func (s *hostService) GetMyProfile(ctx context.Context, userID uuid.UUID) (*host.HostDTO, error) {
	h, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := h.ToDTO()
	return &dto, nil
}

func (s *hostService) UpdateProfile(ctx context.Context, userID uuid.UUID, req host.UpdateRequest) (*host.HostDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	h, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	h.Bio = req.Bio
	h.Address = req.Address
	h.SocialLink = req.SocialLink
	h.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}

	s.invalidateAndRefresh(ctx, h)

	dto := h.ToDTO()
	return &dto, nil
}

func (s *hostService) UploadProfilePhoto(ctx context.Context, userID uuid.UUID, contentType string, photo []byte) (string, error) {
	ext, ok := allowedPhotoTypes[contentType]
	if !ok {
		return "", host.ErrPhotoUploadUnsupported
	}

	h, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("hosts/%s/profile%s", userID, ext)
	url, err := s.photos.Upload(ctx, key, photo, contentType)
	if err != nil {
		return "", fmt.Errorf("upload profile photo: %w", err)
	}

	if err := s.repo.UpdatePhotoURL(ctx, h.ID, url); err != nil {
		return "", err
	}

	h.ProfilePhotoURL = url
	s.invalidateAndRefresh(ctx, h)
	return url, nil
}

// ========================================
// CACHE-BACKED READS
// ========================================

// GetVerified is the read-through lookup keyed by the owning user id. Only
// verified profiles are served; stale cached entries are evicted on read.
func (s *hostService) GetVerified(ctx context.Context, userID uuid.UUID) (*host.HostDTO, error) {
	var cached host.Host
	found, err := s.cache.Get(ctx, host.CacheKey(userID), &cached)
	if err != nil {
		log.Warn().Err(err).Msg("Host cache read failed, falling back to database")
	} else if found {
		if cached.IsEligible() {
			dto := cached.ToDTO()
			return &dto, nil
		}
		if err := s.cache.Delete(ctx, host.CacheKey(userID)); err != nil {
			log.Warn().Err(err).Msg("Failed to evict stale host cache entry")
		}
		return nil, host.ErrHostNotFound
	}

	h, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !h.IsEligible() {
		return nil, host.ErrHostNotFound
	}

	if err := s.cache.Set(ctx, host.CacheKey(userID), h, hostCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to populate host cache")
	}

	dto := h.ToDTO()
	return &dto, nil
}

func (s *hostService) ListVerified(ctx context.Context) ([]host.HostDTO, error) {
	var cached []host.Host
	found, err := s.cache.Get(ctx, host.CacheKeyAll, &cached)
	if err != nil {
		log.Warn().Err(err).Msg("Hosts snapshot read failed, falling back to database")
	} else if found {
		return toDTOs(cached), nil
	}

	hosts, err := s.repo.ListVerified(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, host.CacheKeyAll, hosts, hostCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to populate hosts snapshot")
	}

	return toDTOs(hosts), nil
}

// ========================================
// ADMIN REVIEW
// ========================================

func (s *hostService) ListPending(ctx context.Context) ([]host.HostDTO, error) {
	hosts, err := s.repo.ListByStatus(ctx, host.StatusPending)
	if err != nil {
		return nil, err
	}
	return toDTOs(hosts), nil
}

// Review records the outcome of a pending application. Approval promotes the
// owner to the host role; either way the decision is final.
func (s *hostService) Review(ctx context.Context, hostID uuid.UUID, req host.ReviewRequest) error {
	h, err := s.repo.FindByID(ctx, hostID)
	if err != nil {
		return err
	}
	if h.VerificationStatus != host.StatusPending {
		return host.ErrAlreadyReviewed
	}

	status := host.StatusRejected
	if req.Approve {
		status = host.StatusVerified
	}

	if err := s.repo.SetStatus(ctx, h.ID, status); err != nil {
		return err
	}
	h.VerificationStatus = status

	if req.Approve {
		if err := s.users.UpdateRole(ctx, h.UserID, user.RoleHost); err != nil {
			return fmt.Errorf("promote user to host: %w", err)
		}
		// The role change must not be served stale from the user cache.
		if err := s.cache.Delete(ctx, user.CacheKey(h.UserID), user.CacheKeyAll); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate user cache after promotion")
		}
	}

	s.invalidateAndRefresh(ctx, h)

	log.Info().
		Str("host_id", h.ID.String()).
		Str("status", string(status)).
		Msg("Host application reviewed")
	return nil
}

// ========================================
// HELPERS
// ========================================

// invalidateAndRefresh runs after every committed write: drop both keys, then
// repopulate the instance key for verified profiles and rebuild the snapshot.
func (s *hostService) invalidateAndRefresh(ctx context.Context, h *host.Host) {
	if err := s.cache.Delete(ctx, host.CacheKey(h.UserID), host.CacheKeyAll); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate host cache")
	}

	if h.IsEligible() {
		if err := s.cache.Set(ctx, host.CacheKey(h.UserID), h, hostCacheTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to refresh host cache entry")
		}
	}

	hosts, err := s.repo.ListVerified(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to rebuild hosts snapshot")
		return
	}
	if err := s.cache.Set(ctx, host.CacheKeyAll, hosts, hostCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to store hosts snapshot")
	}
}

func toDTOs(hosts []host.Host) []host.HostDTO {
	dtos := make([]host.HostDTO, 0, len(hosts))
	for i := range hosts {
		dtos = append(dtos, hosts[i].ToDTO())
	}
	return dtos
}
