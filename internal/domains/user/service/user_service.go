package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"staybook-backend/internal/domains/user"
	"staybook-backend/internal/infrastructure/auth"
	"staybook-backend/internal/infrastructure/email"
	"staybook-backend/internal/shared/utils"
	"staybook-backend/pkg/cache"
	"staybook-backend/pkg/token"
)

const (
	userCacheTTL = time.Hour

	bcryptCost = 12
)

// userService implements user.Service. The repository is plain SQL; every
// cache read and every invalidate-and-refresh happens here, right after the
// write it belongs to.
type userService struct {
	repo     user.Repository
	cache    cache.Cache
	tokens   *token.Service
	sessions *auth.TokenStore
	notifier user.Notifier
	domain   string // base URL prefixed to emailed links
}

func NewUserService(
	repo user.Repository,
	c cache.Cache,
	tokens *token.Service,
	sessions *auth.TokenStore,
	notifier user.Notifier,
	domain string,
) user.Service {
	return &userService{
		repo:     repo,
		cache:    c,
		tokens:   tokens,
		sessions: sessions,
		notifier: notifier,
		domain:   domain,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(passwordHash),
		Role:         user.RoleGuest,
		IsActive:     true,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u.Normalize()

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.sendVerification(u, u.Email)
	s.invalidateAndRefresh(ctx, u)

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// Same answer for unknown email and wrong password.
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.IsActive {
		return nil, user.ErrUserInactive
	}
	if !u.Verified {
		return nil, user.ErrUserNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	sessionToken, err := s.sessions.Issue(ctx, u.ID, u.Role.String())
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &user.LoginResponse{Token: sessionToken, User: u.ToDTO()}, nil
}

func (s *userService) Logout(ctx context.Context, sessionToken string) error {
	return s.sessions.Revoke(ctx, sessionToken)
}

func (s *userService) VerifyEmail(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		log.Warn().Err(err).Msg("Verification token rejected")
		return user.ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return user.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	// The token proves control of a specific address; if the account's email
	// changed since issuance the link is dead.
	if claims.Email() != u.Email {
		return user.ErrInvalidToken
	}

	if u.Verified {
		return nil
	}

	if err := s.repo.MarkVerified(ctx, u.ID); err != nil {
		return err
	}

	u.Verified = true
	s.invalidateAndRefresh(ctx, u)
	return nil
}

func (s *userService) ResendVerification(ctx context.Context, address string) error {
	u, err := s.findByEmail(ctx, address)
	if err != nil {
		return err
	}
	if u.Verified {
		return nil
	}

	s.sendVerification(u, u.Email)
	return nil
}

// ========================================
// PASSWORD FLOWS
// ========================================

func (s *userService) RequestPasswordReset(ctx context.Context, req user.ResetPasswordRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// Do not reveal whether the address exists.
			log.Info().Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	if err := s.notifier.EnqueueResetPasswordEmail(email.ResetPasswordData{
		Name:       u.FullName(),
		Email:      u.Email,
		VerifyLink: s.link("/api/v1/users/reset-password/verify", tok),
		ExpiresIn:  expiresIn(),
	}); err != nil {
		log.Error().Err(err).Msg("Failed to enqueue reset password email")
	}
	return nil
}

// VerifyPasswordReset confirms the emailed link and unlocks SetPassword.
func (s *userService) VerifyPasswordReset(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return user.ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return user.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if claims.Email() != u.Email {
		return user.ErrInvalidToken
	}

	return s.repo.SetResetPassword(ctx, u.ID, true)
}

func (s *userService) SetPassword(ctx context.Context, req user.SetPasswordRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if !u.ResetPassword {
		return user.ErrResetNotAllowed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// UpdatePassword clears the reset flag in the same statement.
	return s.repo.UpdatePassword(ctx, u.ID, string(hash))
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req user.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)); err != nil {
		return user.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, u.ID, string(hash))
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// UpdateProfile applies the new name/phone immediately. An email change is
// staged into pending_email and only promoted after the new address confirms
// via the emailed link.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest) (*user.UserDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Phone = req.Phone

	newEmail := utils.NormalizeEmail(req.Email)
	emailChanged := newEmail != u.Email
	if emailChanged {
		u.PendingEmail = &newEmail
	}

	u.Normalize()
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	if emailChanged {
		tok, err := s.tokens.Issue(u.ID, newEmail)
		if err != nil {
			return nil, fmt.Errorf("issue email change token: %w", err)
		}
		if err := s.notifier.EnqueueEmailChangeEmail(email.EmailChangeData{
			Name:       u.FullName(),
			Email:      newEmail,
			VerifyLink: s.link("/api/v1/users/email-change/confirm", tok),
			ExpiresIn:  expiresIn(),
		}); err != nil {
			log.Error().Err(err).Msg("Failed to enqueue email change email")
		}
	}

	s.invalidateAndRefresh(ctx, u)

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) ConfirmEmailChange(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return user.ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return user.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.PendingEmail == nil || claims.Email() != *u.PendingEmail {
		return user.ErrInvalidToken
	}

	if err := s.repo.ConfirmPendingEmail(ctx, u.ID); err != nil {
		return err
	}

	u.ConfirmPendingEmail()
	s.invalidateAndRefresh(ctx, u)
	return nil
}

// ========================================
// DEACTIVATION
// ========================================

func (s *userService) RequestDeactivation(ctx context.Context, userID uuid.UUID) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return fmt.Errorf("issue deactivation token: %w", err)
	}

	if err := s.notifier.EnqueueDeactivationEmail(email.DeactivationData{
		Name:       u.FullName(),
		Email:      u.Email,
		VerifyLink: s.link("/api/v1/users/deactivate/confirm", tok),
		ExpiresIn:  expiresIn(),
	}); err != nil {
		log.Error().Err(err).Msg("Failed to enqueue deactivation email")
	}
	return nil
}

func (s *userService) ConfirmDeactivation(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return user.ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return user.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if claims.Email() != u.Email {
		return user.ErrInvalidToken
	}

	if err := s.repo.SetActive(ctx, u.ID, false); err != nil {
		return err
	}

	u.IsActive = false
	s.invalidateAndRefresh(ctx, u)
	return nil
}

// ========================================
// CACHE-BACKED READS
// ========================================

// GetActive is the read-through lookup used by other domains. Only accounts
// passing the valid predicate are served; a cached entry that has since gone
// stale-invalid is evicted on the spot.
func (s *userService) GetActive(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	var cached user.User
	found, err := s.cache.Get(ctx, user.CacheKey(userID), &cached)
	if err != nil {
		log.Warn().Err(err).Msg("User cache read failed, falling back to database")
	} else if found {
		if cached.IsEligible() {
			dto := cached.ToDTO()
			return &dto, nil
		}
		if err := s.cache.Delete(ctx, user.CacheKey(userID)); err != nil {
			log.Warn().Err(err).Msg("Failed to evict stale user cache entry")
		}
		return nil, user.ErrUserNotFound
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsEligible() {
		return nil, user.ErrUserNotFound
	}

	if err := s.cache.Set(ctx, user.CacheKey(u.ID), u, userCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to populate user cache")
	}

	dto := u.ToDTO()
	return &dto, nil
}

// ListValid serves the aggregate snapshot of all active, verified accounts.
func (s *userService) ListValid(ctx context.Context) ([]user.UserDTO, error) {
	var cached []user.User
	found, err := s.cache.Get(ctx, user.CacheKeyAll, &cached)
	if err != nil {
		log.Warn().Err(err).Msg("Users snapshot read failed, falling back to database")
	} else if found {
		return toDTOs(cached), nil
	}

	users, err := s.repo.ListActiveVerified(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, user.CacheKeyAll, users, userCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to populate users snapshot")
	}

	return toDTOs(users), nil
}

// ========================================
// ADMIN
// ========================================

func (s *userService) ListAll(ctx context.Context) ([]user.UserDTO, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(users), nil
}

func (s *userService) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		return err
	}

	u.IsActive = active
	s.invalidateAndRefresh(ctx, u)
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, user.CacheKey(userID), user.CacheKeyAll); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate user cache after delete")
	}
	s.refreshSnapshot(ctx)
	return nil
}

// ========================================
// HELPERS
// ========================================

func (s *userService) sendVerification(u *user.User, address string) {
	tok, err := s.tokens.Issue(u.ID, address)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue verification token")
		return
	}

	if err := s.notifier.EnqueueVerificationEmail(email.VerificationEmailData{
		Name:       u.FullName(),
		Email:      address,
		VerifyLink: s.link("/api/v1/users/verify", tok),
		ExpiresIn:  expiresIn(),
	}); err != nil {
		log.Error().Err(err).Msg("Failed to enqueue verification email")
	}
}

// invalidateAndRefresh runs after every committed write: drop both keys, then
// repopulate the instance key (eligible accounts only) and rebuild the
// aggregate snapshot from the database. Cache failures are logged, never
// propagated; the database already holds the truth.
func (s *userService) invalidateAndRefresh(ctx context.Context, u *user.User) {
	if err := s.cache.Delete(ctx, user.CacheKey(u.ID), user.CacheKeyAll); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate user cache")
	}

	if u.IsEligible() {
		if err := s.cache.Set(ctx, user.CacheKey(u.ID), u, userCacheTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to refresh user cache entry")
		}
	}

	s.refreshSnapshot(ctx)
}

func (s *userService) refreshSnapshot(ctx context.Context) {
	users, err := s.repo.ListActiveVerified(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to rebuild users snapshot")
		return
	}
	if err := s.cache.Set(ctx, user.CacheKeyAll, users, userCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to store users snapshot")
	}
}

func (s *userService) findByEmail(ctx context.Context, address string) (*user.User, error) {
	return s.repo.FindByEmail(ctx, utils.NormalizeEmail(address))
}

func (s *userService) link(path, tok string) string {
	return s.domain + path + "?token=" + tok
}

func expiresIn() string {
	return fmt.Sprintf("%d minutes", int(token.DefaultTTL.Minutes()))
}

func toDTOs(users []user.User) []user.UserDTO {
	dtos := make([]user.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, users[i].ToDTO())
	}
	return dtos
}
