package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook-backend/internal/domains/user"
	"staybook-backend/internal/infrastructure/auth"
	"staybook-backend/internal/infrastructure/email"
	"staybook-backend/pkg/cache"
	"staybook-backend/pkg/token"
)

// ========================================
// FAKES
// ========================================

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
		if existing.Phone == u.Phone {
			return user.ErrPhoneAlreadyExists
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, address string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == address {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ListActiveVerified(_ context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		if u.IsEligible() {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id uuid.UUID) error {
	return r.mutate(id, func(u *user.User) { u.Verified = true })
}

func (r *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	return r.mutate(id, func(u *user.User) { u.IsActive = active })
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role user.Role) error {
	return r.mutate(id, func(u *user.User) { u.Role = role })
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return r.mutate(id, func(u *user.User) {
		u.PasswordHash = hash
		u.ResetPassword = false
	})
}

func (r *fakeUserRepo) SetResetPassword(_ context.Context, id uuid.UUID, allowed bool) error {
	return r.mutate(id, func(u *user.User) { u.ResetPassword = allowed })
}

func (r *fakeUserRepo) ConfirmPendingEmail(_ context.Context, id uuid.UUID) error {
	return r.mutate(id, func(u *user.User) { u.ConfirmPendingEmail() })
}

func (r *fakeUserRepo) mutate(id uuid.UUID, fn func(*user.User)) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	fn(u)
	return nil
}

type fakeNotifier struct {
	verifications []email.VerificationEmailData
	emailChanges  []email.EmailChangeData
	resets        []email.ResetPasswordData
	deactivations []email.DeactivationData
}

func (n *fakeNotifier) EnqueueVerificationEmail(d email.VerificationEmailData) error {
	n.verifications = append(n.verifications, d)
	return nil
}

func (n *fakeNotifier) EnqueueEmailChangeEmail(d email.EmailChangeData) error {
	n.emailChanges = append(n.emailChanges, d)
	return nil
}

func (n *fakeNotifier) EnqueueResetPasswordEmail(d email.ResetPasswordData) error {
	n.resets = append(n.resets, d)
	return nil
}

func (n *fakeNotifier) EnqueueDeactivationEmail(d email.DeactivationData) error {
	n.deactivations = append(n.deactivations, d)
	return nil
}

// ========================================
// SETUP
// ========================================

type fixture struct {
	svc      user.Service
	repo     *fakeUserRepo
	cache    cache.Cache
	tokens   *token.Service
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})

	tokens, err := token.New(privatePEM, publicPEM)
	require.NoError(t, err)

	repo := newFakeUserRepo()
	c := cache.NewMemoryCache()
	notifier := &fakeNotifier{}
	sessions := auth.NewTokenStore(c, time.Hour)

	return &fixture{
		svc:      NewUserService(repo, c, tokens, sessions, notifier, "https://staybook.example.com"),
		repo:     repo,
		cache:    c,
		tokens:   tokens,
		notifier: notifier,
	}
}

func registerRequest() user.RegisterRequest {
	return user.RegisterRequest{
		FirstName: "ada",
		LastName:  "lovelace",
		Email:     "  Ada.Lovelace@Example.COM ",
		Phone:     "+251911000001",
		Password:  "s3cretpass",
	}
}

// ========================================
// TESTS
// ========================================

func TestRegisterNormalizesAndNotifies(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, "ada.lovelace@example.com", dto.Email)
	assert.Equal(t, "Ada", dto.FirstName)
	assert.Equal(t, "Lovelace", dto.LastName)
	assert.Equal(t, user.RoleGuest, dto.Role)
	assert.False(t, dto.Verified)

	require.Len(t, f.notifier.verifications, 1)
	sent := f.notifier.verifications[0]
	assert.Equal(t, "ada.lovelace@example.com", sent.Email)
	assert.Contains(t, sent.VerifyLink, "https://staybook.example.com/api/v1/users/verify?token=")
	assert.Equal(t, "5 minutes", sent.ExpiresIn)
}

func TestPaddedEmailAcceptedEverywhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Canonicalization runs before field validation, so whitespace padding
	// and mixed case never trip the email format check.
	dto, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	require.NoError(t, f.repo.MarkVerified(ctx, dto.ID))

	resp, err := f.svc.Login(ctx, user.LoginRequest{
		Email:    "  ADA.Lovelace@Example.COM  ",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelace@example.com", resp.User.Email)

	require.NoError(t, f.svc.RequestPasswordReset(ctx, user.ResetPasswordRequest{
		Email: " Ada.Lovelace@example.com ",
	}))
	require.Len(t, f.notifier.resets, 1)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Phone = "+251911000002"
	_, err = f.svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
}

func TestLoginRequiresVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, user.LoginRequest{
		Email:    "ada.lovelace@example.com",
		Password: "s3cretpass",
	})
	assert.ErrorIs(t, err, user.ErrUserNotVerified)
}

func TestVerifyEmailThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	tok, err := f.tokens.Issue(dto.ID, dto.Email)
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyEmail(ctx, tok))

	// Verifying twice is a no-op.
	require.NoError(t, f.svc.VerifyEmail(ctx, tok))

	resp, err := f.svc.Login(ctx, user.LoginRequest{
		Email:    "Ada.Lovelace@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.User.Verified)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	require.NoError(t, f.repo.MarkVerified(ctx, dto.ID))

	_, err = f.svc.Login(ctx, user.LoginRequest{
		Email:    "ada.lovelace@example.com",
		Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	// Unknown email gets the same answer.
	_, err = f.svc.Login(ctx, user.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cretpass",
	})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestVerifyEmailRejectsBadToken(t *testing.T) {
	f := newFixture(t)

	err := f.svc.VerifyEmail(context.Background(), "garbage")
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestVerifyEmailRejectsStaleAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	// Token issued for an address the account no longer carries.
	tok, err := f.tokens.Issue(dto.ID, "old@example.com")
	require.NoError(t, err)

	err = f.svc.VerifyEmail(ctx, tok)
	assert.ErrorIs(t, err, user.ErrInvalidToken)
}

func TestGetActiveConvergesAfterDeactivation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	tok, err := f.tokens.Issue(dto.ID, dto.Email)
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyEmail(ctx, tok))

	// Eligible account is served (and cached).
	got, err := f.svc.GetActive(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)

	require.NoError(t, f.svc.SetUserActive(ctx, dto.ID, false))

	// The row still exists, but the account no longer passes the valid
	// predicate; the lookup must not serve a stale cached copy.
	_, err = f.svc.GetActive(ctx, dto.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestListValidSnapshotRefreshes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	tok, err := f.tokens.Issue(dto.ID, dto.Email)
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyEmail(ctx, tok))

	listed, err := f.svc.ListValid(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, f.svc.SetUserActive(ctx, dto.ID, false))

	listed, err = f.svc.ListValid(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSetPasswordRequiresVerifiedReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	err = f.svc.SetPassword(ctx, user.SetPasswordRequest{
		Email:       dto.Email,
		NewPassword: "newpassword1",
	})
	assert.ErrorIs(t, err, user.ErrResetNotAllowed)

	// Confirm the emailed link, then the new password lands.
	tok, err := f.tokens.Issue(dto.ID, dto.Email)
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyPasswordReset(ctx, tok))

	require.NoError(t, f.svc.SetPassword(ctx, user.SetPasswordRequest{
		Email:       dto.Email,
		NewPassword: "newpassword1",
	}))

	// Flag is single-use.
	err = f.svc.SetPassword(ctx, user.SetPasswordRequest{
		Email:       dto.Email,
		NewPassword: "anotherpass2",
	})
	assert.ErrorIs(t, err, user.ErrResetNotAllowed)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	f := newFixture(t)

	// Unknown address: no error, nothing enqueued, existence not revealed.
	err := f.svc.RequestPasswordReset(context.Background(), user.ResetPasswordRequest{
		Email: "nobody@example.com",
	})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.resets)
}

func TestConfirmEmailChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateProfile(ctx, dto.ID, user.UpdateProfileRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "new.address@example.com",
		Phone:     "+251911000001",
	})
	require.NoError(t, err)
	require.Len(t, f.notifier.emailChanges, 1)

	// Old address still primary until the new one confirms.
	u, err := f.repo.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelace@example.com", u.Email)
	require.NotNil(t, u.PendingEmail)

	tok, err := f.tokens.Issue(dto.ID, "new.address@example.com")
	require.NoError(t, err)
	require.NoError(t, f.svc.ConfirmEmailChange(ctx, tok))

	u, err = f.repo.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "new.address@example.com", u.Email)
	assert.Nil(t, u.PendingEmail)
}
