package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/internal/users"
	pkgAuth "github.com/angelmondragon/marketplace-backend/pkg/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

type fakeSessions struct {
	open map[string]int64
}

func (f *fakeSessions) Open(_ context.Context, accessID string, userID int64) error {
	f.open[accessID] = userID
	return nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	delete(f.open, accessID)
	return nil
}

var testJWT = config.JWTConfig{Secret: "test-secret", Issuer: "marketplace-test", ExpirationMinutes: 60}

func newTestService(t *testing.T) (Service, *fakeSessions, *users.Repository) {
	t.Helper()
	conn := dbtest.Open(t)
	repo := users.NewRepository(conn)
	sessions := &fakeSessions{open: map[string]int64{}}
	hasher := security.NewPasswordHasher(config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		Hasher:         hasher,
		SessionManager: sessions,
		JWTConfig:      testJWT,
		Now:            func() time.Time { return time.Now() },
	})
	require.NoError(t, err)
	return svc, sessions, repo
}

func registerRequest() RegisterRequest {
	return RegisterRequest{
		Email:           " Buyer@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FirstName:       "Ada",
		LastName:        "Lovelace",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, sessions, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", user.Email)
	assert.Equal(t, enums.RoleCustomer, user.Role)

	resp, err := svc.Login(ctx, LoginRequest{Email: "BUYER@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "/customer/dashboard", resp.LandingPath)
	assert.Equal(t, user.ID, sessions.open[resp.AccessID])
	require.NotNil(t, resp.User.LastLoginAt)

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, resp.AccessID, claims.ID)

	require.NoError(t, svc.Logout(ctx, resp.AccessID))
	assert.Empty(t, sessions.open)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	short := registerRequest()
	short.Password, short.ConfirmPassword = "abc", "abc"
	_, err := svc.Register(ctx, short)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	mismatch := registerRequest()
	mismatch.ConfirmPassword = "different"
	_, err = svc.Register(ctx, mismatch)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerRequest())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, sessions, repo := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "wrong-password"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))

	inactive := false
	_, err = repo.Create(ctx, users.CreateUserDTO{Email: "off@example.com", PasswordHash: "x", IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Login(ctx, LoginRequest{Email: "off@example.com", Password: "secret1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Empty(t, sessions.open)
}

func TestLoginTreatsMalformedHashAsInvalidCredentials(t *testing.T) {
	svc, sessions, repo := newTestService(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, users.CreateUserDTO{Email: "broken@example.com", PasswordHash: "not-an-argon-hash"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "broken@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Equal(t, "invalid email or password", pkgerrors.PublicMessage(err))
	assert.Empty(t, sessions.open)
}

func TestLoginLandingByRole(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()
	hasher := security.NewPasswordHasher(config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	for role, landing := range map[enums.Role]string{
		enums.RoleAdmin:  "/admin/dashboard",
		enums.RoleSeller: "/seller/dashboard",
	} {
		email := string(role) + "@example.com"
		_, err := repo.Create(ctx, users.CreateUserDTO{Email: email, PasswordHash: hash, Role: role})
		require.NoError(t, err)
		resp, err := svc.Login(ctx, LoginRequest{Email: email, Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, landing, resp.LandingPath)
	}
}
