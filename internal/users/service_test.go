package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

func TestCreateNormalizesEmail(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)

	user, err := repo.Create(context.Background(), CreateUserDTO{
		Email:        "  Jane@Example.COM ",
		PasswordHash: "hash",
		FirstName:    " Jane ",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, enums.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, "Jane", user.FirstName)

	found, err := repo.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUpdateProfile(t *testing.T) {
	conn := dbtest.Open(t)
	fx := dbtest.NewFixtures(t, conn)
	user := fx.User("c@example.com", enums.RoleCustomer)
	svc := NewService(NewRepository(conn))
	ctx := context.Background()

	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{FirstName: "Ada", LastName: "Lovelace", Phone: " 555 "})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "555", updated.Phone)

	_, err = svc.UpdateProfile(ctx, user.ID, ProfileInput{FirstName: " "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Profile(ctx, 9999)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCountByRole(t *testing.T) {
	conn := dbtest.Open(t)
	fx := dbtest.NewFixtures(t, conn)
	fx.User("a@example.com", enums.RoleCustomer)
	fx.User("b@example.com", enums.RoleCustomer)
	fx.Seller("Shop")

	n, err := NewRepository(conn).CountByRole(context.Background(), enums.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
