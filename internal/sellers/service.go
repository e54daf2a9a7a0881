package sellers

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// CreateSellerInput is the admin form for onboarding a seller account.
type CreateSellerInput struct {
	Email       string `json:"email" form:"email" validate:"required,email"`
	Password    string `json:"password" form:"password" validate:"required,min=6"`
	FirstName   string `json:"first_name" form:"first_name"`
	LastName    string `json:"last_name" form:"last_name"`
	StoreName   string `json:"store_name" form:"store_name" validate:"required,max=100"`
	Description string `json:"description" form:"description"`
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// Service manages seller storefronts.
type Service interface {
	List(ctx context.Context) ([]Listing, error)
	Create(ctx context.Context, input CreateSellerInput) (*models.Seller, error)
	ForUser(ctx context.Context, userID int64) (*models.Seller, error)
}

type service struct {
	tx     db.TxRunner
	repo   Repository
	hasher passwordHasher
}

func NewService(tx db.TxRunner, repo Repository, hasher passwordHasher) Service {
	return &service{tx: tx, repo: repo, hasher: hasher}
}

func (s *service) List(ctx context.Context) ([]Listing, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sellers")
	}
	return rows, nil
}

// ForUser resolves the storefront of a seller-role user; users without one are forbidden.
func (s *service) ForUser(ctx context.Context, userID int64) (*models.Seller, error) {
	seller, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}
	if seller == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "seller account not found")
	}
	return seller, nil
}

// Create inserts the seller user and its storefront in one transaction.
func (s *service) Create(ctx context.Context, input CreateSellerInput) (*models.Seller, error) {
	email := users.NormalizeEmail(input.Email)
	storeName := strings.TrimSpace(input.StoreName)
	if email == "" || storeName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and store name are required")
	}
	if len(input.Password) < 6 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.Seller
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: hash,
			Role:         enums.RoleSeller,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		seller := &models.Seller{
			UserID:      user.ID,
			StoreName:   storeName,
			Description: strings.TrimSpace(input.Description),
		}
		if err := s.repo.WithTx(tx).Create(ctx, seller); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller")
		}
		created = seller
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
