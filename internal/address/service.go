package address

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const DefaultCountry = "USA"

// CreateInput is the add-address form.
type CreateInput struct {
	AddressLine1 string `json:"address_line1" form:"address_line1" validate:"required,max=255"`
	AddressLine2 string `json:"address_line2" form:"address_line2" validate:"omitempty,max=255"`
	City         string `json:"city" form:"city" validate:"required,max=100"`
	State        string `json:"state" form:"state" validate:"omitempty,max=100"`
	PostalCode   string `json:"postal_code" form:"postal_code" validate:"required,max=20"`
	Country      string `json:"country" form:"country" validate:"omitempty,max=100"`
	IsDefault    bool   `json:"is_default" form:"is_default"`
}

type Service interface {
	List(ctx context.Context, userID int64) ([]models.Address, error)
	Create(ctx context.Context, userID int64, input CreateInput) (*models.Address, error)
	FindOwned(ctx context.Context, userID, addressID int64) (*models.Address, error)
}

type service struct {
	tx   db.TxRunner
	repo Repository
}

func NewService(tx db.TxRunner, repo Repository) Service {
	return &service{tx: tx, repo: repo}
}

func (s *service) List(ctx context.Context, userID int64) ([]models.Address, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "list addresses")
	}
	return rows, nil
}

// FindOwned returns the address only when it belongs to userID.
func (s *service) FindOwned(ctx context.Context, userID, addressID int64) (*models.Address, error) {
	if addressID <= 0 {
		return nil, errors.New(errors.CodeValidation, "shipping address is required")
	}
	addr, err := s.repo.FindOwned(ctx, userID, addressID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "load address")
	}
	if addr == nil {
		return nil, errors.New(errors.CodeValidation, "invalid shipping address")
	}
	return addr, nil
}

// Create stores the address. The first address, or one flagged default, becomes
// the only default for the user.
func (s *service) Create(ctx context.Context, userID int64, input CreateInput) (*models.Address, error) {
	addr := &models.Address{
		UserID:       userID,
		AddressLine1: strings.TrimSpace(input.AddressLine1),
		AddressLine2: strings.TrimSpace(input.AddressLine2),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		Country:      strings.TrimSpace(input.Country),
		IsDefault:    input.IsDefault,
	}
	if addr.AddressLine1 == "" || addr.City == "" || addr.PostalCode == "" {
		return nil, errors.New(errors.CodeValidation, "address line, city and postal code are required")
	}
	if addr.Country == "" {
		addr.Country = DefaultCountry
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.CountByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(errors.CodeDependency, err, "count addresses")
		}
		if count == 0 {
			addr.IsDefault = true
		}
		if addr.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return errors.Wrap(errors.CodeDependency, err, "clear default address")
			}
		}
		if err := repo.Create(ctx, addr); err != nil {
			return errors.Wrap(errors.CodeDependency, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}
