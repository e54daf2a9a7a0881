package payments

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Upsert writes the payment keyed by order_id, replacing a previous attempt.
func (r *Repository) Upsert(ctx context.Context, payment *models.Payment) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"amount", "payment_method", "status", "transaction_id",
				"invoice_number", "payment_date", "updated_at",
			}),
		}).
		Create(payment).Error
	if err != nil {
		return err
	}
	stored, err := r.FindByOrder(ctx, payment.OrderID)
	if err != nil {
		return err
	}
	if stored != nil {
		*payment = *stored
	}
	return nil
}

func (r *Repository) FindByOrder(ctx context.Context, orderID int64) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
