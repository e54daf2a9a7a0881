package models

import "time"

type Address struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UserID       int64     `gorm:"column:user_id;index;not null"`
	AddressLine1 string    `gorm:"column:address_line1;not null"`
	AddressLine2 string    `gorm:"column:address_line2"`
	City         string    `gorm:"column:city;not null"`
	State        string    `gorm:"column:state"`
	PostalCode   string    `gorm:"column:postal_code;not null"`
	Country      string    `gorm:"column:country;not null"`
	IsDefault    bool      `gorm:"column:is_default;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Address) TableName() string { return "addresses" }
