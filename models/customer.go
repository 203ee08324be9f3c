package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Customer представляет клиента кредитной платформы
type Customer struct {
	CustomerID    uint      `gorm:"column:customer_id;primaryKey;autoIncrement" json:"customer_id"`
	FirstName     string    `gorm:"column:first_name;not null;size:100" json:"first_name"`
	LastName      string    `gorm:"column:last_name;not null;size:100" json:"last_name"`
	Age           *int      `gorm:"column:age" json:"age,omitempty"`
	PhoneNumber   int64     `gorm:"column:phone_number;unique;not null" json:"phone_number"`
	Email         string    `gorm:"column:email;size:100" json:"email,omitempty"`
	MonthlySalary float64   `gorm:"column:monthly_salary;not null" json:"monthly_salary"`
	ApprovedLimit float64   `gorm:"column:approved_limit;not null" json:"approved_limit"`
	CurrentDebt   float64   `gorm:"column:current_debt;type:decimal(12,2);not null;default:0.0" json:"current_debt"`
	Loans         []Loan    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate хук для валидации перед созданием
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.MonthlySalary <= 0 {
		return errors.New("monthly salary must be positive")
	}
	if c.ApprovedLimit < 0 {
		return errors.New("approved limit must not be negative")
	}
	return nil
}
