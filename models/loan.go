package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Loan представляет выданный кредит
type Loan struct {
	LoanID           uint      `gorm:"column:loan_id;primaryKey;autoIncrement" json:"loan_id"`
	CustomerID       uint      `gorm:"column:customer_id;not null;index" json:"customer_id"`
	Customer         Customer  `gorm:"foreignKey:CustomerID;references:CustomerID" json:"-"`
	LoanAmount       float64   `gorm:"column:loan_amount;type:decimal(12,2);not null" json:"loan_amount"`
	Tenure           int       `gorm:"column:tenure;not null" json:"tenure"` // срок кредита в месяцах
	InterestRate     float64   `gorm:"column:interest_rate;type:decimal(5,2);not null" json:"interest_rate"`
	MonthlyRepayment float64   `gorm:"column:monthly_repayment;type:decimal(10,2);not null" json:"monthly_repayment"`
	EmisPaidOnTime   int       `gorm:"column:emis_paid_on_time;not null;default:0" json:"emis_paid_on_time"`
	StartDate        time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate          time.Time `gorm:"column:end_date;not null" json:"end_date"`
	CreatedAt        time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt        time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" json:"-"`
}

func (Loan) TableName() string {
	return "loans"
}

// IsActive проверяет, активен ли кредит на указанную дату
func (l *Loan) IsActive(today time.Time) bool {
	return !l.EndDate.Before(today)
}

// BeforeCreate хук для валидации перед созданием
func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if !l.EndDate.After(l.StartDate) {
		return errors.New("end date must be after start date")
	}
	if l.Tenure > 0 && l.MonthlyRepayment <= 0 {
		return errors.New("monthly repayment must be positive")
	}
	return nil
}
