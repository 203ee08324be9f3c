package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Operator представляет учетную запись сотрудника бэк-офиса
type Operator struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	FirstName string    `gorm:"column:first_name;not null;size:50"`
	LastName  string    `gorm:"column:last_name;not null;size:50"`
	Email     string    `gorm:"column:email;unique;not null;size:100;index"`
	Password  string    `gorm:"column:password;not null;size:100"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Operator) TableName() string {
	return "operators"
}

// BeforeCreate хук для валидации перед созданием
func (o *Operator) BeforeCreate(tx *gorm.DB) error {
	if len(o.FirstName) < 2 || len(o.FirstName) > 50 {
		return errors.New("first name must be between 2 and 50 characters")
	}
	if len(o.LastName) < 2 || len(o.LastName) > 50 {
		return errors.New("last name must be between 2 and 50 characters")
	}
	if len(o.Email) < 3 || len(o.Email) > 100 {
		return errors.New("email must be between 3 and 100 characters")
	}
	return nil
}
