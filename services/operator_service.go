package services

import (
	"creditProject/database"
	"creditProject/models"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OperatorService предоставляет методы для работы с учетными записями операторов
type OperatorService struct {
	db *database.Database
}

// OperatorDTO представляет оператора в ответах API
type OperatorDTO struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// CreateOperatorRequest представляет запрос на создание оператора
type CreateOperatorRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

func NewOperatorService(db *database.Database) *OperatorService {
	return &OperatorService{db: db}
}

// CreateOperatorInternal создает нового оператора
func (h *OperatorService) CreateOperatorInternal(req CreateOperatorRequest) (*models.Operator, error) {
	// Проверяем, существует ли оператор с таким email
	var existing models.Operator
	if err := h.db.DB.Where("LOWER(email) = LOWER(?)", req.Email).First(&existing).Error; err == nil {
		return nil, errors.New("operator with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Хешируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	operator := &models.Operator{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
	}

	if err := h.db.DB.Create(operator).Error; err != nil {
		return nil, err
	}

	return operator, nil
}

// FindByID ищет оператора по ID
func (h *OperatorService) FindByID(id uint) (*models.Operator, error) {
	var operator models.Operator
	if err := h.db.DB.First(&operator, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("operator not found")
		}
		return nil, err
	}
	return &operator, nil
}

// FindByEmail ищет оператора по email (игнорируя регистр и пробелы)
func (h *OperatorService) FindByEmail(email string) (*models.Operator, error) {
	var operator models.Operator
	if err := h.db.DB.Where("LOWER(TRIM(email)) = LOWER(TRIM(?))", email).First(&operator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("operator not found")
		}
		return nil, err
	}
	return &operator, nil
}
