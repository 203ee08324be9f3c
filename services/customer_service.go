package services

import (
	"creditProject/database"
	"creditProject/models"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// RegisterCustomerDTO представляет запрос на регистрацию клиента
type RegisterCustomerDTO struct {
	FirstName     string  `json:"first_name" validate:"required,min=2,max=100"`
	LastName      string  `json:"last_name" validate:"required,min=2,max=100"`
	Age           *int    `json:"age,omitempty" validate:"omitempty,gt=0"`
	PhoneNumber   int64   `json:"phone_number" validate:"required,gt=0"`
	Email         string  `json:"email,omitempty" validate:"omitempty,email"`
	MonthlyIncome float64 `json:"monthly_income" validate:"required,gt=0"`
}

// RegisterCustomerResponseDTO представляет ответ на регистрацию
type RegisterCustomerResponseDTO struct {
	CustomerID    uint    `json:"customer_id"`
	Name          string  `json:"name"`
	Age           *int    `json:"age,omitempty"`
	MonthlyIncome float64 `json:"monthly_income"`
	ApprovedLimit float64 `json:"approved_limit"`
	PhoneNumber   int64   `json:"phone_number"`
}

// CustomerService предоставляет методы для работы с клиентами
type CustomerService struct {
	db        *database.Database
	validator *validator.Validate
}

// NewCustomerService создает новый экземпляр CustomerService
func NewCustomerService(db *database.Database) *CustomerService {
	return &CustomerService{
		db:        db,
		validator: validator.New(),
	}
}

// ComputeApprovedLimit рассчитывает одобренный лимит при регистрации:
// 36 месячных доходов, округленных до ближайших 100000
func ComputeApprovedLimit(monthlySalary float64) float64 {
	return math.Round(36*monthlySalary/100000) * 100000
}

// Register регистрирует нового клиента. Одобренный лимит считается один раз
// при регистрации и последующими кредитами не меняется.
func (s *CustomerService) Register(dto RegisterCustomerDTO) (*RegisterCustomerResponseDTO, error) {
	// Валидируем DTO
	if err := s.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "gt":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше 0")
			default:
				errorMessages = append(errorMessages, "поле "+e.Field()+" заполнено неверно")
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errorMessages, "; "))
	}

	// Проверяем уникальность номера телефона
	if _, err := s.db.GetCustomerByPhone(dto.PhoneNumber); err == nil {
		return nil, fmt.Errorf("%w: клиент с таким номером телефона уже существует", ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer := &models.Customer{
		FirstName:     dto.FirstName,
		LastName:      dto.LastName,
		Age:           dto.Age,
		PhoneNumber:   dto.PhoneNumber,
		Email:         dto.Email,
		MonthlySalary: dto.MonthlyIncome,
		ApprovedLimit: ComputeApprovedLimit(dto.MonthlyIncome),
	}

	if err := s.db.CreateCustomer(customer); err != nil {
		return nil, err
	}

	return &RegisterCustomerResponseDTO{
		CustomerID:    customer.CustomerID,
		Name:          customer.FirstName + " " + customer.LastName,
		Age:           customer.Age,
		MonthlyIncome: customer.MonthlySalary,
		ApprovedLimit: customer.ApprovedLimit,
		PhoneNumber:   customer.PhoneNumber,
	}, nil
}

// GetCustomerByID возвращает клиента по ID
func (s *CustomerService) GetCustomerByID(id uint) (*models.Customer, error) {
	customer, err := s.db.GetCustomerByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}
