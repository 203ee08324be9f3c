package services

import (
	"creditProject/models"
	"creditProject/utils"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Сообщения решений, возвращаемые клиенту
const (
	MsgHighDebtToIncome = "High debt to income ratio."
	MsgLowCreditScore   = "Credit score too low."
)

// CheckEligibilityDTO представляет запрос на проверку кредитоспособности
type CheckEligibilityDTO struct {
	CustomerID   uint    `json:"customer_id" validate:"required"`
	LoanAmount   float64 `json:"loan_amount" validate:"required,gt=0"`
	InterestRate float64 `json:"interest_rate" validate:"required,gt=0"`
	Tenure       int     `json:"tenure" validate:"required,gt=0"`
}

// EligibilityResponseDTO представляет решение по заявке.
// MonthlyInstallment заполняется только при одобрении.
type EligibilityResponseDTO struct {
	CustomerID            uint     `json:"customer_id"`
	Approval              bool     `json:"approval"`
	InterestRate          float64  `json:"interest_rate"`
	CorrectedInterestRate float64  `json:"corrected_interest_rate"`
	Tenure                int      `json:"tenure"`
	MonthlyInstallment    *float64 `json:"monthly_installment"`
	Message               string   `json:"message,omitempty"`
}

// EligibilityService принимает решение об одобрении кредита
type EligibilityService struct {
	db        *gorm.DB
	validator *validator.Validate
	scoring   *ScoringService
	now       func() time.Time
}

// NewEligibilityService создает новый экземпляр EligibilityService
func NewEligibilityService(db *gorm.DB, scoring *ScoringService) *EligibilityService {
	return &EligibilityService{
		db:        db,
		validator: validator.New(),
		scoring:   scoring,
		now:       time.Now,
	}
}

// applyTierPolicy применяет ступенчатые правила одобрения к рейтингу.
// Возвращает решение и скорректированную ставку; коррекция только повышает
// ставку и только в пределах своей ступени.
func applyTierPolicy(score int, requestedRate float64) (bool, float64) {
	corrected := requestedRate
	switch {
	case score > 50:
		return true, corrected
	case score > 30:
		if requestedRate <= 12 {
			corrected = 12.0
		}
		return true, corrected
	case score > 10:
		if requestedRate <= 16 {
			corrected = 16.0
		}
		return true, corrected
	default:
		// score <= 10
		return false, corrected
	}
}

// CheckEligibility проверяет заявку и возвращает решение.
// Шаги строго упорядочены: сначала проверка долговой нагрузки,
// затем рейтинг и ступенчатые правила.
func (s *EligibilityService) CheckEligibility(dto CheckEligibilityDTO) (*EligibilityResponseDTO, error) {
	// Валидируем DTO
	if err := s.validateRequest(dto); err != nil {
		return nil, err
	}

	// Проверяем существование клиента
	var customer models.Customer
	if err := s.db.First(&customer, dto.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	today := s.now()

	// Шаг 1: сумма текущих EMI по активным кредитам не должна превышать
	// половину месячного дохода. Эта проверка срабатывает до расчета рейтинга.
	var activeLoans []models.Loan
	if err := s.db.Where("customer_id = ? AND end_date >= ?", customer.CustomerID, today).
		Find(&activeLoans).Error; err != nil {
		return nil, err
	}

	var currentEmisSum float64
	for _, loan := range activeLoans {
		currentEmisSum += loan.MonthlyRepayment
	}

	if currentEmisSum > customer.MonthlySalary/2 {
		utils.GetMetrics().RecordDecision(false, MsgHighDebtToIncome)
		return &EligibilityResponseDTO{
			CustomerID:            customer.CustomerID,
			Approval:              false,
			InterestRate:          dto.InterestRate,
			CorrectedInterestRate: dto.InterestRate,
			Tenure:                dto.Tenure,
			MonthlyInstallment:    nil,
			Message:               MsgHighDebtToIncome,
		}, nil
	}

	// Шаг 2: кредитный рейтинг
	creditScore, err := s.scoring.ScoreForCustomer(&customer, today)
	if err != nil {
		return nil, err
	}

	// Шаг 3: ступенчатые правила одобрения
	approval, correctedRate := applyTierPolicy(creditScore, dto.InterestRate)

	response := &EligibilityResponseDTO{
		CustomerID:            customer.CustomerID,
		Approval:              approval,
		InterestRate:          dto.InterestRate,
		CorrectedInterestRate: correctedRate,
		Tenure:                dto.Tenure,
	}

	// Шаг 4: платеж рассчитывается только для одобренной заявки,
	// по скорректированной ставке
	if approval {
		installment := CalculateMonthlyInstallment(dto.LoanAmount, correctedRate, dto.Tenure)
		response.MonthlyInstallment = &installment
	} else {
		response.Message = MsgLowCreditScore
	}

	utils.GetMetrics().RecordDecision(approval, response.Message)

	return response, nil
}

// validateRequest валидирует DTO и возвращает ошибки валидации
func (s *EligibilityService) validateRequest(dto CheckEligibilityDTO) error {
	if err := s.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "gt":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше 0")
			}
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errorMessages, "; "))
	}
	return nil
}
