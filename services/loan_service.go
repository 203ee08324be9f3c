package services

import (
	"creditProject/database"
	"creditProject/models"
	"creditProject/utils"
	"errors"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Сообщения результата выдачи кредита
const (
	MsgLoanApproved    = "Loan approved successfully!"
	MsgLoanNotApproved = "Loan not approved based on eligibility criteria."
)

// CreateLoanDTO представляет заявку на выдачу кредита
type CreateLoanDTO struct {
	CustomerID   uint    `json:"customer_id" validate:"required"`
	LoanAmount   float64 `json:"loan_amount" validate:"required,gt=0"`
	InterestRate float64 `json:"interest_rate" validate:"required,gt=0"`
	Tenure       int     `json:"tenure" validate:"required,gt=0"`
}

// CreateLoanResponseDTO представляет результат выдачи кредита
type CreateLoanResponseDTO struct {
	LoanID             *uint    `json:"loan_id"`
	CustomerID         uint     `json:"customer_id"`
	LoanApproved       bool     `json:"loan_approved"`
	Message            string   `json:"message"`
	MonthlyInstallment *float64 `json:"monthly_installment"`
}

// CustomerDTO представляет клиента в ответах API
type CustomerDTO struct {
	CustomerID    uint    `json:"customer_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Age           *int    `json:"age,omitempty"`
	MonthlySalary float64 `json:"monthly_salary"`
	ApprovedLimit float64 `json:"approved_limit"`
	PhoneNumber   int64   `json:"phone_number"`
}

// LoanDetailDTO представляет кредит с вложенными данными клиента
type LoanDetailDTO struct {
	LoanID             uint        `json:"loan_id"`
	Customer           CustomerDTO `json:"customer"`
	LoanAmount         float64     `json:"loan_amount"`
	Tenure             int         `json:"tenure"`
	InterestRate       float64     `json:"interest_rate"`
	MonthlyInstallment float64     `json:"monthly_installment"`
	EmisPaidOnTime     int         `json:"emis_paid_on_time"`
	StartDate          time.Time   `json:"start_date"`
	EndDate            time.Time   `json:"end_date"`
}

// CustomerLoanDTO представляет кредит в списке кредитов клиента
type CustomerLoanDTO struct {
	LoanID             uint    `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	RepaymentsLeft     int     `json:"repayments_left"`
}

// LoanService оркестрирует выдачу кредитов и отдает данные о кредитах
type LoanService struct {
	db          *gorm.DB
	eligibility *EligibilityService
	cache       *database.ScoreCache
	email       *EmailService
	now         func() time.Time

	// Мьютексы по клиентам: сериализуют одновременные заявки одного клиента,
	// иначе две заявки могут прочитать один и тот же снимок активных кредитов
	// и обе получить одобрение
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewLoanService создает новый экземпляр LoanService.
// Кэш и email-сервис могут быть nil.
func NewLoanService(db *gorm.DB, eligibility *EligibilityService, cache *database.ScoreCache, email *EmailService) *LoanService {
	return &LoanService{
		db:          db,
		eligibility: eligibility,
		cache:       cache,
		email:       email,
		now:         time.Now,
		locks:       make(map[uint]*sync.Mutex),
	}
}

// customerLock возвращает мьютекс для клиента
func (s *LoanService) customerLock(customerID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[customerID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[customerID] = lock
	}
	return lock
}

// CreateLoan проводит заявку через проверку кредитоспособности и при
// одобрении сохраняет кредит. При отказе запись не создается.
func (s *LoanService) CreateLoan(dto CreateLoanDTO) (*CreateLoanResponseDTO, error) {
	// Сериализуем выдачу кредитов одного клиента
	lock := s.customerLock(dto.CustomerID)
	lock.Lock()
	defer lock.Unlock()

	decision, err := s.eligibility.CheckEligibility(CheckEligibilityDTO{
		CustomerID:   dto.CustomerID,
		LoanAmount:   dto.LoanAmount,
		InterestRate: dto.InterestRate,
		Tenure:       dto.Tenure,
	})
	if err != nil {
		return nil, err
	}

	if !decision.Approval {
		s.notifyRejection(dto.CustomerID, decision.Message)
		return &CreateLoanResponseDTO{
			LoanID:             nil,
			CustomerID:         dto.CustomerID,
			LoanApproved:       false,
			Message:            MsgLoanNotApproved,
			MonthlyInstallment: nil,
		}, nil
	}

	// Рассчитываем даты: окончание через tenure календарных месяцев
	startDate := s.now()
	endDate := startDate.AddDate(0, dto.Tenure, 0)

	loan := &models.Loan{
		CustomerID:       dto.CustomerID,
		LoanAmount:       dto.LoanAmount,
		Tenure:           decision.Tenure,
		InterestRate:     decision.CorrectedInterestRate,
		MonthlyRepayment: *decision.MonthlyInstallment,
		StartDate:        startDate,
		EndDate:          endDate,
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("ошибка при начале транзакции")
	}

	// Сохраняем кредит
	if err := tx.Create(loan).Error; err != nil {
		tx.Rollback()
		return nil, errors.New("ошибка при создании кредита")
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, errors.New("ошибка при подтверждении транзакции")
	}

	// Сбрасываем закэшированный рейтинг: история кредитов изменилась
	if s.cache != nil {
		if err := s.cache.Invalidate(dto.CustomerID); err != nil {
			log.Printf("Ошибка сброса кэша рейтинга: %v", err)
		}
	}

	utils.GetMetrics().RecordLoanIssued(loan.LoanAmount)

	// Отправляем уведомление, если у клиента указан email
	s.notifyCustomer(loan)

	return &CreateLoanResponseDTO{
		LoanID:             &loan.LoanID,
		CustomerID:         dto.CustomerID,
		LoanApproved:       true,
		Message:            MsgLoanApproved,
		MonthlyInstallment: decision.MonthlyInstallment,
	}, nil
}

// notifyCustomer отправляет клиенту уведомление о выданном кредите
func (s *LoanService) notifyCustomer(loan *models.Loan) {
	if s.email == nil {
		return
	}

	var customer models.Customer
	if err := s.db.First(&customer, loan.CustomerID).Error; err != nil {
		log.Printf("Ошибка загрузки клиента для уведомления: %v", err)
		return
	}
	if customer.Email == "" {
		return
	}

	if err := s.email.SendLoanApprovedNotification(customer.Email, loan.LoanID, loan.LoanAmount, loan.MonthlyRepayment, loan.Tenure); err != nil {
		// Логируем ошибку, но не прерываем выдачу
		log.Printf("Ошибка при отправке уведомления: %v", err)
	}
}

// notifyRejection отправляет клиенту уведомление об отказе
func (s *LoanService) notifyRejection(customerID uint, reason string) {
	if s.email == nil {
		return
	}

	var customer models.Customer
	if err := s.db.First(&customer, customerID).Error; err != nil {
		log.Printf("Ошибка загрузки клиента для уведомления: %v", err)
		return
	}
	if customer.Email == "" {
		return
	}

	if reason == "" {
		reason = MsgLoanNotApproved
	}
	if err := s.email.SendLoanRejectedNotification(customer.Email, reason); err != nil {
		log.Printf("Ошибка при отправке уведомления: %v", err)
	}
}

// GetLoanByID возвращает кредит с данными клиента
func (s *LoanService) GetLoanByID(loanID uint) (*LoanDetailDTO, error) {
	var loan models.Loan
	if err := s.db.Preload("Customer").First(&loan, loanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	return &LoanDetailDTO{
		LoanID: loan.LoanID,
		Customer: CustomerDTO{
			CustomerID:    loan.Customer.CustomerID,
			FirstName:     loan.Customer.FirstName,
			LastName:      loan.Customer.LastName,
			Age:           loan.Customer.Age,
			MonthlySalary: loan.Customer.MonthlySalary,
			ApprovedLimit: loan.Customer.ApprovedLimit,
			PhoneNumber:   loan.Customer.PhoneNumber,
		},
		LoanAmount:         loan.LoanAmount,
		Tenure:             loan.Tenure,
		InterestRate:       loan.InterestRate,
		MonthlyInstallment: loan.MonthlyRepayment,
		EmisPaidOnTime:     loan.EmisPaidOnTime,
		StartDate:          loan.StartDate,
		EndDate:            loan.EndDate,
	}, nil
}

// repaymentsLeft считает число оставшихся платежей как количество полных
// месяцев между текущей датой и датой окончания кредита
func repaymentsLeft(endDate, today time.Time) int {
	months := (endDate.Year()-today.Year())*12 + int(endDate.Month()) - int(today.Month())
	if months < 0 {
		months = 0
	}
	return months
}

// GetLoansByCustomerID возвращает все кредиты клиента
func (s *LoanService) GetLoansByCustomerID(customerID uint) ([]CustomerLoanDTO, error) {
	// Проверяем существование клиента
	var customer models.Customer
	if err := s.db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	var loans []models.Loan
	if err := s.db.Where("customer_id = ?", customerID).
		Order("start_date ASC").
		Find(&loans).Error; err != nil {
		return nil, err
	}

	today := s.now()
	result := make([]CustomerLoanDTO, len(loans))
	for i, loan := range loans {
		result[i] = CustomerLoanDTO{
			LoanID:             loan.LoanID,
			LoanAmount:         loan.LoanAmount,
			InterestRate:       loan.InterestRate,
			MonthlyInstallment: loan.MonthlyRepayment,
			RepaymentsLeft:     repaymentsLeft(loan.EndDate, today),
		}
	}

	return result, nil
}
