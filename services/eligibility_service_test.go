package services

import (
	"errors"
	"testing"
	"time"

	"creditProject/models"

	"gorm.io/gorm"
)

var eligRefDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

// newEligibilityService собирает сервис с фиксированной датой
func newEligibilityService(db *gorm.DB) *EligibilityService {
	svc := NewEligibilityService(db, NewScoringService(db, nil))
	svc.now = func() time.Time { return eligRefDate }
	return svc
}

func createTestCustomer(t *testing.T, db *gorm.DB, salary, limit float64) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		FirstName:     "Ivan",
		LastName:      "Sidorov",
		PhoneNumber:   time.Now().UnixNano(), // уникальный номер для каждого теста
		MonthlySalary: salary,
		ApprovedLimit: limit,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("ошибка создания клиента: %v", err)
	}
	return customer
}

func createTestLoan(t *testing.T, db *gorm.DB, customerID uint, amount, repayment float64, emisOnTime int, start, end time.Time) {
	t.Helper()
	loan := &models.Loan{
		CustomerID:       customerID,
		LoanAmount:       amount,
		Tenure:           12,
		InterestRate:     10,
		MonthlyRepayment: repayment,
		EmisPaidOnTime:   emisOnTime,
		StartDate:        start,
		EndDate:          end,
	}
	if err := db.Create(loan).Error; err != nil {
		t.Fatalf("ошибка создания кредита: %v", err)
	}
}

func TestCheckEligibilityHighDebtToIncome(t *testing.T) {
	db := newTestDB(t)
	svc := newEligibilityService(db)

	customer := createTestCustomer(t, db, 50000, 1800000)
	// Активный кредит с платежом больше половины дохода
	createTestLoan(t, db, customer.CustomerID, 600000, 26000, 100,
		eligRefDate.AddDate(-1, 0, 0), eligRefDate.AddDate(1, 0, 0))

	decision, err := svc.CheckEligibility(CheckEligibilityDTO{
		CustomerID:   customer.CustomerID,
		LoanAmount:   100000,
		InterestRate: 10,
		Tenure:       12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if decision.Approval {
		t.Error("заявка должна быть отклонена при высокой долговой нагрузке")
	}
	if decision.Message != MsgHighDebtToIncome {
		t.Errorf("message = %q, want %q", decision.Message, MsgHighDebtToIncome)
	}
	if decision.MonthlyInstallment != nil {
		t.Error("платеж не должен рассчитываться для отклоненной заявки")
	}
	// Долговая нагрузка проверяется до рейтинга, ставка не корректируется
	if decision.CorrectedInterestRate != 10 {
		t.Errorf("corrected rate = %v, want 10", decision.CorrectedInterestRate)
	}
}

func TestCheckEligibilityNewCustomerBaseScore(t *testing.T) {
	db := newTestDB(t)
	svc := newEligibilityService(db)

	// Сценарий из ТЗ: клиент без истории, рейтинг ровно 50.
	// Граница ">50" исключающая, поэтому работает ступень (30, 50]
	// и ставка 10 поднимается до 12
	customer := createTestCustomer(t, db, 50000, 1800000)

	decision, err := svc.CheckEligibility(CheckEligibilityDTO{
		CustomerID:   customer.CustomerID,
		LoanAmount:   500000,
		InterestRate: 10,
		Tenure:       24,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !decision.Approval {
		t.Fatal("заявка должна быть одобрена")
	}
	if decision.InterestRate != 10 {
		t.Errorf("запрошенная ставка = %v, want 10", decision.InterestRate)
	}
	if decision.CorrectedInterestRate != 12.0 {
		t.Errorf("corrected rate = %v, want 12.0", decision.CorrectedInterestRate)
	}
	if decision.MonthlyInstallment == nil {
		t.Fatal("платеж должен быть рассчитан для одобренной заявки")
	}
	want := CalculateMonthlyInstallment(500000, 12.0, 24)
	if *decision.MonthlyInstallment != want {
		t.Errorf("платеж = %v, want %v", *decision.MonthlyInstallment, want)
	}
}

func TestCheckEligibilityHighScoreKeepsRate(t *testing.T) {
	db := newTestDB(t)
	svc := newEligibilityService(db)

	customer := createTestCustomer(t, db, 50000, 1800000)
	// 200 EMI вовремя: 50 + 20 - 5 = 65 > 50, ставка не меняется
	createTestLoan(t, db, customer.CustomerID, 100000, 100, 200,
		eligRefDate.AddDate(-3, 0, 0), eligRefDate.AddDate(-2, 0, 0))

	decision, err := svc.CheckEligibility(CheckEligibilityDTO{
		CustomerID:   customer.CustomerID,
		LoanAmount:   200000,
		InterestRate: 8,
		Tenure:       12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !decision.Approval {
		t.Fatal("заявка должна быть одобрена")
	}
	if decision.CorrectedInterestRate != 8 {
		t.Errorf("corrected rate = %v, want 8 (без коррекции)", decision.CorrectedInterestRate)
	}
}

func TestCheckEligibilityMidTierAboveFloorKeepsRate(t *testing.T) {
	db := newTestDB(t)
	svc := newEligibilityService(db)

	customer := createTestCustomer(t, db, 50000, 1800000)
	// Один завершенный кредит: 50 - 5 = 45, ступень (30, 50].
	// Запрошенная ставка выше порога 12 остается без изменений
	createTestLoan(t, db, customer.CustomerID, 100000, 100, 0,
		eligRefDate.AddDate(-3, 0, 0), eligRefDate.AddDate(-2, 0, 0))

	decision, err := svc.CheckEligibility(CheckEligibilityDTO{
		CustomerID:   customer.CustomerID,
		LoanAmount:   200000,
		InterestRate: 13.5,
		Tenure:       12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !decision.Approval {
		t.Fatal("заявка должна быть одобрена")
	}
	if decision.CorrectedInterestRate != 13.5 {
		t.Errorf("corrected rate = %v, want 13.5", decision.CorrectedInterestRate)
	}
}

func TestCheckEligibilityLowTierRaisesRate(t *testing.T) {
	db := newTestDB(t)
	svc := newEligibilityService(db)

	customer := createTestCustomer(t, db, 50000, 1800000)
	// Пять завершенных кредитов: 50 - 25 = 25, ступень (10, 30]
	for i := 0; i < 5; i++ {
		createTestLoan(t, db, customer.CustomerID, 50000, 100, 0,
			eligRefDate.AddDate(-3-i, 0, 0), eligRefDate.AddDate(-2-i, 0, 0))
	}

	decision, err := svc.CheckEligibility(CheckEligibilityDTO{
		CustomerID:   customer.CustomerID,
		LoanAmount:   100000,
		InterestRate: 11,
		Tenure:       12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !decision.Approval {
		t.Fatal("заявка должна быть одобрена")
	}
	if decision.CorrectedInterestRate != 16.0 {
		t.Errorf("corrected rate = %v, want 16.0", decision.CorrectedInterestRate)
	}
}

func TestCheckEligibilityOverLimitRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newEligibilityService(db)

	customer := createTestCustomer(t, db, 50000, 100000)
	// Активный долг выше лимита обнуляет рейтинг, заявка отклоняется
	createTestLoan(t, db, customer.CustomerID, 200000, 1000, 500,
		eligRefDate.AddDate(-1, 0, 0), eligRefDate.AddDate(1, 0, 0))

	decision, err := svc.CheckEligibility(CheckEligibilityDTO{
		CustomerID:   customer.CustomerID,
		LoanAmount:   50000,
		InterestRate: 10,
		Tenure:       12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if decision.Approval {
		t.Error("заявка должна быть отклонена при нулевом рейтинге")
	}
	if decision.MonthlyInstallment != nil {
		t.Error("платеж не должен рассчитываться для отклоненной заявки")
	}
}

func TestCheckEligibilityCustomerNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newEligibilityService(db)

	_, err := svc.CheckEligibility(CheckEligibilityDTO{
		CustomerID:   9999,
		LoanAmount:   100000,
		InterestRate: 10,
		Tenure:       12,
	})
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestCheckEligibilityInvalidInput(t *testing.T) {
	db := newTestDB(t)
	svc := newEligibilityService(db)

	cases := []CheckEligibilityDTO{
		{CustomerID: 1, LoanAmount: 0, InterestRate: 10, Tenure: 12},
		{CustomerID: 1, LoanAmount: -5, InterestRate: 10, Tenure: 12},
		{CustomerID: 1, LoanAmount: 100000, InterestRate: 0, Tenure: 12},
		{CustomerID: 1, LoanAmount: 100000, InterestRate: 10, Tenure: 0},
		{CustomerID: 1, LoanAmount: 100000, InterestRate: 10, Tenure: -3},
	}
	for _, dto := range cases {
		if _, err := svc.CheckEligibility(dto); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("dto %+v: err = %v, want ErrInvalidInput", dto, err)
		}
	}
}
