package services

import (
	"errors"
	"testing"

	"creditProject/database"
)

func TestComputeApprovedLimit(t *testing.T) {
	cases := []struct {
		salary float64
		want   float64
	}{
		{50000, 1800000},  // 36 * 50000 ровно на границе сотни тысяч
		{61000, 2200000},  // 2196000 округляется вверх
		{30000, 1100000},  // 1080000 округляется вверх
		{25000, 900000},   // ровно 900000
		{100000, 3600000}, // без округления
	}
	for _, c := range cases {
		if got := ComputeApprovedLimit(c.salary); got != c.want {
			t.Errorf("ComputeApprovedLimit(%v) = %v, want %v", c.salary, got, c.want)
		}
	}
}

func TestRegisterCreatesCustomer(t *testing.T) {
	db := &database.Database{DB: newTestDB(t)}
	svc := NewCustomerService(db)

	age := 30
	resp, err := svc.Register(RegisterCustomerDTO{
		FirstName:     "Maria",
		LastName:      "Ivanova",
		Age:           &age,
		PhoneNumber:   79005551122,
		MonthlyIncome: 50000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.CustomerID == 0 {
		t.Error("клиент должен получить ID")
	}
	if resp.Name != "Maria Ivanova" {
		t.Errorf("name = %q, want %q", resp.Name, "Maria Ivanova")
	}
	if resp.ApprovedLimit != 1800000 {
		t.Errorf("approved limit = %v, want 1800000", resp.ApprovedLimit)
	}

	// Лимит сохранен в базе вместе с клиентом
	saved, err := db.GetCustomerByID(resp.CustomerID)
	if err != nil {
		t.Fatalf("клиент не найден в базе: %v", err)
	}
	if saved.ApprovedLimit != 1800000 {
		t.Errorf("сохраненный лимит = %v, want 1800000", saved.ApprovedLimit)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	db := &database.Database{DB: newTestDB(t)}
	svc := NewCustomerService(db)

	dto := RegisterCustomerDTO{
		FirstName:     "Oleg",
		LastName:      "Smirnov",
		PhoneNumber:   79007772233,
		MonthlyIncome: 40000,
	}
	if _, err := svc.Register(dto); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Register(dto); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestRegisterInvalidInput(t *testing.T) {
	db := &database.Database{DB: newTestDB(t)}
	svc := NewCustomerService(db)

	cases := []RegisterCustomerDTO{
		{FirstName: "A", LastName: "Ivanova", PhoneNumber: 79001234567, MonthlyIncome: 50000},
		{FirstName: "Maria", LastName: "Ivanova", PhoneNumber: 79001234567, MonthlyIncome: 0},
		{FirstName: "Maria", LastName: "Ivanova", PhoneNumber: 0, MonthlyIncome: 50000},
		{FirstName: "Maria", LastName: "Ivanova", PhoneNumber: 79001234567, MonthlyIncome: 50000, Email: "not-an-email"},
	}
	for _, dto := range cases {
		if _, err := svc.Register(dto); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("dto %+v: err = %v, want ErrInvalidInput", dto, err)
		}
	}
}
