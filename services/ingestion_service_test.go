package services

import (
	"os"
	"path/filepath"
	"testing"

	"creditProject/database"
	"creditProject/models"
)

const customerCSV = `Customer ID,First Name,Last Name,Phone Number,Monthly Salary,Approved Limit
1,Aarav,Sharma,9123456789,50000,1800000
2,Priya,Mehta,9123456780,75000,2700000
`

const loanCSV = `Customer ID,Loan ID,Loan Amount,Tenure,Interest Rate,Monthly payment,EMIs paid on Time,Date of Approval,End Date
1,101,500000,24,12,23536.74,20,2022-03-01,2024-03-01
2,102,300000,12,10,26374.84,8,2023-05-15,2024-05-15
99,103,100000,12,10,8791.59,3,2023-01-01,2024-01-01
`

// writeDataFiles кладет тестовые выгрузки во временную директорию
func writeDataFiles(t *testing.T, customers, loans string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, customerDataFile), []byte(customers), 0644); err != nil {
		t.Fatalf("ошибка записи файла клиентов: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, loanDataFile), []byte(loans), 0644); err != nil {
		t.Fatalf("ошибка записи файла кредитов: %v", err)
	}
	return dir
}

func TestIngestAll(t *testing.T) {
	db := &database.Database{DB: newTestDB(t)}
	dir := writeDataFiles(t, customerCSV, loanCSV)

	svc := NewIngestionService(db, nil, dir, 1)
	result, err := svc.IngestAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CustomersUpserted != 2 {
		t.Errorf("клиентов импортировано = %d, want 2", result.CustomersUpserted)
	}
	if result.LoansUpserted != 2 {
		t.Errorf("кредитов импортировано = %d, want 2", result.LoansUpserted)
	}
	// Кредит 103 ссылается на несуществующего клиента 99 и пропускается
	if result.RowsSkipped != 1 {
		t.Errorf("пропущено строк = %d, want 1", result.RowsSkipped)
	}

	customer, err := db.GetCustomerByID(1)
	if err != nil {
		t.Fatalf("клиент 1 не найден: %v", err)
	}
	if customer.MonthlySalary != 50000 {
		t.Errorf("доход = %v, want 50000", customer.MonthlySalary)
	}

	loan, err := db.GetLoanByID(101)
	if err != nil {
		t.Fatalf("кредит 101 не найден: %v", err)
	}
	if loan.EmisPaidOnTime != 20 {
		t.Errorf("EMI вовремя = %d, want 20", loan.EmisPaidOnTime)
	}
}

func TestIngestAllIdempotent(t *testing.T) {
	db := &database.Database{DB: newTestDB(t)}
	dir := writeDataFiles(t, customerCSV, loanCSV)

	svc := NewIngestionService(db, nil, dir, 1)
	if _, err := svc.IngestAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.IngestAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Повторный импорт не создает дубликатов: обновление по бизнес-ключу
	var customers, loans int64
	db.DB.Model(&models.Customer{}).Count(&customers)
	db.DB.Model(&models.Loan{}).Count(&loans)
	if customers != 2 {
		t.Errorf("клиентов = %d, want 2", customers)
	}
	if loans != 2 {
		t.Errorf("кредитов = %d, want 2", loans)
	}
}

func TestIngestAllUpdatesChangedRows(t *testing.T) {
	db := &database.Database{DB: newTestDB(t)}
	dir := writeDataFiles(t, customerCSV, loanCSV)

	svc := NewIngestionService(db, nil, dir, 1)
	if _, err := svc.IngestAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Свежая выгрузка с изменившимся доходом клиента 1
	updated := `Customer ID,First Name,Last Name,Phone Number,Monthly Salary,Approved Limit
1,Aarav,Sharma,9123456789,65000,2300000
`
	if err := os.WriteFile(filepath.Join(dir, customerDataFile), []byte(updated), 0644); err != nil {
		t.Fatalf("ошибка перезаписи файла клиентов: %v", err)
	}

	if _, err := svc.IngestAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	customer, err := db.GetCustomerByID(1)
	if err != nil {
		t.Fatalf("клиент 1 не найден: %v", err)
	}
	if customer.MonthlySalary != 65000 {
		t.Errorf("доход после обновления = %v, want 65000", customer.MonthlySalary)
	}
	if customer.ApprovedLimit != 2300000 {
		t.Errorf("лимит после обновления = %v, want 2300000", customer.ApprovedLimit)
	}
}

func TestIngestSkipsMalformedRows(t *testing.T) {
	db := &database.Database{DB: newTestDB(t)}

	badCustomers := `Customer ID,First Name,Last Name,Phone Number,Monthly Salary,Approved Limit
1,Aarav,Sharma,9123456789,50000,1800000
abc,Broken,Row,9000000000,1000,100000
`
	emptyLoans := `Customer ID,Loan ID,Loan Amount,Tenure,Interest Rate,Monthly payment,EMIs paid on Time,Date of Approval,End Date
`
	dir := writeDataFiles(t, badCustomers, emptyLoans)

	svc := NewIngestionService(db, nil, dir, 1)
	result, err := svc.IngestAll()
	if err != nil {
		t.Fatalf("ошибка строки не должна прерывать импорт: %v", err)
	}

	if result.CustomersUpserted != 1 {
		t.Errorf("клиентов импортировано = %d, want 1", result.CustomersUpserted)
	}
	if result.RowsSkipped != 1 {
		t.Errorf("пропущено строк = %d, want 1", result.RowsSkipped)
	}
}
