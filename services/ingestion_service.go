package services

import (
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"creditProject/database"
	"creditProject/models"
	"creditProject/utils"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Имена файлов выгрузки в директории данных
const (
	customerDataFile = "customer_data.csv"
	loanDataFile     = "loan_data.csv"
)

// Поддерживаемые форматы дат в выгрузке
var ingestDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// IngestionResult содержит итоги одного запуска импорта
type IngestionResult struct {
	CustomersUpserted int `json:"customers_upserted"`
	LoansUpserted     int `json:"loans_upserted"`
	RowsSkipped       int `json:"rows_skipped"`
}

// IngestionService импортирует клиентов и кредиты из табличных выгрузок.
// Строки обновляются по бизнес-ключу (customer_id / loan_id), поэтому
// повторный импорт того же файла идемпотентен. Ошибочная строка
// пропускается с записью в лог и не прерывает весь импорт.
type IngestionService struct {
	db      *database.Database
	cache   *database.ScoreCache
	dataDir string
	workers int
}

// NewIngestionService создает новый экземпляр IngestionService
func NewIngestionService(db *database.Database, cache *database.ScoreCache, dataDir string, workers int) *IngestionService {
	if workers < 1 {
		workers = 1
	}
	return &IngestionService{
		db:      db,
		cache:   cache,
		dataDir: dataDir,
		workers: workers,
	}
}

// IngestAll импортирует сначала клиентов, затем кредиты
func (s *IngestionService) IngestAll() (*IngestionResult, error) {
	result := &IngestionResult{}

	if err := s.IngestCustomers(result); err != nil {
		return result, err
	}
	if err := s.IngestLoans(result); err != nil {
		return result, err
	}

	utils.GetMetrics().RecordIngestion(result.CustomersUpserted+result.LoansUpserted, result.RowsSkipped)

	return result, nil
}

// IngestCustomers импортирует клиентов через пул воркеров
func (s *IngestionService) IngestCustomers(result *IngestionResult) error {
	header, rows, err := readCSV(filepath.Join(s.dataDir, customerDataFile))
	if err != nil {
		return errors.Wrap(err, "чтение файла клиентов")
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return errors.Wrap(err, "создание пула воркеров")
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	upserted, skipped := 0, 0

	for i, row := range rows {
		wg.Add(1)
		rowNum, record := i+2, row
		if err := pool.Submit(func() {
			defer wg.Done()

			customer, err := parseCustomerRow(header, record)
			if err != nil {
				log.Printf("Строка %d файла %s пропущена: %v", rowNum, customerDataFile, err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return
			}

			if err := s.db.UpsertCustomer(customer); err != nil {
				log.Printf("Строка %d файла %s не сохранена: %v", rowNum, customerDataFile, err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return
			}

			s.invalidateScore(customer.CustomerID)

			mu.Lock()
			upserted++
			mu.Unlock()
		}); err != nil {
			wg.Done()
			return errors.Wrap(err, "постановка задачи в пул")
		}
	}

	wg.Wait()

	result.CustomersUpserted += upserted
	result.RowsSkipped += skipped
	return nil
}

// IngestLoans импортирует кредиты. Кредит с неизвестным клиентом
// пропускается с записью в лог.
func (s *IngestionService) IngestLoans(result *IngestionResult) error {
	header, rows, err := readCSV(filepath.Join(s.dataDir, loanDataFile))
	if err != nil {
		return errors.Wrap(err, "чтение файла кредитов")
	}

	for i, record := range rows {
		rowNum := i + 2

		loan, err := parseLoanRow(header, record)
		if err != nil {
			log.Printf("Строка %d файла %s пропущена: %v", rowNum, loanDataFile, err)
			result.RowsSkipped++
			continue
		}

		// Проверяем, что клиент существует
		if _, err := s.db.GetCustomerByID(loan.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Клиент %d не найден для кредита %d, строка пропущена", loan.CustomerID, loan.LoanID)
				result.RowsSkipped++
				continue
			}
			return errors.Wrap(err, "поиск клиента")
		}

		if err := s.db.UpsertLoan(loan); err != nil {
			log.Printf("Строка %d файла %s не сохранена: %v", rowNum, loanDataFile, err)
			result.RowsSkipped++
			continue
		}

		s.invalidateScore(loan.CustomerID)
		result.LoansUpserted++
	}

	return nil
}

// invalidateScore сбрасывает закэшированный рейтинг клиента
func (s *IngestionService) invalidateScore(customerID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(customerID); err != nil {
		log.Printf("Ошибка сброса кэша рейтинга для клиента %d: %v", customerID, err)
	}
}

// readCSV читает файл целиком и возвращает индекс колонок по заголовку
func readCSV(path string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New("файл пуст")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[name] = i
	}

	return header, records[1:], nil
}

// field возвращает значение колонки по имени
func field(header map[string]int, record []string, name string) (string, error) {
	idx, ok := header[name]
	if !ok {
		return "", errors.Errorf("колонка %q отсутствует", name)
	}
	if idx >= len(record) {
		return "", errors.Errorf("колонка %q вне диапазона строки", name)
	}
	return record[idx], nil
}

func parseUintField(header map[string]int, record []string, name string) (uint, error) {
	raw, err := field(header, record, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "колонка %q", name)
	}
	return uint(v), nil
}

func parseIntField(header map[string]int, record []string, name string) (int, error) {
	raw, err := field(header, record, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "колонка %q", name)
	}
	return v, nil
}

func parseFloatField(header map[string]int, record []string, name string) (float64, error) {
	raw, err := field(header, record, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "колонка %q", name)
	}
	return v, nil
}

func parseDateField(header map[string]int, record []string, name string) (time.Time, error) {
	raw, err := field(header, record, name)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range ingestDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("колонка %q: нераспознанная дата %q", name, raw)
}

// parseCustomerRow разбирает строку файла клиентов
func parseCustomerRow(header map[string]int, record []string) (*models.Customer, error) {
	customerID, err := parseUintField(header, record, "Customer ID")
	if err != nil {
		return nil, err
	}
	firstName, err := field(header, record, "First Name")
	if err != nil {
		return nil, err
	}
	lastName, err := field(header, record, "Last Name")
	if err != nil {
		return nil, err
	}
	phone, err := parseIntField(header, record, "Phone Number")
	if err != nil {
		return nil, err
	}
	salary, err := parseFloatField(header, record, "Monthly Salary")
	if err != nil {
		return nil, err
	}
	limit, err := parseFloatField(header, record, "Approved Limit")
	if err != nil {
		return nil, err
	}

	return &models.Customer{
		CustomerID:    customerID,
		FirstName:     firstName,
		LastName:      lastName,
		PhoneNumber:   int64(phone),
		MonthlySalary: salary,
		ApprovedLimit: limit,
	}, nil
}

// parseLoanRow разбирает строку файла кредитов
func parseLoanRow(header map[string]int, record []string) (*models.Loan, error) {
	loanID, err := parseUintField(header, record, "Loan ID")
	if err != nil {
		return nil, err
	}
	customerID, err := parseUintField(header, record, "Customer ID")
	if err != nil {
		return nil, err
	}
	amount, err := parseFloatField(header, record, "Loan Amount")
	if err != nil {
		return nil, err
	}
	tenure, err := parseIntField(header, record, "Tenure")
	if err != nil {
		return nil, err
	}
	rate, err := parseFloatField(header, record, "Interest Rate")
	if err != nil {
		return nil, err
	}
	repayment, err := parseFloatField(header, record, "Monthly payment")
	if err != nil {
		return nil, err
	}
	emisOnTime, err := parseIntField(header, record, "EMIs paid on Time")
	if err != nil {
		return nil, err
	}
	startDate, err := parseDateField(header, record, "Date of Approval")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDateField(header, record, "End Date")
	if err != nil {
		return nil, err
	}

	return &models.Loan{
		LoanID:           loanID,
		CustomerID:       customerID,
		LoanAmount:       amount,
		Tenure:           tenure,
		InterestRate:     rate,
		MonthlyRepayment: repayment,
		EmisPaidOnTime:   emisOnTime,
		StartDate:        startDate,
		EndDate:          endDate,
	}, nil
}
