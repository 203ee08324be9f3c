package database

import (
	"creditProject/config"
	"creditProject/models"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Database представляет подключение к базе данных
type Database struct {
	DB *gorm.DB
}

// NewDatabase создает новое подключение к базе данных
func NewDatabase(cfg *config.Config) (*Database, error) {
	// Формируем строку подключения
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.DBName,
	)

	// Открываем подключение
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	return &Database{DB: db}, nil
}

// GetDB возвращает экземпляр GORM
func (d *Database) GetDB() *gorm.DB {
	return d.DB
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Connect устанавливает соединение с базой данных и выполняет миграции
func Connect(cfg *config.Config) (*gorm.DB, error) {
	// Формируем строку подключения
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.DBName,
	)

	// Настраиваем логгер
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// Устанавливаем соединение
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	// Настраиваем пул соединений
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пула соединений: %v", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Выполняем SQL миграции
	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("ошибка выполнения SQL миграций: %v", err)
	}

	// Выполняем автоматическую миграцию моделей
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("ошибка автоматической миграции моделей: %v", err)
	}

	return db, nil
}

// runMigrations выполняет SQL миграции
func runMigrations(cfg *config.Config) error {
	// Формируем URL для миграций
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.DBName,
	)

	// Создаем экземпляр миграции
	m, err := migrate.New(
		"file://migrations",
		dsn,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания миграции: %v", err)
	}

	// Выполняем миграции
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("ошибка выполнения миграций: %v", err)
	}

	return nil
}

// autoMigrate выполняет автоматическую миграцию моделей
func autoMigrate(db *gorm.DB) error {
	// Автоматическая миграция моделей
	err := db.AutoMigrate(
		&models.Operator{},
		&models.Customer{},
		&models.Loan{},
	)
	if err != nil {
		return fmt.Errorf("ошибка автоматической миграции: %v", err)
	}

	return nil
}

// Методы для работы с клиентами
func (d *Database) CreateCustomer(customer *models.Customer) error {
	return d.DB.Create(customer).Error
}

func (d *Database) GetCustomerByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	err := d.DB.First(&customer, id).Error
	return &customer, err
}

func (d *Database) GetCustomerByPhone(phone int64) (*models.Customer, error) {
	var customer models.Customer
	err := d.DB.Where("phone_number = ?", phone).First(&customer).Error
	return &customer, err
}

// UpsertCustomer создает или обновляет клиента по бизнес-ключу customer_id
func (d *Database) UpsertCustomer(customer *models.Customer) error {
	return d.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}},
		UpdateAll: true,
	}).Create(customer).Error
}

// Методы для работы с кредитами
func (d *Database) CreateLoan(loan *models.Loan) error {
	return d.DB.Create(loan).Error
}

func (d *Database) GetLoanByID(id uint) (*models.Loan, error) {
	var loan models.Loan
	err := d.DB.Preload("Customer").First(&loan, id).Error
	return &loan, err
}

func (d *Database) GetLoansByCustomerID(customerID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := d.DB.Where("customer_id = ?", customerID).
		Order("start_date ASC").
		Find(&loans).Error
	return loans, err
}

// GetActiveLoans возвращает кредиты клиента, у которых дата окончания не раньше asOf
func (d *Database) GetActiveLoans(customerID uint, asOf time.Time) ([]models.Loan, error) {
	var loans []models.Loan
	err := d.DB.Where("customer_id = ? AND end_date >= ?", customerID, asOf).
		Find(&loans).Error
	return loans, err
}

// UpsertLoan создает или обновляет кредит по бизнес-ключу loan_id
func (d *Database) UpsertLoan(loan *models.Loan) error {
	return d.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "loan_id"}},
		UpdateAll: true,
	}).Create(loan).Error
}

// Методы для работы с операторами
func (d *Database) CreateOperator(operator *models.Operator) error {
	return d.DB.Create(operator).Error
}

func (d *Database) GetOperatorByID(id uint) (*models.Operator, error) {
	var operator models.Operator
	err := d.DB.First(&operator, id).Error
	return &operator, err
}

func (d *Database) GetOperatorByEmail(email string) (*models.Operator, error) {
	var operator models.Operator
	err := d.DB.Where("email = ?", email).First(&operator).Error
	return &operator, err
}
