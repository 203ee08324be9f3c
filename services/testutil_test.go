package services

import (
	"testing"

	"creditProject/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB создает изолированную in-memory базу для теста
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("ошибка открытия тестовой базы: %v", err)
	}

	if err := db.AutoMigrate(&models.Operator{}, &models.Customer{}, &models.Loan{}); err != nil {
		t.Fatalf("ошибка миграции тестовой базы: %v", err)
	}

	return db
}
