package services

import (
	"creditProject/database"
	"creditProject/models"
	"log"
	"time"

	"gorm.io/gorm"
)

// ScoringService рассчитывает кредитный рейтинг клиента по истории его кредитов
type ScoringService struct {
	db    *gorm.DB
	cache *database.ScoreCache
}

// NewScoringService создает новый экземпляр ScoringService.
// Кэш может быть nil, тогда рейтинг считается заново при каждом обращении.
func NewScoringService(db *gorm.DB, cache *database.ScoreCache) *ScoringService {
	return &ScoringService{
		db:    db,
		cache: cache,
	}
}

// CalculateCreditScore рассчитывает рейтинг в диапазоне [0, 100] по переданному
// снимку истории кредитов. Функция чистая: текущая дата передается явно,
// чтобы проверки активности кредитов и активности за год были детерминированными.
func CalculateCreditScore(customer *models.Customer, loans []models.Loan, today time.Time) int {
	// Сумма основного долга по активным кредитам
	var activePrincipal float64
	for _, loan := range loans {
		if loan.IsActive(today) {
			activePrincipal += loan.LoanAmount
		}
	}

	// Превышение одобренного лимита обнуляет рейтинг независимо от истории
	if activePrincipal > customer.ApprovedLimit {
		return 0
	}

	// Базовый рейтинг
	score := 50.0

	totalEmisOnTime := 0
	currentYearLoans := 0
	for _, loan := range loans {
		totalEmisOnTime += loan.EmisPaidOnTime
		if loan.StartDate.Year() == today.Year() {
			currentYearLoans++
		}
	}

	// Бонус за платежную дисциплину: 1 балл за каждые 10 EMI, уплаченных вовремя
	score += float64(totalEmisOnTime) / 10

	// Штраф за количество кредитов в истории
	score -= float64(len(loans)) * 5

	// Штраф за кредитную активность в текущем году
	score -= float64(currentYearLoans) * 3

	// Дробная часть отбрасывается (усечение к нулю), затем результат
	// ограничивается диапазоном [0, 100]
	result := int(score)
	if result < 0 {
		result = 0
	}
	if result > 100 {
		result = 100
	}
	return result
}

// ScoreForCustomer возвращает рейтинг клиента, используя кэш, если он настроен
func (s *ScoringService) ScoreForCustomer(customer *models.Customer, today time.Time) (int, error) {
	if s.cache != nil {
		if score, ok := s.cache.Get(customer.CustomerID); ok {
			return score, nil
		}
	}

	// Загружаем всю историю кредитов клиента
	var loans []models.Loan
	if err := s.db.Where("customer_id = ?", customer.CustomerID).Find(&loans).Error; err != nil {
		return 0, err
	}

	score := CalculateCreditScore(customer, loans, today)

	if s.cache != nil {
		if err := s.cache.Set(customer.CustomerID, score); err != nil {
			// Ошибка кэша не критична для расчета
			log.Printf("Ошибка записи рейтинга в кэш: %v", err)
		}
	}

	return score, nil
}
