package services

import (
	"log"
	"time"
)

// IngestionSchedulerService периодически перезапускает импорт данных
type IngestionSchedulerService struct {
	ingestion *IngestionService
	interval  time.Duration
}

// NewIngestionSchedulerService создает новый экземпляр IngestionSchedulerService
func NewIngestionSchedulerService(ingestion *IngestionService, intervalHours int) *IngestionSchedulerService {
	if intervalHours < 1 {
		intervalHours = 24
	}
	return &IngestionSchedulerService{
		ingestion: ingestion,
		interval:  time.Duration(intervalHours) * time.Hour,
	}
}

// Start запускает планировщик импорта
func (s *IngestionSchedulerService) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		// Первый импорт выполняем сразу при старте
		s.runOnce()

		for {
			select {
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()
}

// runOnce выполняет один цикл импорта
func (s *IngestionSchedulerService) runOnce() {
	result, err := s.ingestion.IngestAll()
	if err != nil {
		log.Printf("Ошибка при импорте данных: %v", err)
		return
	}
	log.Printf("Импорт завершен: клиентов %d, кредитов %d, пропущено строк %d",
		result.CustomersUpserted, result.LoansUpserted, result.RowsSkipped)
}
