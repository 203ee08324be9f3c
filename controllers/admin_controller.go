package controllers

import (
	"creditProject/services"
	"creditProject/utils"
	"log"
	"net/http"
)

// AdminController обрабатывает служебные запросы операторов
type AdminController struct {
	ingestionService *services.IngestionService
}

// NewAdminController создает новый экземпляр AdminController
func NewAdminController(ingestion *services.IngestionService) *AdminController {
	return &AdminController{
		ingestionService: ingestion,
	}
}

// TriggerIngestion запускает импорт данных в фоне
func (c *AdminController) TriggerIngestion(w http.ResponseWriter, r *http.Request) {
	go func() {
		result, err := c.ingestionService.IngestAll()
		if err != nil {
			log.Printf("Ошибка при импорте данных: %v", err)
			return
		}
		log.Printf("Импорт завершен: клиентов %d, кредитов %d, пропущено строк %d",
			result.CustomersUpserted, result.LoansUpserted, result.RowsSkipped)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "ingestion started"})
}

// Metrics возвращает снимок метрик приложения
func (c *AdminController) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.GetMetrics().GetMetricsSnapshot())
}
