package controllers

import (
	"creditProject/database"
	"creditProject/services"
	"encoding/json"
	"errors"
	"net/http"
)

// CustomerController обрабатывает запросы, связанные с клиентами
type CustomerController struct {
	customerService *services.CustomerService
}

// NewCustomerController создает новый экземпляр CustomerController
func NewCustomerController(db *database.Database) *CustomerController {
	return &CustomerController{
		customerService: services.NewCustomerService(db),
	}
}

// Register обрабатывает запрос на регистрацию клиента
func (c *CustomerController) Register(w http.ResponseWriter, r *http.Request) {
	var dto services.RegisterCustomerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	customer, err := c.customerService.Register(dto)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем ответ
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(customer)
}
