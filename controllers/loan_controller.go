package controllers

import (
	"creditProject/services"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// LoanController обрабатывает запросы, связанные с заявками и кредитами
type LoanController struct {
	eligibilityService *services.EligibilityService
	loanService        *services.LoanService
}

// NewLoanController создает новый экземпляр LoanController
func NewLoanController(eligibility *services.EligibilityService, loans *services.LoanService) *LoanController {
	return &LoanController{
		eligibilityService: eligibility,
		loanService:        loans,
	}
}

// writeServiceError переводит ошибки бизнес-слоя в HTTP статусы
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Customer not found"})
	case errors.Is(err, services.ErrLoanNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Loan not found"})
	case errors.Is(err, services.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeJSON отправляет JSON-ответ с указанным статусом
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// CheckEligibility обрабатывает запрос на проверку кредитоспособности
func (c *LoanController) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	var dto services.CheckEligibilityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	decision, err := c.eligibilityService.CheckEligibility(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Отказ по правилам — это успешный ответ с approval=false
	writeJSON(w, http.StatusOK, decision)
}

// CreateLoan обрабатывает заявку на выдачу кредита
func (c *LoanController) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var dto services.CreateLoanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := c.loanService.CreateLoan(dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.LoanApproved {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// ViewLoan обрабатывает запрос на просмотр кредита
func (c *LoanController) ViewLoan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.ParseUint(vars["loan_id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}

	loan, err := c.loanService.GetLoanByID(uint(loanID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loan)
}

// ViewLoans обрабатывает запрос на просмотр кредитов клиента
func (c *LoanController) ViewLoans(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID, err := strconv.ParseUint(vars["customer_id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}

	loans, err := c.loanService.GetLoansByCustomerID(uint(customerID))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loans)
}
