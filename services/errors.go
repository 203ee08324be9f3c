package services

import "errors"

// Ошибки бизнес-слоя. Отказ в выдаче кредита ошибкой не является —
// он возвращается как успешный ответ с approval=false.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrInvalidInput     = errors.New("invalid input")
)
