package services

import (
	"math"
)

// roundTo2Decimals округляет float64 до 2 знаков (валютная точность)
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// CalculateMonthlyInstallment рассчитывает размер аннуитетного платежа (EMI)
// по сумме кредита, годовой ставке в процентах и сроку в месяцах.
// При нулевом сроке графика платежей нет, результат 0.
func CalculateMonthlyInstallment(amount float64, annualRatePercent float64, tenureMonths int) float64 {
	if tenureMonths == 0 {
		return 0
	}

	// Конвертируем годовую ставку в месячную (в долях)
	monthlyRate := annualRatePercent / 100 / 12

	// Беспроцентный кредит: равные доли без начисления процентов
	if monthlyRate == 0 {
		return roundTo2Decimals(amount / float64(tenureMonths))
	}

	// Рассчитываем коэффициент аннуитета
	annuityCoefficient := (monthlyRate * math.Pow(1+monthlyRate, float64(tenureMonths))) / (math.Pow(1+monthlyRate, float64(tenureMonths)) - 1)

	return roundTo2Decimals(amount * annuityCoefficient)
}
