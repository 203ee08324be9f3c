package services

import (
	"creditProject/config"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	config *config.Config
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
		config: cfg,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// SendLoanApprovedNotification отправляет уведомление об одобренном кредите
func (s *EmailService) SendLoanApprovedNotification(to string, loanID uint, amount float64, installment float64, tenureMonths int) error {
	subject := "Ваш кредит одобрен"
	body := fmt.Sprintf(`
		<h2>Поздравляем! Ваш кредит одобрен</h2>
		<p>Номер кредита: %d</p>
		<p>Сумма кредита: %.2f</p>
		<p>Ежемесячный платеж: %.2f</p>
		<p>Срок кредита: %d месяцев</p>
		<p>Дата: %s</p>
	`, loanID, amount, installment, tenureMonths, time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}

// SendLoanRejectedNotification отправляет уведомление об отказе
func (s *EmailService) SendLoanRejectedNotification(to string, reason string) error {
	subject := "Решение по вашей заявке на кредит"
	body := fmt.Sprintf(`
		<h2>К сожалению, заявка отклонена</h2>
		<p>Причина: %s</p>
		<p>Если у вас возникнут вопросы, пожалуйста, свяжитесь с нами.</p>
	`, reason)

	return s.SendEmail(to, subject, body)
}
