package models

import "time"

// Статусы платежа. Переходы только вперёд:
// pending -> waiting_confirmation -> confirmed | rejected.
const (
	PaymentStatusPending             = "pending"
	PaymentStatusWaitingConfirmation = "waiting_confirmation"
	PaymentStatusConfirmed           = "confirmed"
	PaymentStatusRejected            = "rejected"
)

// Payment представляет заявку на оплату тарифа банковским переводом.
// Amount равен цене тарифа плюс случайный трёхзначный код,
// по которому перевод различим без платёжного референса.
type Payment struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	PlanID      string     `json:"plan_id"`
	PlanName    string     `json:"plan_name,omitempty"`
	Amount      int        `json:"amount"`
	BankName    string     `json:"bank_name"`
	ProofURL    *string    `json:"proof_url,omitempty"`
	Status      string     `json:"status"`
	ConfirmedBy *string    `json:"confirmed_by,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BankInfo реквизиты счёта для ручного банковского перевода.
type BankInfo struct {
	Bank   string `json:"bank"`
	Number string `json:"number"`
	Name   string `json:"name"`
}
