// Package models содержит доменные структуры: пользователи, тарифные планы,
// платежи и товары продавца, а также вспомогательные типы для приёма
// данных из JSON-запросов.
package models

import "time"

// Роли пользователя. Админская роль нужна только для подтверждения
// и отклонения платежей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// PlanFree идентификатор базового тарифа, назначается при регистрации.
const PlanFree = "free"

// User представляет аккаунт продавца.
// Поле PasswordHash никогда не сериализуется в ответах API.
// PlanExpiresAt может быть nil — бесплатный тариф не истекает.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Name          string     `json:"name"`
	Phone         *string    `json:"phone,omitempty"`
	Plan          string     `json:"plan"`
	Role          string     `json:"role"`
	PlanExpiresAt *time.Time `json:"plan_expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
