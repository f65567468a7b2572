package entity

import "time"

// CreditScore valor derivado y cacheable del puntaje de un cliente (0-100).
// No es fuente de verdad: siempre puede recalcularse desde el historial de préstamos.
type CreditScore struct {
	CustomerID   string    `json:"customer_id"`
	Score        int       `json:"score"`
	CalculatedAt time.Time `json:"calculated_at"`
}
