package events

import "time"

type OrderPaid struct {
	OrderID string    `json:"orderId"`
	UserID  string    `json:"userId"`
	Total   float64   `json:"total"`
	At      time.Time `json:"at"`
}
