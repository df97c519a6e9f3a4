// Package payment talks to the external payment gateway. Orders only ever
// trust the gateway's answer to "retrieve intent", never the client's
// claim that a payment went through.
package payment

import "context"

const StatusSucceeded = "succeeded"

// Intent mirrors the gateway's payment-intent resource. Amount is in minor
// units (paise).
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
