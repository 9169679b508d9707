package models

import "time"

// Recipient is a payee on the payroll: a team member with a wallet
// address payments are sent to. BTCAddress and Email are optional.
type Recipient struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	WalletAddress string    `json:"wallet_address"`
	BTCAddress    string    `json:"btc_address,omitempty"`
	Rate          float64   `json:"rate"`
	CreatedAt     time.Time `json:"created_at"`
}
