package models

import "time"

// Payment statuses mirror the chain API's transaction statuses.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Payment is one recorded payroll execution (or imported on-chain
// transaction). TxID is the blockchain transaction id when known.
type Payment struct {
	ID         int       `json:"id"`
	ScheduleID *int      `json:"schedule_id,omitempty"`
	TxID       string    `json:"tx_id,omitempty"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
}
