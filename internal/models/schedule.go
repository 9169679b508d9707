package models

import (
	"time"

	"github.com/payrail/payrail/internal/schedule"
)

// PaySchedule represents a recurring payroll intent.
type PaySchedule struct {
	ID        int                `json:"id"`
	Name      string             `json:"name"`
	Frequency schedule.Frequency `json:"frequency"`
	PayDay    int                `json:"pay_day"`
	Status    schedule.Status    `json:"status"`
	NextRunAt time.Time          `json:"next_run_at"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []ScheduleItem     `json:"items,omitempty"`
}

// ScheduleItem is one recipient line within a schedule.
type ScheduleItem struct {
	ID          int     `json:"id"`
	ScheduleID  int     `json:"schedule_id"`
	RecipientID int     `json:"recipient_id"`
	Amount      float64 `json:"amount"`
}

// PayLine is a schedule item joined with its recipient, the shape the
// notification and wallet-signing collaborators consume.
type PayLine struct {
	RecipientID   int     `json:"recipient_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email,omitempty"`
	WalletAddress string  `json:"wallet_address"`
	Amount        float64 `json:"amount"`
}
