package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkSession is one attendance record for a user.
type WorkSession struct {
	SessionID    string    `json:"sessionID"`
	UserID       string    `json:"userID"`
	WorkDate     time.Time `json:"workDate"`
	TotalMinutes int       `json:"totalMinutes"`
	Status       string    `json:"status"`
}

// StaffStats is the aggregate attendance view for one staff member.
// TotalHours carries one fractional digit.
type StaffStats struct {
	TotalSessions int             `json:"totalSessions"`
	TotalHours    decimal.Decimal `json:"totalHours"`
	LastActive    *time.Time      `json:"lastActive,omitempty"`
}
