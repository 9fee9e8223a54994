package domain

import "time"

// ApplicationStatus enumerates the lifecycle states of a company application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// CompanyApplication is a request by a user to join a company via its code.
// History is not deduplicated at the store level; only the most recent row
// is meaningful for display. It never transitions back to pending.
type CompanyApplication struct {
	ApplicationID string            `json:"applicationID"`
	UserID        string            `json:"userID"`
	CompanyID     string            `json:"companyID"`
	Department    string            `json:"department,omitempty"`
	Position      string            `json:"position,omitempty"`
	Message       string            `json:"message,omitempty"`
	Status        ApplicationStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	Company       *Company          `json:"company,omitempty"` // joined for display
}

// ApplyResult is the payload returned by the apply_to_company procedure.
type ApplyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
