package domain

import "time"

// User represents an identity record in the domain.
// CompanyID is nil until the user's application to a company is approved;
// Role is a denormalized copy of the user_roles assignment kept for display
// and filtering only, never read for authorization decisions.
type User struct {
	UserID             string     `json:"userID"` // Primary Key (UUID)
	FullName           string     `json:"fullName"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone,omitempty"`
	Position           string     `json:"position,omitempty"`
	Department         string     `json:"department,omitempty"`
	Role               string     `json:"role"` // denormalized cache of user_roles.role
	IsActive           bool       `json:"isActive"`
	CompanyID          *string    `json:"companyID,omitempty"` // FK -> companies.company_id
	PasswordHash       string     `json:"-"`
	RefreshTokenHash   *string    `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"createdAt"`
	LastUpdatedAt      time.Time  `json:"lastUpdatedAt"`
}

// UserSummary is the slim projection used for role member listings.
type UserSummary struct {
	UserID   string `json:"userID"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	RoleID   string `json:"roleID"`
}
