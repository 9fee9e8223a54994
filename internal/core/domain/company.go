package domain

import "time"

// Company represents a tenant. Work and lunch times are stored as "HH:MM"
// strings in the company's own timezone.
type Company struct {
	CompanyID               string    `json:"companyID"` // Primary Key (UUID)
	Name                    string    `json:"name"`
	CompanyCode             string    `json:"companyCode"` // short join code, unique
	Address                 string    `json:"address,omitempty"`
	Website                 string    `json:"website,omitempty"`
	Industry                string    `json:"industry,omitempty"`
	CompanySize             string    `json:"companySize,omitempty"`
	Timezone                string    `json:"timezone"`
	WorkStartTime           string    `json:"workStartTime"`
	WorkEndTime             string    `json:"workEndTime"`
	LunchStartTime          string    `json:"lunchStartTime"`
	LunchEndTime            string    `json:"lunchEndTime"`
	CameraEnabled           bool      `json:"cameraEnabled"`
	VerificationLimitPerDay int       `json:"verificationLimitPerDay"`
	CreatedAt               time.Time `json:"createdAt"`
	LastUpdatedAt           time.Time `json:"lastUpdatedAt"`
}
