package dto

import (
	"time"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// --- Company DTOs ---

// CreateCompanyRequest defines data to create a company. The creator
// becomes the company's ceo. Omitted settings take their defaults.
type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	Industry    string `json:"industry,omitempty"`
	CompanySize string `json:"companySize,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// UpdateCompanySettingsRequest defines the editable company settings.
// Nil fields are left unchanged.
type UpdateCompanySettingsRequest struct {
	Name                    *string `json:"name,omitempty"`
	Address                 *string `json:"address,omitempty"`
	Website                 *string `json:"website,omitempty"`
	Industry                *string `json:"industry,omitempty"`
	CompanySize             *string `json:"companySize,omitempty"`
	Timezone                *string `json:"timezone,omitempty"`
	WorkStartTime           *string `json:"workStartTime,omitempty" binding:"omitempty,hhmm"`
	WorkEndTime             *string `json:"workEndTime,omitempty" binding:"omitempty,hhmm"`
	LunchStartTime          *string `json:"lunchStartTime,omitempty" binding:"omitempty,hhmm"`
	LunchEndTime            *string `json:"lunchEndTime,omitempty" binding:"omitempty,hhmm"`
	CameraEnabled           *bool   `json:"cameraEnabled,omitempty"`
	VerificationLimitPerDay *int    `json:"verificationLimitPerDay,omitempty"`
}

// CompanyResponse defines data returned for a company.
type CompanyResponse struct {
	CompanyID               string    `json:"companyID"`
	Name                    string    `json:"name"`
	CompanyCode             string    `json:"companyCode"`
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
}

// ToCompanyResponse converts domain.Company to DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:               c.CompanyID,
		Name:                    c.Name,
		CompanyCode:             c.CompanyCode,
		Address:                 c.Address,
		Website:                 c.Website,
		Industry:                c.Industry,
		CompanySize:             c.CompanySize,
		Timezone:                c.Timezone,
		WorkStartTime:           c.WorkStartTime,
		WorkEndTime:             c.WorkEndTime,
		LunchStartTime:          c.LunchStartTime,
		LunchEndTime:            c.LunchEndTime,
		CameraEnabled:           c.CameraEnabled,
		VerificationLimitPerDay: c.VerificationLimitPerDay,
		CreatedAt:               c.CreatedAt,
	}
}

// ListCompaniesResponse wraps a list of companies (search results).
type ListCompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

// ToListCompaniesResponse converts a slice of domain.Company to DTO.
func ToListCompaniesResponse(cs []domain.Company) ListCompaniesResponse {
	list := make([]CompanyResponse, len(cs))
	for i := range cs {
		list[i] = ToCompanyResponse(&cs[i])
	}
	return ListCompaniesResponse{Companies: list}
}
