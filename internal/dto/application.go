package dto

import (
	"time"

	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// --- Company Application DTOs ---

// ApplyRequest defines data for applying to join a company.
type ApplyRequest struct {
	CompanyCode string `json:"companyCode" binding:"required"`
	Department  string `json:"department"`
	Position    string `json:"position"`
	Message     string `json:"message"`
}

// ApplicationResponse defines data returned for a company application.
type ApplicationResponse struct {
	ApplicationID string           `json:"applicationID"`
	CompanyID     string           `json:"companyID"`
	Status        string           `json:"status"`
	Department    string           `json:"department,omitempty"`
	Position      string           `json:"position,omitempty"`
	Message       string           `json:"message,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	Company       *CompanyResponse `json:"company,omitempty"`
}

// ToApplicationResponse converts domain.CompanyApplication to DTO.
func ToApplicationResponse(a *domain.CompanyApplication) ApplicationResponse {
	resp := ApplicationResponse{
		ApplicationID: a.ApplicationID,
		CompanyID:     a.CompanyID,
		Status:        string(a.Status),
		Department:    a.Department,
		Position:      a.Position,
		Message:       a.Message,
		CreatedAt:     a.CreatedAt,
	}
	if a.Company != nil {
		company := ToCompanyResponse(a.Company)
		resp.Company = &company
	}
	return resp
}

// ListApplicationsResponse wraps a list of applications.
type ListApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
}

// ToListApplicationsResponse converts a slice of domain.CompanyApplication to DTO.
func ToListApplicationsResponse(as []domain.CompanyApplication) ListApplicationsResponse {
	list := make([]ApplicationResponse, len(as))
	for i := range as {
		list[i] = ToApplicationResponse(&as[i])
	}
	return ListApplicationsResponse{Applications: list}
}
