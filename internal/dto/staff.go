package dto

import (
	"github.com/staffsync/staffsync_backend/internal/core/domain"
)

// --- Staff DTOs ---

// StaffStatsResponse aggregates a staff member's attendance history.
type StaffStatsResponse struct {
	TotalSessions int     `json:"totalSessions"`
	TotalHours    string  `json:"totalHours"`
	LastActive    *string `json:"lastActive,omitempty"`
}

// ToStaffStatsResponse converts domain.StaffStats to DTO.
func ToStaffStatsResponse(s *domain.StaffStats) StaffStatsResponse {
	resp := StaffStatsResponse{
		TotalSessions: s.TotalSessions,
		TotalHours:    s.TotalHours.String(),
	}
	if s.LastActive != nil {
		formatted := s.LastActive.Format("2006-01-02")
		resp.LastActive = &formatted
	}
	return resp
}
