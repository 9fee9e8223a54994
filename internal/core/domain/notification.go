package domain

import "time"

// NotificationType is the closed set of notification kinds.
type NotificationType string

const (
	NotificationCompanyJoin         NotificationType = "company_join"
	NotificationCompanyLeave        NotificationType = "company_leave"
	NotificationApplicationRejected NotificationType = "application_rejected"
	NotificationStaffRequest        NotificationType = "staff_request"
	NotificationRoleAssigned        NotificationType = "role_assigned"
	NotificationAnnouncement        NotificationType = "announcement"
	NotificationVerification        NotificationType = "verification"
	NotificationLeaveRequest        NotificationType = "leave_request"
	NotificationSalaryPublished     NotificationType = "salary_published"

	// Legacy aliases still present in historical rows.
	NotificationCompanyUpdate       NotificationType = "company_update"
	NotificationVerificationRequest NotificationType = "verification_request"
	NotificationJoinApproved        NotificationType = "join_approved"
	NotificationJoinRejected        NotificationType = "join_rejected"
	NotificationBreakAlert          NotificationType = "break_alert"
	NotificationGeneral             NotificationType = "general"
)

// Notification is a durable per-user message. Read state is durable; local
// dismissal is a view concern and never written back to the store.
type Notification struct {
	NotificationID string           `json:"notificationID"`
	UserID         string           `json:"userID"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Read           bool             `json:"read"`
	ActionURL      string           `json:"actionURL,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// Announcement is an ephemeral record of a broadcast. The durable artifact
// is the set of notification rows it fans out to recipients; the
// announcement itself is never persisted.
type Announcement struct {
	AnnouncementID string    `json:"announcementID"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	CreatedBy      string    `json:"createdBy"`
	CreatedByName  string    `json:"createdByName"`
	TargetRoles    []string  `json:"targetRoles,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NotificationEventOp enumerates change-feed operations on the notification log.
type NotificationEventOp string

const (
	NotificationInserted NotificationEventOp = "INSERT"
	NotificationUpdated  NotificationEventOp = "UPDATE"
)

// NotificationEvent is one row-change event delivered by the realtime feed.
type NotificationEvent struct {
	Op           NotificationEventOp `json:"op"`
	Notification Notification        `json:"notification"`
}
