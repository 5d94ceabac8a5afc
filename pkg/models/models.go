package models

import (
	"time"

	"github.com/google/uuid"
)

/* =============================== Enums ================================== */

// Role defines the type of user in the system.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLawyer    Role = "lawyer"
	RoleParalegal Role = "paralegal"
)

// CaseType is the closed set of practice areas a case can belong to.
type CaseType string

const (
	CaseTypeCriminal  CaseType = "Criminal"
	CaseTypeCivil     CaseType = "Civil"
	CaseTypeFamily    CaseType = "Family"
	CaseTypeCorporate CaseType = "Corporate"
	CaseTypeLabour    CaseType = "Labour"
	CaseTypeTax       CaseType = "Tax"
)

// CaseStatus defines lifecycle states for a case.
type CaseStatus string

const (
	CaseFiled      CaseStatus = "Filed"
	CaseInProgress CaseStatus = "In Progress"
	CasePending    CaseStatus = "Pending"
	CaseWon        CaseStatus = "Won"
	CaseLost       CaseStatus = "Lost"
	CaseSettled    CaseStatus = "Settled"
)

// Priority defines the urgency of a case.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// NotificationType is the closed set of notification triggers.
type NotificationType string

const (
	NotifyCaseUpdate      NotificationType = "case_update"
	NotifyHearingReminder NotificationType = "hearing_reminder"
	NotifyDocumentUpload  NotificationType = "document_upload"
	NotifyCaseAssigned    NotificationType = "case_assigned"
)

/* =============================== Entities =============================== */

// User represents an admin, lawyer, or paralegal.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	Role           Role      `gorm:"type:varchar(20);not null;default:'lawyer'" json:"role"`
	Phone          string    `json:"phone,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	BarCouncilID   string    `json:"barCouncilId,omitempty"`
	Avatar         string    `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ClientInfo is the denormalized client snapshot embedded on a case.
// It is a copy taken at filing time, not a live reference to a Client row.
type ClientInfo struct {
	Name    string `gorm:"not null" json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Client represents a client record owned by one lawyer.
type Client struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string    `gorm:"not null;index" json:"name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	NID              string    `gorm:"column:nid" json:"nid,omitempty"`
	AssignedLawyerID uuid.UUID `gorm:"type:uuid;not null;index" json:"assignedLawyerId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// Relations
	AssignedLawyer *User  `gorm:"foreignKey:AssignedLawyerID" json:"assignedLawyer,omitempty"`
	Cases          []Case `gorm:"foreignKey:ClientID" json:"cases,omitempty"`
}

// Case is the central entity of the system.
type Case struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseNumber string     `gorm:"uniqueIndex;not null" json:"caseNumber"`
	Title      string     `gorm:"not null" json:"title"`
	CaseType   CaseType   `gorm:"type:varchar(20);not null" json:"caseType"`
	Status     CaseStatus `gorm:"type:varchar(20);not null;default:'Filed'" json:"status"`
	Priority   Priority   `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`

	// Snapshot of the client at filing time (see ClientInfo).
	Client ClientInfo `gorm:"embedded;embeddedPrefix:client_" json:"client"`

	AssignedLawyerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"assignedLawyerId"`
	Opponent         string     `json:"opponent,omitempty"`
	Court            string     `json:"court,omitempty"`
	FilingDate       time.Time  `gorm:"not null" json:"filingDate"`
	NextHearingDate  *time.Time `json:"nextHearingDate,omitempty"`
	Description      string     `gorm:"type:text" json:"description,omitempty"`

	// Weak back-reference to the Client record, if the case was filed for one.
	ClientID *uuid.UUID `gorm:"type:uuid;index" json:"clientId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations (append-only sequences, ordered by creation)
	AssignedLawyer *User           `gorm:"foreignKey:AssignedLawyerID" json:"assignedLawyer,omitempty"`
	Documents      []CaseDocument  `gorm:"foreignKey:CaseID" json:"documents"`
	Notes          []CaseNote      `gorm:"foreignKey:CaseID" json:"notes"`
	Timeline       []TimelineEvent `gorm:"foreignKey:CaseID" json:"timeline"`
}

// CaseDocument is document metadata; the bytes live on an external media host.
type CaseDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseID     uuid.UUID `gorm:"type:uuid;not null;index" json:"caseId"`
	Title      string    `gorm:"not null" json:"title"`
	URL        string    `gorm:"not null" json:"url"`
	PublicID   string    `gorm:"not null" json:"publicId"`
	Category   string    `gorm:"not null;default:'Other'" json:"category"`
	UploadedAt time.Time `gorm:"not null" json:"uploadedAt"`
}

// CaseNote is a free-form note appended to a case by an authenticated user.
type CaseNote struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseID      uuid.UUID `gorm:"type:uuid;not null;index" json:"caseId"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`

	CreatedBy *User `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}

// TimelineEvent is one entry in a case's append-only event log.
type TimelineEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseID      uuid.UUID `gorm:"type:uuid;not null;index" json:"caseId"`
	Event       string    `gorm:"not null" json:"event"`
	Date        time.Time `gorm:"not null" json:"date"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Notification is an append-only record owned by one recipient user.
// Only the Read flag is ever mutated; rows are removed solely as a
// cascade of case deletion.
type Notification struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index:idx_notif_user_read" json:"userId"`
	Type          NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title         string           `gorm:"not null" json:"title"`
	Message       string           `gorm:"not null" json:"message"`
	RelatedCaseID *uuid.UUID       `gorm:"type:uuid;index" json:"relatedCaseId,omitempty"`
	Read          bool             `gorm:"not null;default:false;index:idx_notif_user_read" json:"read"`
	CreatedAt     time.Time        `json:"createdAt"`

	RelatedCase *Case `gorm:"foreignKey:RelatedCaseID" json:"relatedCase,omitempty"`
}
