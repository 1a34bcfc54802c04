package application

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending         Status = "pending"
	StatusAdvisorApproved Status = "advisor_approved"
	StatusAdvisorRejected Status = "advisor_rejected"
	StatusSksApproved     Status = "sks_approved"
	StatusSksRejected     Status = "sks_rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAdvisorApproved, StatusAdvisorRejected, StatusSksApproved, StatusSksRejected:
		return true
	}
	return false
}

// Terminal reports whether no further review can happen on the record.
func (s Status) Terminal() bool {
	return s == StatusAdvisorRejected || s == StatusSksRejected || s == StatusSksApproved
}

type Location struct {
	Faculty string `json:"faculty"`
	Detail  string `json:"detail"`
}

// AdditionalDocument is an extra file attached to an application together
// with each reviewer's verdict on it.
type AdditionalDocument struct {
	Type            string `json:"type"`
	FileRef         string `json:"file_ref"`
	AdvisorApproved *bool  `json:"advisor_approved,omitempty"`
	SksApproved     *bool  `json:"sks_approved,omitempty"`
}

// Table: event_applications
type EventApplication struct {
	ID uint64 `gorm:"primaryKey;column:id"`
	// Public identifier (32-char lowercase hex)
	ApplicationID string  `gorm:"column:application_id;size:32;not null;uniqueIndex:ux_event_applications_application_id"`
	ClubID        *string `gorm:"column:club_id;size:64;index:idx_event_applications_club"`
	// Snapshot taken at submission; later club renames never touch it.
	ClubName            string                                  `gorm:"column:club_name;size:255;not null"`
	EventName           string                                  `gorm:"column:event_name;size:255;not null"`
	Location            datatypes.JSONType[Location]            `gorm:"column:event_location"`
	StartTime           time.Time                               `gorm:"column:start_time;not null"`
	EndTime             time.Time                               `gorm:"column:end_time;not null"`
	Description         string                                  `gorm:"column:description;type:text;not null"`
	Sponsors            *string                                 `gorm:"column:sponsors;type:text"`
	Speakers            *string                                 `gorm:"column:speakers;type:text"`
	SupportingDocuments datatypes.JSONSlice[string]             `gorm:"column:supporting_documents"`
	AdditionalDocuments datatypes.JSONSlice[AdditionalDocument] `gorm:"column:additional_documents"`
	// Persisted for querying only; always recomputed from the decisions.
	Status          Status                        `gorm:"column:status;size:32;not null;index:idx_event_applications_status"`
	IsRevision      bool                          `gorm:"column:is_revision;not null;default:false"`
	AdvisorDecision datatypes.JSONType[*Decision] `gorm:"column:advisor_decision"`
	SksDecision     datatypes.JSONType[*Decision] `gorm:"column:sks_decision"`
	ApprovalLedger  datatypes.JSONType[Ledger]    `gorm:"column:approval_ledger"`
	Version         uint64                        `gorm:"column:version;not null;default:1"`
	CreatedAt       time.Time                     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                     `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt                `gorm:"column:deleted_at;index"`
}

func (EventApplication) TableName() string { return "event_applications" }

func (a *EventApplication) Advisor() *Decision { return a.AdvisorDecision.Data() }

func (a *EventApplication) Sks() *Decision { return a.SksDecision.Data() }

func (a *EventApplication) Ledger() Ledger { return a.ApprovalLedger.Data() }

func (a *EventApplication) LocationValue() Location { return a.Location.Data() }

// CurrentStatus derives the status from the decision fields.
func (a *EventApplication) CurrentStatus() Status {
	return DeriveStatus(a.Advisor(), a.Sks())
}

// DeriveStatus is the only place a status is computed.
func DeriveStatus(advisor, sks *Decision) Status {
	switch {
	case advisor == nil:
		return StatusPending
	case !advisor.Approved:
		return StatusAdvisorRejected
	case sks == nil:
		return StatusAdvisorApproved
	case sks.Approved:
		return StatusSksApproved
	default:
		return StatusSksRejected
	}
}

func (a *EventApplication) refreshStatus() { a.Status = a.CurrentStatus() }
