package application

import (
	"time"

	domain "club-event-approval/internal/domain/application"
)

type LocationInput struct {
	Faculty string
	Detail  string
}

type DocumentInput struct {
	Type    string
	FileRef string
}

type SubmitInput struct {
	ClubID              *string
	ClubName            string
	EventName           string
	Location            LocationInput
	StartTime           time.Time
	EndTime             time.Time
	Description         string
	Sponsors            *string
	Speakers            *string
	SupportingDocuments []string
	AdditionalDocuments []DocumentInput
}

// DocumentVerdictInput addresses an additional document by position.
type DocumentVerdictInput struct {
	Index    int
	Approved bool
}

type DecisionInput struct {
	Approved  bool
	Timestamp time.Time // identifies the decision for replays
	Note      string
	Documents []DocumentVerdictInput
}

// ReviseInput: nil fields keep the rejected application's values.
type ReviseInput struct {
	EventName           *string
	Location            *LocationInput
	StartTime           *time.Time
	EndTime             *time.Time
	Description         *string
	Sponsors            *string
	Speakers            *string
	SupportingDocuments []string
	AdditionalDocuments []DocumentInput
}

type ListInput struct {
	ClubID string
	Status string
	Limit  int
}

type LocationDTO struct {
	Faculty string `json:"faculty"`
	Detail  string `json:"detail,omitempty"`
}

type DocumentDTO struct {
	Type            string `json:"type"`
	FileRef         string `json:"file_ref"`
	AdvisorApproved *bool  `json:"advisor_approved,omitempty"`
	SksApproved     *bool  `json:"sks_approved,omitempty"`
}

type DecisionDTO struct {
	Approved   bool      `json:"approved"`
	Timestamp  time.Time `json:"timestamp"`
	Note       string    `json:"note,omitempty"`
	ReviewerID string    `json:"reviewer_id,omitempty"`
}

type LedgerDTO struct {
	AdvisorDecisions []DecisionDTO `json:"advisor_decisions"`
	SksDecisions     []DecisionDTO `json:"sks_decisions"`
}

type ApplicationDTO struct {
	ApplicationID       string        `json:"application_id"`
	ClubID              *string       `json:"club_id,omitempty"`
	ClubName            string        `json:"club_name"`
	EventName           string        `json:"event_name"`
	Location            LocationDTO   `json:"event_location"`
	StartTime           time.Time     `json:"start_time"`
	EndTime             time.Time     `json:"end_time"`
	Description         string        `json:"description"`
	Sponsors            *string       `json:"sponsors,omitempty"`
	Speakers            *string       `json:"speakers,omitempty"`
	SupportingDocuments []string      `json:"supporting_documents"`
	AdditionalDocuments []DocumentDTO `json:"additional_documents"`
	Status              string        `json:"status"`
	IsRevision          bool          `json:"is_revision"`
	AdvisorDecision     *DecisionDTO  `json:"advisor_decision"`
	SksDecision         *DecisionDTO  `json:"sks_decision"`
	ApprovalLedger      LedgerDTO     `json:"approval_ledger"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// DecisionResultDTO reports applied=false when the request replayed a
// decision already on record.
type DecisionResultDTO struct {
	Applied     bool           `json:"applied"`
	Application ApplicationDTO `json:"application"`
}

// Validate checks in against the draft rules. It does not check who may
// submit for the club.
func (in SubmitInput) Validate() error { return in.draft().Validate() }

func (in SubmitInput) draft() domain.Draft {
	return domain.Draft{
		ClubID:              in.ClubID,
		ClubName:            in.ClubName,
		EventName:           in.EventName,
		Location:            domain.Location(in.Location),
		StartTime:           in.StartTime,
		EndTime:             in.EndTime,
		Description:         in.Description,
		Sponsors:            in.Sponsors,
		Speakers:            in.Speakers,
		SupportingDocuments: in.SupportingDocuments,
		AdditionalDocuments: documents(in.AdditionalDocuments),
	}
}

func (in ReviseInput) revision() domain.Revision {
	r := domain.Revision{
		EventName:           in.EventName,
		StartTime:           in.StartTime,
		EndTime:             in.EndTime,
		Description:         in.Description,
		Sponsors:            in.Sponsors,
		Speakers:            in.Speakers,
		SupportingDocuments: in.SupportingDocuments,
	}
	if in.Location != nil {
		loc := domain.Location(*in.Location)
		r.Location = &loc
	}
	if in.AdditionalDocuments != nil {
		r.AdditionalDocuments = documents(in.AdditionalDocuments)
	}
	return r
}

func (in DecisionInput) decision(reviewerID string) (domain.Decision, []domain.DocumentVerdict) {
	d := domain.Decision{
		Approved:   in.Approved,
		Timestamp:  in.Timestamp,
		Note:       in.Note,
		ReviewerID: reviewerID,
	}
	var verdicts []domain.DocumentVerdict
	for _, v := range in.Documents {
		verdicts = append(verdicts, domain.DocumentVerdict(v))
	}
	return d, verdicts
}

func documents(in []DocumentInput) []domain.AdditionalDocument {
	out := make([]domain.AdditionalDocument, 0, len(in))
	for _, d := range in {
		out = append(out, domain.AdditionalDocument{Type: d.Type, FileRef: d.FileRef})
	}
	return out
}

func toDecisionDTO(d *domain.Decision) *DecisionDTO {
	if d == nil {
		return nil
	}
	return &DecisionDTO{Approved: d.Approved, Timestamp: d.Timestamp, Note: d.Note, ReviewerID: d.ReviewerID}
}

func toDecisionDTOs(in []domain.Decision) []DecisionDTO {
	out := make([]DecisionDTO, 0, len(in))
	for i := range in {
		out = append(out, *toDecisionDTO(&in[i]))
	}
	return out
}

func toDTO(a *domain.EventApplication) ApplicationDTO {
	ledger := a.Ledger()
	docs := make([]DocumentDTO, 0, len(a.AdditionalDocuments))
	for _, d := range a.AdditionalDocuments {
		docs = append(docs, DocumentDTO(d))
	}
	supporting := make([]string, 0, len(a.SupportingDocuments))
	supporting = append(supporting, a.SupportingDocuments...)
	return ApplicationDTO{
		ApplicationID:       a.ApplicationID,
		ClubID:              a.ClubID,
		ClubName:            a.ClubName,
		EventName:           a.EventName,
		Location:            LocationDTO(a.LocationValue()),
		StartTime:           a.StartTime,
		EndTime:             a.EndTime,
		Description:         a.Description,
		Sponsors:            a.Sponsors,
		Speakers:            a.Speakers,
		SupportingDocuments: supporting,
		AdditionalDocuments: docs,
		Status:              string(a.CurrentStatus()),
		IsRevision:          a.IsRevision,
		AdvisorDecision:     toDecisionDTO(a.Advisor()),
		SksDecision:         toDecisionDTO(a.Sks()),
		ApprovalLedger: LedgerDTO{
			AdvisorDecisions: toDecisionDTOs(ledger.AdvisorDecisions),
			SksDecisions:     toDecisionDTOs(ledger.SksDecisions),
		},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
