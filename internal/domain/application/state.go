package application

import (
	"fmt"
	"strings"
	"time"

	"club-event-approval/internal/domain/apperr"

	"gorm.io/datatypes"
)

// Draft holds the caller-supplied content of an application.
type Draft struct {
	ClubID              *string
	ClubName            string
	EventName           string
	Location            Location
	StartTime           time.Time
	EndTime             time.Time
	Description         string
	Sponsors            *string
	Speakers            *string
	SupportingDocuments []string
	AdditionalDocuments []AdditionalDocument
}

// Validate reports every missing or invalid field at once.
func (d Draft) Validate() error {
	var ve apperr.ValidationError
	if blank(deref(d.ClubID)) && blank(d.ClubName) {
		ve.Add("club", "club_id or club_name is required")
	}
	if blank(d.EventName) {
		ve.Add("event_name", "is required")
	}
	if blank(d.Location.Faculty) {
		ve.Add("event_location.faculty", "is required")
	}
	if d.StartTime.IsZero() {
		ve.Add("start_time", "is required")
	}
	if d.EndTime.IsZero() {
		ve.Add("end_time", "is required")
	}
	if !d.StartTime.IsZero() && !d.EndTime.IsZero() && !d.StartTime.Before(d.EndTime) {
		ve.Add("end_time", "must be after start_time")
	}
	if blank(d.Description) {
		ve.Add("description", "is required")
	}
	for i, ref := range d.SupportingDocuments {
		if blank(ref) {
			ve.Add(fmt.Sprintf("supporting_documents[%d]", i), "must not be empty")
		}
	}
	for i, doc := range d.AdditionalDocuments {
		if blank(doc.Type) {
			ve.Add(fmt.Sprintf("additional_documents[%d].type", i), "is required")
		}
		if blank(doc.FileRef) {
			ve.Add(fmt.Sprintf("additional_documents[%d].file_ref", i), "is required")
		}
	}
	return ve.Err()
}

// NewApplication validates d and builds a pending application with the
// given public id and an empty ledger.
func NewApplication(d Draft, applicationID string) (*EventApplication, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return build(d, applicationID, Ledger{}), nil
}

func build(d Draft, applicationID string, ledger Ledger) *EventApplication {
	a := &EventApplication{
		ApplicationID:       applicationID,
		ClubID:              trimmedPtr(d.ClubID),
		ClubName:            strings.TrimSpace(d.ClubName),
		EventName:           strings.TrimSpace(d.EventName),
		Location:            datatypes.NewJSONType(d.Location),
		StartTime:           d.StartTime.UTC(),
		EndTime:             d.EndTime.UTC(),
		Description:         d.Description,
		Sponsors:            trimmedPtr(d.Sponsors),
		Speakers:            trimmedPtr(d.Speakers),
		SupportingDocuments: datatypes.JSONSlice[string](append([]string{}, d.SupportingDocuments...)),
		AdditionalDocuments: datatypes.JSONSlice[AdditionalDocument](copyDocuments(d.AdditionalDocuments)),
		AdvisorDecision:     datatypes.NewJSONType[*Decision](nil),
		SksDecision:         datatypes.NewJSONType[*Decision](nil),
		ApprovalLedger:      datatypes.NewJSONType(ledger),
		Version:             1,
	}
	a.refreshStatus()
	return a
}

// DocumentVerdict is a reviewer's verdict on one additional document,
// addressed by its position in AdditionalDocuments.
type DocumentVerdict struct {
	Index    int
	Approved bool
}

// RecordAdvisorDecision applies the first-stage review. It returns
// applied=false for a replay of the decision already on record.
func (a *EventApplication) RecordAdvisorDecision(d Decision, verdicts ...DocumentVerdict) (bool, error) {
	if err := a.validateDecision(d, verdicts); err != nil {
		return false, err
	}
	if replay, err := checkReplay(TrackAdvisor, a.Advisor(), d); replay || err != nil {
		return false, err
	}
	if st := a.CurrentStatus(); st != StatusPending {
		return false, fmt.Errorf("%w: advisor review requires %s, application is %s",
			apperr.ErrInvalidTransition, StatusPending, st)
	}
	if err := a.checkLedgerSlot(TrackAdvisor, d); err != nil {
		return false, err
	}
	d.Timestamp = d.Timestamp.UTC()
	a.AdvisorDecision = datatypes.NewJSONType(&d)
	a.markDocuments(TrackAdvisor, verdicts)
	a.appendLedger(TrackAdvisor, d)
	a.refreshStatus()
	return true, nil
}

// RecordSksDecision applies the second-stage review, which is only
// reachable after the advisor approved.
func (a *EventApplication) RecordSksDecision(d Decision, verdicts ...DocumentVerdict) (bool, error) {
	if err := a.validateDecision(d, verdicts); err != nil {
		return false, err
	}
	if replay, err := checkReplay(TrackSks, a.Sks(), d); replay || err != nil {
		return false, err
	}
	if st := a.CurrentStatus(); st != StatusAdvisorApproved {
		return false, fmt.Errorf("%w: sks review requires %s, application is %s",
			apperr.ErrInvalidTransition, StatusAdvisorApproved, st)
	}
	if err := a.checkLedgerSlot(TrackSks, d); err != nil {
		return false, err
	}
	d.Timestamp = d.Timestamp.UTC()
	a.SksDecision = datatypes.NewJSONType(&d)
	a.markDocuments(TrackSks, verdicts)
	a.appendLedger(TrackSks, d)
	a.refreshStatus()
	return true, nil
}

func (a *EventApplication) appendLedger(track Track, d Decision) {
	l := a.Ledger()
	l.Append(track, d)
	a.ApprovalLedger = datatypes.NewJSONType(l)
}

// checkLedgerSlot rejects a decision stamped at the same instant as an
// entry the ledger already holds for track.
func (a *EventApplication) checkLedgerSlot(track Track, d Decision) error {
	if !a.Ledger().Has(track, d.Timestamp) {
		return nil
	}
	return fmt.Errorf("%w: %s ledger already holds a decision at %s",
		apperr.ErrInvalidTransition, track, d.Timestamp.UTC().Format(time.RFC3339Nano))
}

func checkReplay(track Track, current *Decision, d Decision) (bool, error) {
	if current == nil || !current.Timestamp.Equal(d.Timestamp) {
		return false, nil
	}
	if current.Approved != d.Approved {
		return false, fmt.Errorf("%w: %s decision at %s already recorded with a different outcome",
			apperr.ErrInvalidTransition, track, d.Timestamp.UTC().Format(time.RFC3339Nano))
	}
	return true, nil
}

func (a *EventApplication) markDocuments(track Track, verdicts []DocumentVerdict) {
	if len(verdicts) == 0 {
		return
	}
	docs := copyDocuments(a.AdditionalDocuments)
	for _, v := range verdicts {
		approved := v.Approved
		if track == TrackAdvisor {
			docs[v.Index].AdvisorApproved = &approved
		} else {
			docs[v.Index].SksApproved = &approved
		}
	}
	a.AdditionalDocuments = docs
}

func (a *EventApplication) validateDecision(d Decision, verdicts []DocumentVerdict) error {
	var ve apperr.ValidationError
	if d.Timestamp.IsZero() {
		ve.Add("timestamp", "is required")
	}
	for i, v := range verdicts {
		if v.Index < 0 || v.Index >= len(a.AdditionalDocuments) {
			ve.Add(fmt.Sprintf("documents[%d].index", i), "does not match an additional document")
		}
	}
	return ve.Err()
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func copyDocuments(in []AdditionalDocument) []AdditionalDocument {
	out := make([]AdditionalDocument, len(in))
	for i, doc := range in {
		out[i] = AdditionalDocument{Type: doc.Type, FileRef: doc.FileRef}
		if doc.AdvisorApproved != nil {
			v := *doc.AdvisorApproved
			out[i].AdvisorApproved = &v
		}
		if doc.SksApproved != nil {
			v := *doc.SksApproved
			out[i].SksApproved = &v
		}
	}
	return out
}
