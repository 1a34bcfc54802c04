package application

import (
	"fmt"
	"time"

	"club-event-approval/internal/domain/apperr"
)

// Revision lists content replacements for a forked application. A nil
// field keeps the previous value; an empty Sponsors/Speakers clears it.
type Revision struct {
	EventName           *string
	Location            *Location
	StartTime           *time.Time
	EndTime             *time.Time
	Description         *string
	Sponsors            *string
	Speakers            *string
	SupportingDocuments []string
	AdditionalDocuments []AdditionalDocument
}

// Revise forks a new pending application from a rejected one. The new
// record inherits a copy of the ledger; old is left untouched.
func Revise(old *EventApplication, r Revision, applicationID string) (*EventApplication, error) {
	if old == nil {
		return nil, apperr.ErrNotFound
	}
	switch st := old.CurrentStatus(); st {
	case StatusAdvisorRejected, StatusSksRejected:
	default:
		return nil, fmt.Errorf("%w: only rejected applications can be revised, application is %s",
			apperr.ErrInvalidTransition, st)
	}

	d := old.draft()
	r.apply(&d)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	next := build(d, applicationID, old.Ledger().CarryForward())
	next.IsRevision = true
	return next, nil
}

func (a *EventApplication) draft() Draft {
	return Draft{
		ClubID:              a.ClubID,
		ClubName:            a.ClubName,
		EventName:           a.EventName,
		Location:            a.LocationValue(),
		StartTime:           a.StartTime,
		EndTime:             a.EndTime,
		Description:         a.Description,
		Sponsors:            a.Sponsors,
		Speakers:            a.Speakers,
		SupportingDocuments: []string(a.SupportingDocuments),
		AdditionalDocuments: []AdditionalDocument(a.AdditionalDocuments),
	}
}

func (r Revision) apply(d *Draft) {
	if r.EventName != nil {
		d.EventName = *r.EventName
	}
	if r.Location != nil {
		d.Location = *r.Location
	}
	if r.StartTime != nil {
		d.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		d.EndTime = *r.EndTime
	}
	if r.Description != nil {
		d.Description = *r.Description
	}
	if r.Sponsors != nil {
		d.Sponsors = r.Sponsors
	}
	if r.Speakers != nil {
		d.Speakers = r.Speakers
	}
	if r.SupportingDocuments != nil {
		d.SupportingDocuments = r.SupportingDocuments
	}
	if r.AdditionalDocuments != nil {
		d.AdditionalDocuments = r.AdditionalDocuments
	}
}
