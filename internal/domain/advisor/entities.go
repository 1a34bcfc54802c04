package advisor

import (
	"fmt"
	"strings"
	"time"

	"club-event-approval/internal/domain/apperr"
)

// MaxActivePerClub is the ceiling on concurrently active advisors of a club.
const MaxActivePerClub = 2

// Table: advisor_assignments
type Assignment struct {
	ID uint64 `gorm:"primaryKey;column:id"`
	// Public identifier (32-char lowercase hex)
	AssignmentID string `gorm:"column:assignment_id;size:32;not null;uniqueIndex:ux_advisor_assignments_assignment_id"`
	ClubID       string `gorm:"column:club_id;size:64;not null;uniqueIndex:ux_advisor_assignments_club_slot,priority:1;index:idx_advisor_assignments_club_active,priority:1"`
	AdvisorID    string `gorm:"column:advisor_id;size:64;not null;index:idx_advisor_assignments_advisor"`
	Active       bool   `gorm:"column:active;not null;index:idx_advisor_assignments_club_active,priority:2"`
	// Seat 1..MaxActivePerClub while active, NULL afterwards. The unique
	// (club_id, slot) index makes the store refuse a third active row.
	Slot                   *int       `gorm:"column:slot;uniqueIndex:ux_advisor_assignments_club_slot,priority:2"`
	StartDate              time.Time  `gorm:"column:start_date;not null"`
	EndDate                *time.Time `gorm:"column:end_date"`
	RequestPetitionRef     string     `gorm:"column:request_petition_ref;type:text;not null"`
	TerminationPetitionRef *string    `gorm:"column:termination_petition_ref;type:text"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Assignment) TableName() string { return "advisor_assignments" }

// ValidateAdd checks the caller input of an add-advisor request.
func ValidateAdd(clubID, advisorID, requestPetitionRef string) error {
	var ve apperr.ValidationError
	if blank(clubID) {
		ve.Add("club_id", "is required")
	}
	if blank(advisorID) {
		ve.Add("advisor_id", "is required")
	}
	if blank(requestPetitionRef) {
		ve.Add("request_petition_ref", "is required")
	}
	return ve.Err()
}

// ValidateRemove lists every missing field of a termination request.
func ValidateRemove(clubID, assignmentID, terminationPetitionRef string) error {
	var ve apperr.ValidationError
	if blank(clubID) {
		ve.Add("club_id", "is required")
	}
	if blank(assignmentID) {
		ve.Add("assignment_id", "is required")
	}
	if blank(terminationPetitionRef) {
		ve.Add("termination_petition_ref", "is required")
	}
	return ve.Err()
}

// NewAssignment seats advisorID on the club given the club's currently
// active assignments. The caller must hold the club's lock.
func NewAssignment(clubID, advisorID, requestPetitionRef, assignmentID string, active []Assignment, now time.Time) (*Assignment, error) {
	if err := ValidateAdd(clubID, advisorID, requestPetitionRef); err != nil {
		return nil, err
	}
	for _, a := range active {
		if a.AdvisorID == advisorID {
			return nil, fmt.Errorf("%w: advisor %s is already active for club %s", apperr.ErrInvalidState, advisorID, clubID)
		}
	}
	slot, ok := FreeSlot(active)
	if !ok {
		return nil, fmt.Errorf("%w: club %s already has %d active advisors", apperr.ErrCapacityExceeded, clubID, MaxActivePerClub)
	}
	return &Assignment{
		AssignmentID:       assignmentID,
		ClubID:             clubID,
		AdvisorID:          advisorID,
		Active:             true,
		Slot:               &slot,
		StartDate:          now.UTC(),
		RequestPetitionRef: strings.TrimSpace(requestPetitionRef),
	}, nil
}

// FreeSlot returns the lowest seat not taken by active.
func FreeSlot(active []Assignment) (int, bool) {
	taken := make(map[int]bool, len(active))
	for _, a := range active {
		if a.Active && a.Slot != nil {
			taken[*a.Slot] = true
		}
	}
	for s := 1; s <= MaxActivePerClub; s++ {
		if !taken[s] {
			return s, true
		}
	}
	return 0, false
}

// Terminate deactivates the assignment and attaches the petition.
func (a *Assignment) Terminate(clubID, terminationPetitionRef string, now time.Time) error {
	if blank(terminationPetitionRef) {
		return apperr.Invalid("termination_petition_ref", "is required")
	}
	if a.ClubID != clubID {
		return fmt.Errorf("%w: assignment %s does not belong to club %s", apperr.ErrNotFound, a.AssignmentID, clubID)
	}
	if !a.Active {
		return fmt.Errorf("%w: assignment %s is already inactive", apperr.ErrInvalidState, a.AssignmentID)
	}
	end := now.UTC()
	ref := strings.TrimSpace(terminationPetitionRef)
	a.Active = false
	a.Slot = nil
	a.EndDate = &end
	a.TerminationPetitionRef = &ref
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
