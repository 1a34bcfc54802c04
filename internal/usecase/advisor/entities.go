package advisor

import (
	"time"

	domain "club-event-approval/internal/domain/advisor"
)

type AddAdvisorInput struct {
	ClubID             string
	AdvisorID          string
	RequestPetitionRef string
}

type RemoveAdvisorInput struct {
	ClubID                 string
	AssignmentID           string
	TerminationPetitionRef string
}

type AssignmentDTO struct {
	AssignmentID           string     `json:"assignment_id"`
	ClubID                 string     `json:"club_id"`
	AdvisorID              string     `json:"advisor_id"`
	Active                 bool       `json:"active"`
	StartDate              time.Time  `json:"start_date"`
	EndDate                *time.Time `json:"end_date,omitempty"`
	RequestPetitionRef     string     `json:"request_petition_ref"`
	TerminationPetitionRef *string    `json:"termination_petition_ref,omitempty"`
}

type ClubAdvisorsDTO struct {
	ClubID      string          `json:"club_id"`
	ActiveCount int             `json:"active_count"`
	Capacity    int             `json:"capacity"`
	Advisors    []AssignmentDTO `json:"advisors"`
}

func toDTO(a *domain.Assignment) AssignmentDTO {
	return AssignmentDTO{
		AssignmentID:           a.AssignmentID,
		ClubID:                 a.ClubID,
		AdvisorID:              a.AdvisorID,
		Active:                 a.Active,
		StartDate:              a.StartDate,
		EndDate:                a.EndDate,
		RequestPetitionRef:     a.RequestPetitionRef,
		TerminationPetitionRef: a.TerminationPetitionRef,
	}
}

func toDTOs(in []domain.Assignment) []AssignmentDTO {
	out := make([]AssignmentDTO, 0, len(in))
	for i := range in {
		out = append(out, toDTO(&in[i]))
	}
	return out
}
