package access

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAdvisor Role = "advisor"
	RoleSks     Role = "sks"
	RoleClub    Role = "club"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAdvisor, RoleSks, RoleClub:
		return true
	}
	return false
}

// Identity is what the authentication layer tells us about a caller.
type Identity struct {
	Subject string
	Role    Role
	// Set for club accounts only.
	ClubID string
}

type Capability string

const (
	CapSubmit         Capability = "application.submit"
	CapView           Capability = "application.view"
	CapAdvisorReview  Capability = "application.advisor_review"
	CapSksReview      Capability = "application.sks_review"
	CapRevise         Capability = "application.revise"
	CapViewAdvisors   Capability = "advisor.view"
	CapManageAdvisors Capability = "advisor.manage"
)

var policy = map[Capability][]Role{
	CapSubmit:         {RoleClub, RoleAdmin},
	CapView:           {RoleAdmin, RoleAdvisor, RoleSks, RoleClub},
	CapAdvisorReview:  {RoleAdvisor, RoleAdmin},
	CapSksReview:      {RoleSks, RoleAdmin},
	CapRevise:         {RoleClub, RoleAdmin},
	CapViewAdvisors:   {RoleAdmin, RoleAdvisor, RoleSks, RoleClub},
	CapManageAdvisors: {RoleAdmin},
}

// Authorize is the single capability check done per operation.
func Authorize(id Identity, c Capability) error {
	if id.Subject == "" || !id.Role.Valid() {
		return ErrUnauthenticated
	}
	for _, r := range policy[c] {
		if r == id.Role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s lacks %s", ErrForbidden, id.Role, c)
}

// OwnsClub reports whether a club account acts for clubID. Other roles
// are not scoped to a club.
func (id Identity) OwnsClub(clubID string) bool {
	if id.Role != RoleClub {
		return true
	}
	return id.ClubID != "" && id.ClubID == clubID
}
