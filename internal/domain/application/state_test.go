package application

import (
	"errors"
	"testing"
	"time"

	"club-event-approval/internal/domain/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC)

func strptr(s string) *string { return &s }

func validDraft() Draft {
	return Draft{
		ClubID:              strptr("club-robotics"),
		ClubName:            "Robotics Club",
		EventName:           "Line Follower Cup",
		Location:            Location{Faculty: "Engineering", Detail: "Hall B"},
		StartTime:           t0.Add(48 * time.Hour),
		EndTime:             t0.Add(52 * time.Hour),
		Description:         "Annual robot race",
		SupportingDocuments: []string{"doc://poster.pdf"},
	}
}

func TestNewApplication_Pending(t *testing.T) {
	a, err := NewApplication(validDraft(), "app1")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, a.Status)
	assert.Nil(t, a.Advisor())
	assert.Nil(t, a.Sks())
	assert.Empty(t, a.Ledger().AdvisorDecisions)
	assert.False(t, a.IsRevision)
	assert.Equal(t, "Engineering", a.LocationValue().Faculty)
}

func TestDraft_ValidateListsEveryField(t *testing.T) {
	d := Draft{
		StartTime:           t0.Add(time.Hour),
		EndTime:             t0,
		SupportingDocuments: []string{" "},
		AdditionalDocuments: []AdditionalDocument{{}},
	}
	err := d.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrValidation))

	got := map[string]bool{}
	for _, f := range apperr.Fields(err) {
		got[f.Field] = true
	}
	for _, want := range []string{
		"club", "event_name", "event_location.faculty", "end_time", "description",
		"supporting_documents[0]", "additional_documents[0].type", "additional_documents[0].file_ref",
	} {
		assert.True(t, got[want], "missing field %s in %v", want, got)
	}
}

func TestDraft_ClubNameAloneIsEnough(t *testing.T) {
	d := validDraft()
	d.ClubID = nil
	require.NoError(t, d.Validate())

	d.StartTime = d.EndTime
	err := d.Validate()
	require.Error(t, err)
	assert.Equal(t, "end_time", apperr.Fields(err)[0].Field)
}

func TestRecordAdvisorDecision(t *testing.T) {
	t.Run("approve moves to advisor_approved", func(t *testing.T) {
		a, _ := NewApplication(validDraft(), "app1")
		applied, err := a.RecordAdvisorDecision(Decision{Approved: true, Timestamp: t0})
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, StatusAdvisorApproved, a.Status)
		assert.Len(t, a.Ledger().AdvisorDecisions, 1)
	})

	t.Run("reject moves to advisor_rejected and keeps note", func(t *testing.T) {
		a, _ := NewApplication(validDraft(), "app1")
		_, err := a.RecordAdvisorDecision(Decision{Approved: false, Timestamp: t0, Note: "no budget"})
		require.NoError(t, err)
		assert.Equal(t, StatusAdvisorRejected, a.Status)
		assert.Equal(t, "no budget", a.Advisor().Note)
	})

	t.Run("identical replay is a no-op", func(t *testing.T) {
		a, _ := NewApplication(validDraft(), "app1")
		d := Decision{Approved: true, Timestamp: t0}
		_, err := a.RecordAdvisorDecision(d)
		require.NoError(t, err)

		applied, err := a.RecordAdvisorDecision(d)
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Len(t, a.Ledger().AdvisorDecisions, 1)
		assert.Equal(t, StatusAdvisorApproved, a.Status)
	})

	t.Run("same timestamp with other outcome is rejected", func(t *testing.T) {
		a, _ := NewApplication(validDraft(), "app1")
		_, _ = a.RecordAdvisorDecision(Decision{Approved: true, Timestamp: t0})
		_, err := a.RecordAdvisorDecision(Decision{Approved: false, Timestamp: t0})
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
		assert.Equal(t, StatusAdvisorApproved, a.Status)
	})

	t.Run("second decision on reviewed record fails", func(t *testing.T) {
		a, _ := NewApplication(validDraft(), "app1")
		_, _ = a.RecordAdvisorDecision(Decision{Approved: false, Timestamp: t0})
		_, err := a.RecordAdvisorDecision(Decision{Approved: true, Timestamp: t0.Add(time.Minute)})
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
		assert.Len(t, a.Ledger().AdvisorDecisions, 1)
	})

	t.Run("missing timestamp", func(t *testing.T) {
		a, _ := NewApplication(validDraft(), "app1")
		_, err := a.RecordAdvisorDecision(Decision{Approved: true})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestRecordSksDecision(t *testing.T) {
	t.Run("pending application cannot reach sks", func(t *testing.T) {
		a, _ := NewApplication(validDraft(), "app1")
		_, err := a.RecordSksDecision(Decision{Approved: true, Timestamp: t0})
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
		assert.Nil(t, a.Sks())
		assert.Equal(t, StatusPending, a.Status)
	})

	t.Run("advisor rejected cannot reach sks", func(t *testing.T) {
		a, _ := NewApplication(validDraft(), "app1")
		_, _ = a.RecordAdvisorDecision(Decision{Approved: false, Timestamp: t0})
		_, err := a.RecordSksDecision(Decision{Approved: true, Timestamp: t0.Add(time.Hour)})
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
		assert.Nil(t, a.Sks())
	})

	for _, approved := range []bool{true, false} {
		a, _ := NewApplication(validDraft(), "app1")
		_, _ = a.RecordAdvisorDecision(Decision{Approved: true, Timestamp: t0})
		applied, err := a.RecordSksDecision(Decision{Approved: approved, Timestamp: t0.Add(time.Hour)})
		require.NoError(t, err)
		require.True(t, applied)
		want := StatusSksRejected
		if approved {
			want = StatusSksApproved
		}
		assert.Equal(t, want, a.Status)
		assert.True(t, a.Status.Terminal())
		assert.Len(t, a.Ledger().SksDecisions, 1)

		// retry after the terminal transition is still a no-op
		applied, err = a.RecordSksDecision(Decision{Approved: approved, Timestamp: t0.Add(time.Hour)})
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Len(t, a.Ledger().SksDecisions, 1)
	}
}

func TestDeriveStatus(t *testing.T) {
	yes := &Decision{Approved: true, Timestamp: t0}
	no := &Decision{Approved: false, Timestamp: t0}
	cases := []struct {
		advisor, sks *Decision
		want         Status
	}{
		{nil, nil, StatusPending},
		{no, nil, StatusAdvisorRejected},
		{yes, nil, StatusAdvisorApproved},
		{yes, yes, StatusSksApproved},
		{yes, no, StatusSksRejected},
	}
	for _, c := range cases {
		got := DeriveStatus(c.advisor, c.sks)
		assert.Equal(t, c.want, got)
		assert.True(t, got.Valid())
	}
	assert.False(t, Status("archived").Valid())
}

func TestDocumentVerdicts(t *testing.T) {
	d := validDraft()
	d.AdditionalDocuments = []AdditionalDocument{
		{Type: "budget", FileRef: "doc://budget.xlsx"},
		{Type: "permit", FileRef: "doc://permit.pdf"},
	}
	a, err := NewApplication(d, "app1")
	require.NoError(t, err)

	_, err = a.RecordAdvisorDecision(Decision{Approved: true, Timestamp: t0}, DocumentVerdict{Index: 2, Approved: true})
	require.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, "documents[0].index", apperr.Fields(err)[0].Field)
	assert.Equal(t, StatusPending, a.Status)

	applied, err := a.RecordAdvisorDecision(Decision{Approved: true, Timestamp: t0}, DocumentVerdict{Index: 1, Approved: false})
	require.NoError(t, err)
	require.True(t, applied)
	assert.Nil(t, a.AdditionalDocuments[0].AdvisorApproved)
	require.NotNil(t, a.AdditionalDocuments[1].AdvisorApproved)
	assert.False(t, *a.AdditionalDocuments[1].AdvisorApproved)

	_, err = a.RecordSksDecision(Decision{Approved: true, Timestamp: t0.Add(time.Hour)}, DocumentVerdict{Index: 0, Approved: true})
	require.NoError(t, err)
	assert.True(t, *a.AdditionalDocuments[0].SksApproved)
	assert.Nil(t, a.AdditionalDocuments[1].SksApproved)
}
