package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tenderportal/models"
)

func TestTenderStatusTransitions(t *testing.T) {
	require.True(t, models.TenderDraft.CanTransition(models.TenderPublished))
	require.True(t, models.TenderPublished.CanTransition(models.TenderClosed))
	require.True(t, models.TenderPublished.CanTransition(models.TenderAwarded))

	// Переходы мимо машины запрещены
	require.False(t, models.TenderDraft.CanTransition(models.TenderClosed))
	require.False(t, models.TenderDraft.CanTransition(models.TenderAwarded))
	require.False(t, models.TenderPublished.CanTransition(models.TenderDraft))
	require.False(t, models.TenderClosed.CanTransition(models.TenderPublished))
	require.False(t, models.TenderAwarded.CanTransition(models.TenderClosed))
}

func TestBidStatusTransitions(t *testing.T) {
	require.True(t, models.BidSubmitted.CanTransition(models.BidUnderReview))
	require.True(t, models.BidUnderReview.CanTransition(models.BidAccepted))
	require.True(t, models.BidUnderReview.CanTransition(models.BidRejected))

	require.False(t, models.BidSubmitted.CanTransition(models.BidAccepted))
	require.False(t, models.BidSubmitted.CanTransition(models.BidRejected))
	require.False(t, models.BidAccepted.CanTransition(models.BidRejected))
	require.False(t, models.BidRejected.CanTransition(models.BidUnderReview))
}

func TestEnumValidation(t *testing.T) {
	require.True(t, models.RoleBidder.Valid())
	require.True(t, models.RoleIssuer.Valid())
	require.True(t, models.RoleAdmin.Valid())
	require.False(t, models.Role("manager").Valid())

	require.True(t, models.UserPending.Valid())
	require.False(t, models.UserStatus("banned").Valid())

	require.True(t, models.TenderAwarded.Valid())
	require.False(t, models.TenderStatus("archived").Valid())

	require.True(t, models.BidUnderReview.Valid())
	require.False(t, models.BidStatus("withdrawn").Valid())
}
