package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
)

var allStages = []domain.DealStage{
	domain.StageLead,
	domain.StageQualified,
	domain.StageDisqualified,
	domain.StageProposal,
	domain.StageNegotiation,
	domain.StageWon,
	domain.StageLost,
}

func TestIsValidTransition_MatchesValidNextStages(t *testing.T) {
	for _, from := range allStages {
		next := domain.ValidNextStages(from)
		for _, to := range allStages {
			expected := from == to
			for _, n := range next {
				if n == to {
					expected = true
				}
			}
			assert.Equal(t, expected, domain.IsValidTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestTerminalStagesHaveNoNextStages(t *testing.T) {
	assert.Empty(t, domain.ValidNextStages(domain.StageWon))
	assert.Empty(t, domain.ValidNextStages(domain.StageLost))
	assert.True(t, domain.IsTerminal(domain.StageWon))
	assert.True(t, domain.IsTerminal(domain.StageLost))
	assert.False(t, domain.IsTerminal(domain.StageLead))
}

func TestStageGraph_ForbidsSkipping(t *testing.T) {
	assert.False(t, domain.IsValidTransition(domain.StageLead, domain.StageWon))
	assert.False(t, domain.IsValidTransition(domain.StageLead, domain.StageProposal))
	assert.False(t, domain.IsValidTransition(domain.StageQualified, domain.StageNegotiation))
}

func TestStageGraph_AllowsProposalRevision(t *testing.T) {
	assert.True(t, domain.IsValidTransition(domain.StageNegotiation, domain.StageProposal))
}

func TestAssertValidTransition_ErrorCarriesContext(t *testing.T) {
	err := domain.AssertValidTransition(domain.StageLead, domain.StageWon)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	var transitionErr *domain.InvalidTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, domain.StageLead, transitionErr.From)
	assert.Equal(t, domain.StageWon, transitionErr.To)
	assert.Equal(t, []domain.DealStage{domain.StageQualified, domain.StageDisqualified}, transitionErr.ValidNext)
	assert.False(t, transitionErr.Terminal)
}

func TestAssertValidTransition_TerminalStage(t *testing.T) {
	err := domain.AssertValidTransition(domain.StageWon, domain.StageLead)
	require.Error(t, err)

	var transitionErr *domain.InvalidTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.True(t, transitionErr.Terminal)
	assert.Contains(t, transitionErr.Error(), "terminal")
}

func TestAssertValidTransition_SelfLoopIsNoOp(t *testing.T) {
	for _, stage := range allStages {
		assert.NoError(t, domain.AssertValidTransition(stage, stage), "self-loop %s", stage)
	}
}
