package domain

import (
	"fmt"
	"time"

	"github.com/tallyops/psa_backend/internal/apperrors"
)

// DealStage is the sales pipeline stage of a deal.
type DealStage string

const (
	StageLead         DealStage = "LEAD"
	StageQualified    DealStage = "QUALIFIED"
	StageDisqualified DealStage = "DISQUALIFIED"
	StageProposal     DealStage = "PROPOSAL"
	StageNegotiation  DealStage = "NEGOTIATION"
	StageWon          DealStage = "WON"
	StageLost         DealStage = "LOST"
)

// dealStageTransitions is the static table of permitted stage edges.
// Stage-skipping is deliberately not allowed; the single back-edge
// NEGOTIATION -> PROPOSAL supports proposal revision without re-qualifying.
// WON and LOST are terminal.
var dealStageTransitions = map[DealStage][]DealStage{
	StageLead:         {StageQualified, StageDisqualified},
	StageQualified:    {StageProposal, StageDisqualified},
	StageProposal:     {StageNegotiation, StageLost},
	StageNegotiation:  {StageWon, StageLost, StageProposal},
	StageDisqualified: {StageLost},
	StageWon:          {},
	StageLost:         {},
}

// IsValidStage reports whether s names a known pipeline stage.
func IsValidStage(s DealStage) bool {
	_, ok := dealStageTransitions[s]
	return ok
}

// ValidNextStages returns the ordered list of stages reachable from the given stage.
// Terminal stages return an empty list.
func ValidNextStages(from DealStage) []DealStage {
	next, ok := dealStageTransitions[from]
	if !ok {
		return nil
	}
	out := make([]DealStage, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether the stage has no outgoing edges.
func IsTerminal(stage DealStage) bool {
	next, ok := dealStageTransitions[stage]
	return ok && len(next) == 0
}

// IsValidTransition reports whether from -> to is a permitted edge.
// A self-loop is always valid as a no-op.
func IsValidTransition(from, to DealStage) bool {
	if from == to {
		return true
	}
	for _, next := range dealStageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError describes a rejected stage change with enough context
// for the caller to render an actionable message without a second round trip.
type InvalidTransitionError struct {
	From      DealStage
	To        DealStage
	ValidNext []DealStage
	Terminal  bool
}

func (e *InvalidTransitionError) Error() string {
	if e.Terminal {
		return fmt.Sprintf("cannot move deal out of terminal stage %s", e.From)
	}
	return fmt.Sprintf("cannot move deal from %s to %s; valid next stages: %v", e.From, e.To, e.ValidNext)
}

func (e *InvalidTransitionError) Unwrap() error {
	return apperrors.ErrInvalidTransition
}

// AssertValidTransition returns an *InvalidTransitionError when from -> to is
// not a permitted edge, nil otherwise.
func AssertValidTransition(from, to DealStage) error {
	if IsValidTransition(from, to) {
		return nil
	}
	return &InvalidTransitionError{
		From:      from,
		To:        to,
		ValidNext: ValidNextStages(from),
		Terminal:  IsTerminal(from),
	}
}

// Deal represents a sales opportunity moving through the pipeline.
type Deal struct {
	DealID         string     `json:"dealID"`         // Primary Key (e.g., UUID)
	OrganizationID string     `json:"organizationID"` // FK -> organizations.organization_id (Not Null)
	CompanyID      string     `json:"companyID"`      // FK -> companies.company_id
	Name           string     `json:"name"`
	Stage          DealStage  `json:"stage"`          // Changes only via the stage graph (or explicit override)
	Value          int64      `json:"value"`          // Expected value in minor currency units
	Probability    float64    `json:"probability"`    // Win probability, 0..1
	OwnerUserID    string     `json:"ownerUserID"`    // FK -> users.user_id
	StageChangedAt *time.Time `json:"stageChangedAt"` // Set on every stage change
	AuditFields
}
