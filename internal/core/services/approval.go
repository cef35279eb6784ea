package services

import (
	"fmt"
	"strings"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
)

// Shared validation for the submit/approve/reject/revise loop. Time entries
// and expenses carry the same approval state machine, so both services route
// their transitions through these helpers.

// validateSubmit checks that a record can move to SUBMITTED. Only drafts may
// be submitted directly; rejected records go through revise first.
func validateSubmit(status domain.ApprovalStatus) error {
	if status != domain.ApprovalDraft {
		return fmt.Errorf("%w: cannot submit record in status %s", apperrors.ErrInvalidState, status)
	}
	return nil
}

// validateApprove checks that a record can move to APPROVED. The reviewer
// must not be the record's owner.
func validateApprove(status domain.ApprovalStatus, ownerUserID, reviewerUserID string) error {
	if status != domain.ApprovalSubmitted {
		return fmt.Errorf("%w: record is in status %s", apperrors.ErrNotSubmitted, status)
	}
	if ownerUserID == reviewerUserID {
		return fmt.Errorf("%w: user %s cannot approve their own record", apperrors.ErrSelfApproval, reviewerUserID)
	}
	return nil
}

// validateReject checks that a record can move to REJECTED and that the
// reviewer supplied a usable reason. Returns the trimmed comments.
func validateReject(status domain.ApprovalStatus, comments string) (string, error) {
	if status != domain.ApprovalSubmitted {
		return "", fmt.Errorf("%w: record is in status %s", apperrors.ErrNotSubmitted, status)
	}
	trimmed := strings.TrimSpace(comments)
	if trimmed == "" {
		return "", fmt.Errorf("%w: rejection requires comments", apperrors.ErrMissingReason)
	}
	return trimmed, nil
}

// validateRevise checks that a record can be corrected. Only rejected records
// are revisable; drafts are edited directly and everything else is immutable.
func validateRevise(status domain.ApprovalStatus) error {
	if status != domain.ApprovalRejected {
		return fmt.Errorf("%w: only rejected records can be revised, status is %s", apperrors.ErrInvalidState, status)
	}
	return nil
}

// validateEditable checks that a record's fields may still be changed by its
// owner. Locked and approved records are immutable, submitted ones are frozen
// pending review.
func validateEditable(status domain.ApprovalStatus) error {
	if !status.IsEditable() {
		return fmt.Errorf("%w: record in status %s cannot be modified", apperrors.ErrNotEditable, status)
	}
	return nil
}
