package domain

// ApprovalStatus is the shared review status for submittable activity records
// (time entries and expenses).
type ApprovalStatus string

const (
	ApprovalDraft     ApprovalStatus = "DRAFT"
	ApprovalSubmitted ApprovalStatus = "SUBMITTED"
	ApprovalApproved  ApprovalStatus = "APPROVED"
	ApprovalRejected  ApprovalStatus = "REJECTED"
	ApprovalLocked    ApprovalStatus = "LOCKED" // Set only when a finalized invoice references the record
)

// IsEditable reports whether a record in this status may still be mutated by
// its owner. Only drafts and rejected records are open for edits.
func (s ApprovalStatus) IsEditable() bool {
	return s == ApprovalDraft || s == ApprovalRejected
}
