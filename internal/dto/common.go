package dto

// BatchResult reports the outcome of one record within a batch operation.
// Batch approve/reject applies the single-record rule independently per id;
// callers should expect partial application.
type BatchResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ListApprovablesParams defines query parameters for listing time entries or
// expenses.
type ListApprovablesParams struct {
	Status *string `form:"status"` // Optional approval status filter
}
