package dto

import (
	"time"

	"github.com/tallyops/psa_backend/internal/core/domain"
)

// BillingPeriod bounds a billing computation. Both dates are inclusive.
type BillingPeriod struct {
	From time.Time `json:"from" binding:"required"`
	To   time.Time `json:"to" binding:"required"`
}

// BillingComputation is the output of a billing method computation: the line
// items an invoice would carry plus their subtotal in minor units. Line items
// record the source entry IDs so a later finalize can lock them.
type BillingComputation struct {
	LineItems []domain.InvoiceLineItem `json:"lineItems"`
	Subtotal  int64                    `json:"subtotal"`
}
