package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyops/psa_backend/internal/apperrors"
	"github.com/tallyops/psa_backend/internal/core/domain"
	portsrepo "github.com/tallyops/psa_backend/internal/core/ports/repositories"
	"github.com/tallyops/psa_backend/internal/models"
	"github.com/tallyops/psa_backend/internal/utils/mapping"
	"github.com/tallyops/psa_backend/internal/utils/pagination"
)

// PgxInvoiceRepository persists invoices and their line items. Finalization
// runs in a single transaction that also locks source records, so the
// repository depends on the time entry, expense, and milestone repositories
// for their InTx write methods.
type PgxInvoiceRepository struct {
	BaseRepository
	timeEntryRepo portsrepo.TimeEntryRepositoryFacade
	expenseRepo   portsrepo.ExpenseRepositoryFacade
	milestoneRepo portsrepo.MilestoneRepositoryFacade
}

func newPgxInvoiceRepository(pool *pgxpool.Pool, timeEntryRepo portsrepo.TimeEntryRepositoryFacade, expenseRepo portsrepo.ExpenseRepositoryFacade, milestoneRepo portsrepo.MilestoneRepositoryFacade) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		timeEntryRepo:  timeEntryRepo,
		expenseRepo:    expenseRepo,
		milestoneRepo:  milestoneRepo,
	}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryWithTx
var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, organization_id, project_id, company_id, billing_method, status, number, subtotal, tax, total, issue_date, due_date, finalized_at, finalized_by, created_at, created_by, last_updated_at, last_updated_by`

const lineItemColumns = `line_item_id, invoice_id, description, quantity, rate, amount, time_entry_ids, expense_ids, milestone_id`

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.OrganizationID,
		&m.ProjectID,
		&m.CompanyID,
		&m.BillingMethod,
		&m.Status,
		&m.Number,
		&m.Subtotal,
		&m.Tax,
		&m.Total,
		&m.IssueDate,
		&m.DueDate,
		&m.FinalizedAt,
		&m.FinalizedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, lineItems []domain.InvoiceLineItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		m.InvoiceID,
		m.OrganizationID,
		m.ProjectID,
		m.CompanyID,
		m.BillingMethod,
		m.Status,
		m.Number,
		m.Subtotal,
		m.Tax,
		m.Total,
		m.IssueDate,
		m.DueDate,
		m.FinalizedAt,
		m.FinalizedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceID, err)
	}

	if err := insertLineItems(ctx, tx, lineItems); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertLineItems(ctx context.Context, tx pgx.Tx, lineItems []domain.InvoiceLineItem) error {
	if len(lineItems) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO invoice_line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, li := range lineItems {
		m := mapping.ToModelInvoiceLineItem(li)
		batch.Queue(query,
			m.LineItemID,
			m.InvoiceID,
			m.Description,
			m.Quantity,
			m.Rate,
			m.Amount,
			m.TimeEntryIDs,
			m.ExpenseIDs,
			m.MilestoneID,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range lineItems {
		if _, err := br.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert invoice line item", err)
		}
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice "+invoiceID, err)
	}

	lineItems, err := r.findLineItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainInvoice(m)
	d.LineItems = lineItems
	return &d, nil
}

func (r *PgxInvoiceRepository) findLineItems(ctx context.Context, invoiceID string) ([]domain.InvoiceLineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM invoice_line_items WHERE invoice_id = $1 ORDER BY line_item_id;`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for invoice "+invoiceID, err)
	}
	defer rows.Close()

	modelItems := []models.InvoiceLineItem{}
	for rows.Next() {
		var m models.InvoiceLineItem
		scanErr := rows.Scan(
			&m.LineItemID,
			&m.InvoiceID,
			&m.Description,
			&m.Quantity,
			&m.Rate,
			&m.Amount,
			&m.TimeEntryIDs,
			&m.ExpenseIDs,
			&m.MilestoneID,
		)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row", scanErr)
		}
		modelItems = append(modelItems, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows", err)
	}
	return mapping.ToDomainInvoiceLineItemSlice(modelItems), nil
}

func (r *PgxInvoiceRepository) ListInvoicesByProject(ctx context.Context, projectID string, statuses []domain.InvoiceStatus) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE project_id = $1`
	args := []interface{}{projectID}
	if len(statuses) > 0 {
		statusVals := make([]string, len(statuses))
		for i, s := range statuses {
			statusVals[i] = string(s)
		}
		query += ` AND status = ANY($2)`
		args = append(args, statusVals)
	}
	query += ` ORDER BY issue_date DESC, created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoices for project "+projectID, err)
	}
	defer rows.Close()

	modelInvoices := []models.Invoice{}
	for rows.Next() {
		m, scanErr := scanInvoice(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice row", scanErr)
		}
		modelInvoices = append(modelInvoices, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}
	return mapping.ToDomainInvoiceSlice(modelInvoices), nil
}

func (r *PgxInvoiceRepository) ListInvoicesByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + invoiceColumns + ` FROM invoices WHERE organization_id = $1`
	orderBy := `ORDER BY created_at DESC, invoice_id DESC`
	args := []interface{}{organizationID}

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastCreatedAt, parseErr := time.Parse(time.RFC3339Nano, fields[0])
		if parseErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", parseErr)
		}
		cursorClause := `AND (created_at, invoice_id) < ($2, $3)`
		args = append(args, lastCreatedAt, fields[1])
		query := baseQuery + " " + cursorClause + " " + orderBy + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderBy + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query invoices for organization "+organizationID, err)
	}
	defer rows.Close()

	modelInvoices := make([]models.Invoice, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanInvoice(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice row", scanErr)
		}
		modelInvoices = append(modelInvoices, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}

	var nextTokenVal *string
	results := modelInvoices
	if len(modelInvoices) > limit {
		last := modelInvoices[limit-1]
		newToken := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.InvoiceID)
		nextTokenVal = &newToken
		results = modelInvoices[:limit]
	}

	return mapping.ToDomainInvoiceSlice(results), nextTokenVal, nil
}

func (r *PgxInvoiceRepository) UpdateDraftInvoice(ctx context.Context, invoice domain.Invoice, lineItems []domain.InvoiceLineItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE invoices
		SET billing_method = $1, subtotal = $2, tax = $3, total = $4, issue_date = $5,
		    due_date = $6, last_updated_at = $7, last_updated_by = $8
		WHERE invoice_id = $9 AND status = $10;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.BillingMethod,
		m.Subtotal,
		m.Tax,
		m.Total,
		m.IssueDate,
		m.DueDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.InvoiceID,
		string(domain.InvoiceDraft),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update draft invoice "+m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// Replace line items wholesale; drafts are small.
	if _, err := tx.Exec(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1;`, m.InvoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to clear line items for invoice "+m.InvoiceID, err)
	}
	if err := insertLineItems(ctx, tx, lineItems); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE invoice_id = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, string(status), updatedAt, updatedBy, invoiceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FinalizeInvoice assigns the invoice number from the per-organization
// per-year counter, stamps the invoice, locks the source time entries and
// expenses, and links the source milestones, all in one transaction.
func (r *PgxInvoiceRepository) FinalizeInvoice(ctx context.Context, invoice domain.Invoice, sources portsrepo.InvoiceSources, finalizedBy string, finalizedAt time.Time) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	year := finalizedAt.UTC().Year()

	// The upsert both creates the counter row on first use and increments it
	// atomically; concurrent finalizes serialize on the row lock.
	var seq int64
	counterQuery := `
		INSERT INTO invoice_counters (organization_id, year, next_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (organization_id, year)
		DO UPDATE SET next_value = invoice_counters.next_value + 1
		RETURNING next_value;
	`
	if err := tx.QueryRow(ctx, counterQuery, invoice.OrganizationID, year).Scan(&seq); err != nil {
		return "", apperrors.NewAppError(500, "failed to increment invoice counter for organization "+invoice.OrganizationID, err)
	}
	number := fmt.Sprintf("INV-%d-%05d", year, seq)

	stampQuery := `
		UPDATE invoices
		SET status = $1, number = $2, finalized_at = $3, finalized_by = $4,
		    last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $5 AND status = $6;
	`
	cmdTag, err := tx.Exec(ctx, stampQuery,
		string(domain.InvoiceFinalized),
		number,
		finalizedAt,
		finalizedBy,
		invoice.InvoiceID,
		string(domain.InvoiceDraft),
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to finalize invoice "+invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Lost a race with another finalize or a void.
		return "", apperrors.ErrAlreadyFinalized
	}

	if err := r.timeEntryRepo.LockTimeEntriesInTx(ctx, tx, sources.TimeEntryIDs, invoice.InvoiceID, finalizedBy, finalizedAt); err != nil {
		return "", err
	}
	if err := r.expenseRepo.LockExpensesInTx(ctx, tx, sources.ExpenseIDs, invoice.InvoiceID, finalizedBy, finalizedAt); err != nil {
		return "", err
	}
	if err := r.milestoneRepo.LinkMilestonesToInvoiceInTx(ctx, tx, sources.MilestoneIDs, invoice.InvoiceID, finalizedBy, finalizedAt); err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return number, nil
}
