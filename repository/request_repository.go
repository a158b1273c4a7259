package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foiatrack-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// requestColumns is the full column list scanned into models.Request
const requestColumns = `id, reference_id, agency, jurisdiction, topic,
	date_created, date_filed, deadline, date_acknowledged, extended_deadline,
	date_response, status, docs_received, pages_received, pages_withheld,
	exemptions_cited, filing_method, confirmation_number, assigned_analyst,
	fee_waiver_requested, fee_waiver_granted, request_text, response_summary,
	notes, appeal_filed, appeal_date, appeal_body, appeal_outcome`

// RequestRepository handles database operations for tracked requests.
// Concurrent writes to the same row are serialized by Postgres row locking;
// no in-process locking is needed.
type RequestRepository struct {
	db *pgxpool.Pool
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create persists a new request and assigns its ID. Status defaults to
// draft when unset.
func (r *RequestRepository) Create(ctx context.Context, req *models.Request) error {
	if req.Status == "" {
		req.Status = models.StatusDraft
	}

	query := `
		INSERT INTO foia_requests (
			reference_id, agency, jurisdiction, topic, status,
			date_filed, deadline, extended_deadline,
			request_text, filing_method, confirmation_number,
			fee_waiver_requested, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, date_created`

	err := r.db.QueryRow(
		ctx, query,
		req.ReferenceID,
		req.Agency,
		req.Jurisdiction,
		req.Topic,
		req.Status,
		req.DateFiled,
		req.Deadline,
		req.ExtendedDeadline,
		req.RequestText,
		req.FilingMethod,
		req.ConfirmationNumber,
		req.FeeWaiverRequested,
		req.Notes,
	).Scan(&req.ID, &req.DateCreated)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// GetByID retrieves a request by ID; returns (nil, nil) when absent
func (r *RequestRepository) GetByID(ctx context.Context, id int) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM foia_requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request %d: %w", id, err)
	}
	return req, nil
}

// GetByReference retrieves a request by its external reference string;
// returns (nil, nil) when absent
func (r *RequestRepository) GetByReference(ctx context.Context, referenceID string) (*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM foia_requests WHERE reference_id = $1`
	req, err := scanRequest(r.db.QueryRow(ctx, query, referenceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request %q: %w", referenceID, err)
	}
	return req, nil
}

// RequestFilter narrows a List call. Zero values mean "any".
type RequestFilter struct {
	Jurisdiction string
	Status       *models.RequestStatus
	Agency       string // case-insensitive substring match
	Limit        int
	Offset       int
}

// List retrieves requests newest-created first
func (r *RequestRepository) List(ctx context.Context, filter RequestFilter) ([]*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM foia_requests WHERE 1=1`

	var args []interface{}
	argIndex := 1

	if filter.Jurisdiction != "" {
		query += fmt.Sprintf(" AND jurisdiction = $%d", argIndex)
		args = append(args, filter.Jurisdiction)
		argIndex++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.Agency != "" {
		query += fmt.Sprintf(" AND agency ILIKE $%d", argIndex)
		args = append(args, "%"+filter.Agency+"%")
		argIndex++
	}

	query += " ORDER BY date_created DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ListByStatus retrieves requests in one status, newest-created first. It
// satisfies the alert engine's request source.
func (r *RequestRepository) ListByStatus(ctx context.Context, status models.RequestStatus, limit int) ([]*models.Request, error) {
	return r.List(ctx, RequestFilter{Status: &status, Limit: limit})
}

// ListOverdue retrieves non-terminal requests whose effective deadline is
// strictly before today. Requests without a deadline are never returned.
func (r *RequestRepository) ListOverdue(ctx context.Context) ([]*models.Request, error) {
	query := `SELECT ` + requestColumns + `
		FROM foia_requests
		WHERE status NOT IN ('complete', 'denied', 'withdrawn', 'no_responsive_records')
		AND (
			(extended_deadline IS NOT NULL AND extended_deadline < CURRENT_DATE)
			OR (extended_deadline IS NULL AND deadline IS NOT NULL AND deadline < CURRENT_DATE)
		)
		ORDER BY COALESCE(extended_deadline, deadline)`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// StatusUpdate carries optional field updates applied together with a
// status change, in one statement
type StatusUpdate struct {
	ReferenceID        *string
	DateFiled          *time.Time
	Deadline           *time.Time
	DateAcknowledged   *time.Time
	ExtendedDeadline   *time.Time
	DateResponse       *time.Time
	FilingMethod       *string
	ConfirmationNumber *string
	AssignedAnalyst    *string
	FeeWaiverGranted   *bool
	AppealFiled        *bool
	AppealDate         *time.Time
	AppealBody         *string
	AppealOutcome      *string
}

// UpdateStatus sets the status plus any provided field updates and returns
// the updated record, or (nil, nil) when the ID is absent. Any status may
// follow any other; transitions are not validated.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int, status models.RequestStatus, update StatusUpdate) (*models.Request, error) {
	query := `UPDATE foia_requests SET status = $2`
	args := []interface{}{id, status}
	argIndex := 3

	set := func(column string, value interface{}) {
		query += fmt.Sprintf(", %s = $%d", column, argIndex)
		args = append(args, value)
		argIndex++
	}

	if update.ReferenceID != nil {
		set("reference_id", *update.ReferenceID)
	}
	if update.DateFiled != nil {
		set("date_filed", *update.DateFiled)
	}
	if update.Deadline != nil {
		set("deadline", *update.Deadline)
	}
	if update.DateAcknowledged != nil {
		set("date_acknowledged", *update.DateAcknowledged)
	}
	if update.ExtendedDeadline != nil {
		set("extended_deadline", *update.ExtendedDeadline)
	}
	if update.DateResponse != nil {
		set("date_response", *update.DateResponse)
	}
	if update.FilingMethod != nil {
		set("filing_method", *update.FilingMethod)
	}
	if update.ConfirmationNumber != nil {
		set("confirmation_number", *update.ConfirmationNumber)
	}
	if update.AssignedAnalyst != nil {
		set("assigned_analyst", *update.AssignedAnalyst)
	}
	if update.FeeWaiverGranted != nil {
		set("fee_waiver_granted", *update.FeeWaiverGranted)
	}
	if update.AppealFiled != nil {
		set("appeal_filed", *update.AppealFiled)
	}
	if update.AppealDate != nil {
		set("appeal_date", *update.AppealDate)
	}
	if update.AppealBody != nil {
		set("appeal_body", *update.AppealBody)
	}
	if update.AppealOutcome != nil {
		set("appeal_outcome", *update.AppealOutcome)
	}

	query += ` WHERE id = $1 RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update request %d: %w", id, err)
	}
	return req, nil
}

// AppendNote appends a timestamped entry to the request's note log. Notes
// are append-only: prior entries are never overwritten.
func (r *RequestRepository) AppendNote(ctx context.Context, id int, note string) (*models.Request, error) {
	entry := fmt.Sprintf("[%s] %s", time.Now().UTC().Format("2006-01-02 15:04"), note)

	query := `
		UPDATE foia_requests
		SET notes = CASE
			WHEN notes IS NULL OR notes = '' THEN $2
			ELSE notes || E'\n' || $2
		END
		WHERE id = $1
		RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRow(ctx, query, id, entry))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append note to request %d: %w", id, err)
	}
	return req, nil
}

// ResponseRecord carries the facts extracted from one agency response
type ResponseRecord struct {
	DocsReceived    int
	PagesReceived   int
	PagesWithheld   int
	ExemptionsCited string
	ResponseSummary string
	DateResponse    *time.Time
}

// RecordResponse stores response facts and derives the resulting status:
// partial_response when pages were withheld, complete otherwise. Returns
// (nil, nil) when the ID is absent.
func (r *RequestRepository) RecordResponse(ctx context.Context, id int, record ResponseRecord) (*models.Request, error) {
	responseDate := time.Now().UTC()
	if record.DateResponse != nil {
		responseDate = *record.DateResponse
	}

	status := models.StatusComplete
	if record.PagesWithheld > 0 {
		status = models.StatusPartialResponse
	}

	query := `
		UPDATE foia_requests
		SET docs_received = $2,
			pages_received = $3,
			pages_withheld = $4,
			exemptions_cited = $5,
			response_summary = $6,
			date_response = $7,
			status = $8
		WHERE id = $1
		RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRow(
		ctx, query,
		id,
		record.DocsReceived,
		record.PagesReceived,
		record.PagesWithheld,
		record.ExemptionsCited,
		record.ResponseSummary,
		responseDate,
		status,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record response for request %d: %w", id, err)
	}
	return req, nil
}

// Delete removes a request; returns false when the ID is absent. IDs are
// never reused: the sequence only moves forward.
func (r *RequestRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM foia_requests WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete request %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// RequestStats summarizes the tracked requests
type RequestStats struct {
	Total    int                          `json:"total"`
	Overdue  int                          `json:"overdue"`
	ByStatus map[models.RequestStatus]int `json:"by_status"`
}

// Stats returns totals, the overdue count, and a sparse per-status count
// (statuses with zero requests are omitted)
func (r *RequestRepository) Stats(ctx context.Context) (*RequestStats, error) {
	stats := &RequestStats{ByStatus: make(map[models.RequestStatus]int)}

	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM foia_requests`).Scan(&stats.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM foia_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status models.RequestStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM foia_requests
		WHERE status NOT IN ('complete', 'denied', 'withdrawn', 'no_responsive_records')
		AND (
			(extended_deadline IS NOT NULL AND extended_deadline < CURRENT_DATE)
			OR (extended_deadline IS NULL AND deadline IS NOT NULL AND deadline < CURRENT_DATE)
		)`).Scan(&stats.Overdue)
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue requests: %w", err)
	}

	return stats, nil
}

// rowScanner covers pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*models.Request, error) {
	req := &models.Request{}
	err := row.Scan(
		&req.ID,
		&req.ReferenceID,
		&req.Agency,
		&req.Jurisdiction,
		&req.Topic,
		&req.DateCreated,
		&req.DateFiled,
		&req.Deadline,
		&req.DateAcknowledged,
		&req.ExtendedDeadline,
		&req.DateResponse,
		&req.Status,
		&req.DocsReceived,
		&req.PagesReceived,
		&req.PagesWithheld,
		&req.ExemptionsCited,
		&req.FilingMethod,
		&req.ConfirmationNumber,
		&req.AssignedAnalyst,
		&req.FeeWaiverRequested,
		&req.FeeWaiverGranted,
		&req.RequestText,
		&req.ResponseSummary,
		&req.Notes,
		&req.AppealFiled,
		&req.AppealDate,
		&req.AppealBody,
		&req.AppealOutcome,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func scanRequests(rows pgx.Rows) ([]*models.Request, error) {
	var requests []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
