package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foiatrack-backend/models"
	"foiatrack-backend/repository"
)

// RequestService handles business logic for the request lifecycle: filing
// with a computed deadline, invoking extensions, and recording responses.
type RequestService struct {
	requestRepo *repository.RequestRepository
	calculator  *DeadlineCalculator
	parser      *ResponseParser
}

// RequestServiceOption is a functional option for RequestService
type RequestServiceOption func(*RequestService)

// WithRequestRepository sets the request repository
func WithRequestRepository(repo *repository.RequestRepository) RequestServiceOption {
	return func(s *RequestService) {
		s.requestRepo = repo
	}
}

// WithDeadlineCalculator sets the deadline calculator
func WithDeadlineCalculator(calc *DeadlineCalculator) RequestServiceOption {
	return func(s *RequestService) {
		s.calculator = calc
	}
}

// WithResponseParser sets the response parser
func WithResponseParser(parser *ResponseParser) RequestServiceOption {
	return func(s *RequestService) {
		s.parser = parser
	}
}

// NewRequestService creates a new request service
func NewRequestService(opts ...RequestServiceOption) *RequestService {
	s := &RequestService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequestInput describes a request to track
type CreateRequestInput struct {
	Agency       string
	Jurisdiction string
	Topic        string
	RequestText  string
	Status       models.RequestStatus
	ReferenceID  string
}

// CreateRequest tracks a new request, in draft unless a status override is
// given. Callers that file immediately pass StatusFiled and then call
// FileRequest for the deadline.
func (s *RequestService) CreateRequest(ctx context.Context, input CreateRequestInput) (*models.Request, error) {
	if s.requestRepo == nil {
		return nil, errors.New("request repository not set")
	}

	req := &models.Request{
		Agency:             input.Agency,
		Jurisdiction:       input.Jurisdiction,
		Topic:              input.Topic,
		Status:             input.Status,
		FeeWaiverRequested: true,
	}
	if input.RequestText != "" {
		req.RequestText = &input.RequestText
	}
	if input.ReferenceID != "" {
		req.ReferenceID = &input.ReferenceID
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// FileRequestInput carries the filing facts
type FileRequestInput struct {
	FiledDate          *time.Time
	FilingMethod       string
	ConfirmationNumber string
	ReferenceID        string
}

// FileRequest marks a request filed and computes its statutory deadline in
// the same update. Returns (nil, nil) when the ID is absent.
func (s *RequestService) FileRequest(ctx context.Context, id int, input FileRequestInput) (*models.Request, error) {
	if s.requestRepo == nil {
		return nil, errors.New("request repository not set")
	}
	if s.calculator == nil {
		return nil, errors.New("deadline calculator not set")
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, nil
	}

	filedDate := time.Now().UTC()
	if input.FiledDate != nil {
		filedDate = *input.FiledDate
	}

	deadline, err := s.calculator.Calculate(req.Jurisdiction, filedDate)
	if err != nil {
		return nil, err
	}

	update := repository.StatusUpdate{
		DateFiled: &filedDate,
		Deadline:  &deadline,
	}
	if input.FilingMethod != "" {
		update.FilingMethod = &input.FilingMethod
	}
	if input.ConfirmationNumber != "" {
		update.ConfirmationNumber = &input.ConfirmationNumber
	}
	if input.ReferenceID != "" {
		update.ReferenceID = &input.ReferenceID
	}

	return s.requestRepo.UpdateStatus(ctx, id, models.StatusFiled, update)
}

// ExtendRequest invokes the jurisdiction's statutory extension: status
// becomes extended and the extended deadline is computed from the original
// deadline. Returns (nil, nil) when the ID is absent.
func (s *RequestService) ExtendRequest(ctx context.Context, id int) (*models.Request, error) {
	if s.requestRepo == nil {
		return nil, errors.New("request repository not set")
	}
	if s.calculator == nil {
		return nil, errors.New("deadline calculator not set")
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, nil
	}
	if req.Deadline == nil {
		return nil, fmt.Errorf("request %d has no deadline to extend", id)
	}

	extended, err := s.calculator.CalculateExtension(req.Jurisdiction, *req.Deadline)
	if err != nil {
		return nil, err
	}
	if extended == nil {
		return nil, fmt.Errorf("jurisdiction %q allows no extension", req.Jurisdiction)
	}

	return s.requestRepo.UpdateStatus(ctx, id, models.StatusExtended, repository.StatusUpdate{
		ExtendedDeadline: extended,
	})
}

// RecordResponseInput carries an agency response. When RawText is set the
// response parser fills any count or summary fields the caller left zero.
type RecordResponseInput struct {
	RawText         string
	DocsReceived    int
	PagesReceived   int
	PagesWithheld   int
	ExemptionsCited string
	ResponseSummary string
	DateResponse    *time.Time
}

// RecordResponse stores response facts on a request. Status derivation
// (partial_response vs complete) happens in the repository. Returns
// (nil, nil) when the ID is absent.
func (s *RequestService) RecordResponse(ctx context.Context, id int, input RecordResponseInput) (*models.Request, error) {
	if s.requestRepo == nil {
		return nil, errors.New("request repository not set")
	}

	record := repository.ResponseRecord{
		DocsReceived:    input.DocsReceived,
		PagesReceived:   input.PagesReceived,
		PagesWithheld:   input.PagesWithheld,
		ExemptionsCited: input.ExemptionsCited,
		ResponseSummary: input.ResponseSummary,
		DateResponse:    input.DateResponse,
	}

	if input.RawText != "" && s.parser != nil {
		req, err := s.requestRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if req == nil {
			return nil, nil
		}

		parsed := s.parser.Parse(input.RawText, req.Jurisdiction)
		if record.PagesReceived == 0 {
			record.PagesReceived = parsed.PagesReleased
		}
		if record.PagesWithheld == 0 {
			record.PagesWithheld = parsed.PagesWithheldFull
		}
		if record.ExemptionsCited == "" {
			record.ExemptionsCited = strings.Join(parsed.Exemptions, ", ")
		}
		if record.ResponseSummary == "" {
			record.ResponseSummary = parsed.Summary()
		}
	}

	return s.requestRepo.RecordResponse(ctx, id, record)
}
