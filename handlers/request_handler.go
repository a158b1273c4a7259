package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"foiatrack-backend/models"
	"foiatrack-backend/repository"
	"foiatrack-backend/service"

	"github.com/gin-gonic/gin"
)

// RequestHandler handles HTTP requests for tracked public-records requests
type RequestHandler struct {
	requestService *service.RequestService
	requestRepo    *repository.RequestRepository
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *service.RequestService, requestRepo *repository.RequestRepository) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		requestRepo:    requestRepo,
	}
}

// CreateRequestBody represents the request body for tracking a new request
type CreateRequestBody struct {
	Agency       string `json:"agency" binding:"required"`
	Jurisdiction string `json:"jurisdiction" binding:"required"`
	Topic        string `json:"topic" binding:"required"`
	RequestText  string `json:"request_text"`
	Status       string `json:"status"`
	ReferenceID  string `json:"reference_id"`
}

// CreateRequest handles POST /api/requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	status := models.StatusDraft
	if body.Status != "" {
		status = models.RequestStatus(body.Status)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown status: " + body.Status,
				},
			})
			return
		}
	}

	req, err := h.requestService.CreateRequest(c.Request.Context(), service.CreateRequestInput{
		Agency:       body.Agency,
		Jurisdiction: body.Jurisdiction,
		Topic:        body.Topic,
		RequestText:  body.RequestText,
		Status:       status,
		ReferenceID:  body.ReferenceID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    req,
	})
}

// GetRequest handles GET /api/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	req, err := h.requestRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if req == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    req,
	})
}

// GetRequestByReference handles GET /api/requests/reference/:ref
func (h *RequestHandler) GetRequestByReference(c *gin.Context) {
	ref := c.Param("ref")

	req, err := h.requestRepo.GetByReference(c.Request.Context(), ref)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if req == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    req,
	})
}

// ListRequests handles GET /api/requests
func (h *RequestHandler) ListRequests(c *gin.Context) {
	filter := repository.RequestFilter{
		Jurisdiction: c.Query("jurisdiction"),
		Agency:       c.Query("agency"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.RequestStatus(statusStr)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown status: " + statusStr,
				},
			})
			return
		}
		filter.Status = &status
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	requests, err := h.requestRepo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
	})
}

// ListOverdue handles GET /api/requests/overdue
func (h *RequestHandler) ListOverdue(c *gin.Context) {
	requests, err := h.requestRepo.ListOverdue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
	})
}

// GetStats handles GET /api/requests/stats
func (h *RequestHandler) GetStats(c *gin.Context) {
	stats, err := h.requestRepo.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// FileRequestBody represents the request body for filing a request
type FileRequestBody struct {
	FiledDate          *string `json:"filed_date"` // YYYY-MM-DD
	FilingMethod       string  `json:"filing_method"`
	ConfirmationNumber string  `json:"confirmation_number"`
	ReferenceID        string  `json:"reference_id"`
}

// FileRequest handles POST /api/requests/:id/file
func (h *RequestHandler) FileRequest(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	var body FileRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	input := service.FileRequestInput{
		FilingMethod:       body.FilingMethod,
		ConfirmationNumber: body.ConfirmationNumber,
		ReferenceID:        body.ReferenceID,
	}
	if body.FiledDate != nil {
		filed, err := time.Parse("2006-01-02", *body.FiledDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DATE",
					"message": "filed_date must be YYYY-MM-DD",
				},
			})
			return
		}
		input.FiledDate = &filed
	}

	req, err := h.requestService.FileRequest(c.Request.Context(), id, input)
	if err != nil {
		var unknownErr *service.UnknownJurisdictionError
		if errors.As(err, &unknownErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNKNOWN_JURISDICTION",
					"message": err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if req == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    req,
	})
}

// ExtendRequest handles POST /api/requests/:id/extend
func (h *RequestHandler) ExtendRequest(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	req, err := h.requestService.ExtendRequest(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXTEND_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if req == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    req,
	})
}

// UpdateStatusBody represents the request body for a status update
type UpdateStatusBody struct {
	Status             string  `json:"status" binding:"required"`
	DateAcknowledged   *string `json:"date_acknowledged"` // YYYY-MM-DD
	AssignedAnalyst    *string `json:"assigned_analyst"`
	FeeWaiverGranted   *bool   `json:"fee_waiver_granted"`
	AppealFiled        *bool   `json:"appeal_filed"`
	AppealDate         *string `json:"appeal_date"` // YYYY-MM-DD
	AppealBody         *string `json:"appeal_body"`
	AppealOutcome      *string `json:"appeal_outcome"`
	FilingMethod       *string `json:"filing_method"`
	ConfirmationNumber *string `json:"confirmation_number"`
}

// UpdateStatus handles PUT /api/requests/:id/status
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	var body UpdateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	status := models.RequestStatus(body.Status)
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Unknown status: " + body.Status,
			},
		})
		return
	}

	update := repository.StatusUpdate{
		AssignedAnalyst:    body.AssignedAnalyst,
		FeeWaiverGranted:   body.FeeWaiverGranted,
		AppealFiled:        body.AppealFiled,
		AppealBody:         body.AppealBody,
		AppealOutcome:      body.AppealOutcome,
		FilingMethod:       body.FilingMethod,
		ConfirmationNumber: body.ConfirmationNumber,
	}
	if body.DateAcknowledged != nil {
		ack, err := time.Parse("2006-01-02", *body.DateAcknowledged)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DATE",
					"message": "date_acknowledged must be YYYY-MM-DD",
				},
			})
			return
		}
		update.DateAcknowledged = &ack
	}
	if body.AppealDate != nil {
		appealDate, err := time.Parse("2006-01-02", *body.AppealDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DATE",
					"message": "appeal_date must be YYYY-MM-DD",
				},
			})
			return
		}
		update.AppealDate = &appealDate
	}

	req, err := h.requestRepo.UpdateStatus(c.Request.Context(), id, status, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if req == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    req,
	})
}

// AppendNoteBody represents the request body for appending a note
type AppendNoteBody struct {
	Note string `json:"note" binding:"required"`
}

// AppendNote handles POST /api/requests/:id/notes
func (h *RequestHandler) AppendNote(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	var body AppendNoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	req, err := h.requestRepo.AppendNote(c.Request.Context(), id, body.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if req == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    req,
	})
}

// RecordResponseBody represents the request body for recording an agency
// response. When raw_text is provided the parser fills missing fields.
type RecordResponseBody struct {
	RawText         string  `json:"raw_text"`
	DocsReceived    int     `json:"docs_received"`
	PagesReceived   int     `json:"pages_received"`
	PagesWithheld   int     `json:"pages_withheld"`
	ExemptionsCited string  `json:"exemptions_cited"`
	ResponseSummary string  `json:"response_summary"`
	DateResponse    *string `json:"date_response"` // YYYY-MM-DD
}

// RecordResponse handles POST /api/requests/:id/response
func (h *RequestHandler) RecordResponse(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	var body RecordResponseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	input := service.RecordResponseInput{
		RawText:         body.RawText,
		DocsReceived:    body.DocsReceived,
		PagesReceived:   body.PagesReceived,
		PagesWithheld:   body.PagesWithheld,
		ExemptionsCited: body.ExemptionsCited,
		ResponseSummary: body.ResponseSummary,
	}
	if body.DateResponse != nil {
		responseDate, err := time.Parse("2006-01-02", *body.DateResponse)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DATE",
					"message": "date_response must be YYYY-MM-DD",
				},
			})
			return
		}
		input.DateResponse = &responseDate
	}

	req, err := h.requestService.RecordResponse(c.Request.Context(), id, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if req == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    req,
	})
}

// DeleteRequest handles DELETE /api/requests/:id
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}

	deleted, err := h.requestRepo.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

func (h *RequestHandler) requestID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid request ID format",
			},
		})
		return 0, false
	}
	return id, true
}
