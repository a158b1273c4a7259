package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"foiatrack-backend/service"

	"github.com/gin-gonic/gin"
)

// AlertHandler handles HTTP requests for deadline alerts and jurisdiction
// deadline rules
type AlertHandler struct {
	alertEngine *service.AlertEngine
	calculator  *service.DeadlineCalculator
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alertEngine *service.AlertEngine, calculator *service.DeadlineCalculator) *AlertHandler {
	return &AlertHandler{
		alertEngine: alertEngine,
		calculator:  calculator,
	}
}

// CheckAll handles GET /api/alerts
func (h *AlertHandler) CheckAll(c *gin.Context) {
	alerts, err := h.alertEngine.CheckAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SCAN_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    alerts,
	})
}

// CheckOverdue handles GET /api/alerts/overdue
func (h *AlertHandler) CheckOverdue(c *gin.Context) {
	alerts, err := h.alertEngine.CheckOverdue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SCAN_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    alerts,
	})
}

// CheckUpcoming handles GET /api/alerts/upcoming?days=N
func (h *AlertHandler) CheckUpcoming(c *gin.Context) {
	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DAYS",
					"message": "days must be a positive integer",
				},
			})
			return
		}
		days = parsed
	}

	alerts, err := h.alertEngine.CheckUpcoming(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SCAN_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    alerts,
	})
}

// ListJurisdictions handles GET /api/jurisdictions
func (h *AlertHandler) ListJurisdictions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.calculator.Jurisdictions(),
	})
}

// GetJurisdiction handles GET /api/jurisdictions/:name
func (h *AlertHandler) GetJurisdiction(c *gin.Context) {
	info, err := h.calculator.JurisdictionInfo(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNKNOWN_JURISDICTION",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    info,
	})
}

// PreviewDeadlineBody represents the request body for a deadline preview
type PreviewDeadlineBody struct {
	Jurisdiction string `json:"jurisdiction" binding:"required"`
	FiledDate    string `json:"filed_date" binding:"required"` // YYYY-MM-DD
}

// PreviewDeadline handles POST /api/deadlines/preview. It computes the
// statutory deadline (and extension, where one exists) without touching any
// stored request.
func (h *AlertHandler) PreviewDeadline(c *gin.Context) {
	var body PreviewDeadlineBody
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

	filedDate, err := time.Parse("2006-01-02", body.FiledDate)
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

	deadline, err := h.calculator.Calculate(body.Jurisdiction, filedDate)
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
				"code":    "CALCULATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	data := gin.H{
		"jurisdiction": body.Jurisdiction,
		"filed_date":   filedDate.Format("2006-01-02"),
		"deadline":     deadline.Format("2006-01-02"),
	}
	if extended, err := h.calculator.CalculateExtension(body.Jurisdiction, deadline); err == nil && extended != nil {
		data["extended_deadline"] = extended.Format("2006-01-02")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
