package handlers

import (
	"net/http"

	"foiatrack-backend/service"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler handles HTTP requests for response-letter parsing and
// redaction analysis
type AnalysisHandler struct {
	parser   *service.ResponseParser
	detector *service.RedactionDetector
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(parser *service.ResponseParser, detector *service.RedactionDetector) *AnalysisHandler {
	return &AnalysisHandler{
		parser:   parser,
		detector: detector,
	}
}

// ParseResponseBody represents the request body for parsing a response letter
type ParseResponseBody struct {
	Text         string `json:"text" binding:"required"`
	Jurisdiction string `json:"jurisdiction" binding:"required"`
}

// ParseResponse handles POST /api/analysis/parse
func (h *AnalysisHandler) ParseResponse(c *gin.Context) {
	var body ParseResponseBody
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

	parsed := h.parser.Parse(body.Text, body.Jurisdiction)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"parsed":  parsed,
			"summary": parsed.Summary(),
		},
	})
}

// AnalyzeResponse handles POST /api/analysis/redactions. It parses the
// letter and then runs the redaction checks on the result.
func (h *AnalysisHandler) AnalyzeResponse(c *gin.Context) {
	var body ParseResponseBody
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

	parsed := h.parser.Parse(body.Text, body.Jurisdiction)
	report := h.detector.Analyze(parsed, body.Jurisdiction)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"parsed": parsed,
			"report": report,
		},
	})
}
