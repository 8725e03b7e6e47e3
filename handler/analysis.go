package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maguoyu/IASMind-sub001/analysis"
	"github.com/maguoyu/IASMind-sub001/middleware"
	"github.com/maguoyu/IASMind-sub001/model"
	"github.com/maguoyu/IASMind-sub001/service"
)

// AnalysisHandler exposes the three contract analyzers. The analyzers are
// pure functions, so requests carry everything they need and nothing is
// stored on this path.
type AnalysisHandler struct {
	store *service.ContractStore
}

func NewAnalysisHandler() *AnalysisHandler {
	return &AnalysisHandler{store: service.GetContractStore()}
}

// AnalyzeRequest is the ad hoc analysis request body. Text defaults to the
// empty string and Amount to 0; both degenerate inputs produce a
// well-defined report rather than an error.
type AnalyzeRequest struct {
	Text   string  `json:"text"`
	Amount float64 `json:"amount"`
}

func wantsDigest(c *gin.Context) bool {
	return c.Query("format") == "digest"
}

// Compliance runs the compliance analyzer over the supplied text
func (h *AnalysisHandler) Compliance(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report := analysis.CheckCompliance(req.Text)
	if wantsDigest(c) {
		c.String(http.StatusOK, report.Digest())
		return
	}
	c.JSON(http.StatusOK, report)
}

// Risk runs the risk analyzer over the supplied text and amount
func (h *AnalysisHandler) Risk(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report := analysis.AssessRisk(req.Text, req.Amount)
	if wantsDigest(c) {
		c.String(http.StatusOK, report.Digest())
		return
	}
	c.JSON(http.StatusOK, report)
}

// Terms runs the key-term extractor over the supplied text
func (h *AnalysisHandler) Terms(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	terms := analysis.ExtractTerms(req.Text)
	if wantsDigest(c) {
		c.String(http.StatusOK, terms.Digest())
		return
	}
	c.JSON(http.StatusOK, terms)
}

// Analyze runs all three analyzers over a stored contract's extracted text.
// The contract amount for risk scoring is derived from the extracted total.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	contract := h.store.Get(id)
	if contract == nil || contract.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if contract.Status != model.StatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Contract text not ready", "status": contract.Status})
		return
	}

	terms := analysis.ExtractTerms(contract.Text)
	amount := contract.Amount
	if amount == 0 {
		amount = parseAmount(terms.TotalAmount)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         contract.ID,
		"compliance": analysis.CheckCompliance(contract.Text),
		"risk":       analysis.AssessRisk(contract.Text, amount),
		"terms":      terms,
	})
}

// parseAmount turns an extracted total like "5,800万元" or "58,000,000元"
// into yuan. Unparseable values, including the not-extracted sentinel,
// yield 0, which the risk analyzer treats as an absent amount.
func parseAmount(s string) float64 {
	if s == "" || s == analysis.NotExtracted {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "万元"):
		multiplier = 10000
		s = strings.TrimSuffix(s, "万元")
	case strings.HasSuffix(s, "元"):
		s = strings.TrimSuffix(s, "元")
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * multiplier
}
