package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maguoyu/IASMind-sub001/analysis"
	"github.com/maguoyu/IASMind-sub001/model"
	"github.com/maguoyu/IASMind-sub001/service"
)

const analysisSampleText = `供方向需方供应3号喷气燃料，质量标准符合GB 6537的规定。
单价为5,800元/吨，采购数量10,000吨，合同总金额5,800万元，执行固定价格。
付款方式为账期30天。迟延交付的，按日支付违约金0.5%。
双方因履行本合同发生争议的，提交上海仲裁委员会仲裁。
违约责任、不可抗力、保密条款由双方另行约定。`

func postAnalysis(t *testing.T, handler gin.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.POST("/analyze/:kind", handler)

	data, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	return w
}

func TestAnalysisHandlerCompliance(t *testing.T) {
	handler := &AnalysisHandler{store: service.GetContractStore()}

	w := postAnalysis(t, handler.Compliance, "/analyze/compliance", AnalyzeRequest{Text: analysisSampleText})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var report analysis.ComplianceReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(report.CompliantItems) == 0 {
		t.Error("Expected compliant items for sample contract")
	}
	if report.Level == "" {
		t.Error("Expected a compliance level")
	}
}

func TestAnalysisHandlerComplianceDigest(t *testing.T) {
	handler := &AnalysisHandler{store: service.GetContractStore()}

	w := postAnalysis(t, handler.Compliance, "/analyze/compliance?format=digest", AnalyzeRequest{Text: analysisSampleText})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "合规等级:") {
		t.Errorf("Expected digest text, got '%s'", w.Body.String())
	}
}

func TestAnalysisHandlerRisk(t *testing.T) {
	handler := &AnalysisHandler{store: service.GetContractStore()}

	w := postAnalysis(t, handler.Risk, "/analyze/risk", AnalyzeRequest{Text: analysisSampleText, Amount: 58000000})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var report analysis.RiskReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if report.Price.Score != 30 {
		t.Errorf("Expected fixed-price score 30, got %d", report.Price.Score)
	}
	if report.OverallLevel == "" {
		t.Error("Expected an overall risk level")
	}
}

func TestAnalysisHandlerRiskDigest(t *testing.T) {
	handler := &AnalysisHandler{store: service.GetContractStore()}

	w := postAnalysis(t, handler.Risk, "/analyze/risk?format=digest", AnalyzeRequest{Text: analysisSampleText})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "综合风险:") {
		t.Errorf("Expected digest text, got '%s'", w.Body.String())
	}
}

func TestAnalysisHandlerTerms(t *testing.T) {
	handler := &AnalysisHandler{store: service.GetContractStore()}

	w := postAnalysis(t, handler.Terms, "/analyze/terms", AnalyzeRequest{Text: analysisSampleText})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var terms analysis.ExtractedTerms
	if err := json.Unmarshal(w.Body.Bytes(), &terms); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if terms.UnitPrice != "5,800元/吨" {
		t.Errorf("Expected unit price '5,800元/吨', got '%s'", terms.UnitPrice)
	}
	if terms.TotalAmount != "5,800万元" {
		t.Errorf("Expected total amount '5,800万元', got '%s'", terms.TotalAmount)
	}
	if terms.DisputeResolution != "上海仲裁委员会" {
		t.Errorf("Expected dispute resolution '上海仲裁委员会', got '%s'", terms.DisputeResolution)
	}
}

func TestAnalysisHandlerTermsDigest(t *testing.T) {
	handler := &AnalysisHandler{store: service.GetContractStore()}

	w := postAnalysis(t, handler.Terms, "/analyze/terms?format=digest", AnalyzeRequest{Text: ""})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "单价: "+analysis.NotExtracted) {
		t.Errorf("Expected sentinel for empty text, got '%s'", w.Body.String())
	}
}

func TestAnalysisHandlerInvalidJSON(t *testing.T) {
	handler := &AnalysisHandler{store: service.GetContractStore()}

	router := gin.New()
	router.POST("/analyze/compliance", handler.Compliance)

	req := httptest.NewRequest("POST", "/analyze/compliance", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestAnalysisHandlerAnalyze(t *testing.T) {
	store := service.GetContractStore()
	store.Save(&model.Contract{
		ID:        "analysis-completed",
		Filename:  "contract.pdf",
		Tenant:    "tenant1",
		Status:    model.StatusCompleted,
		Text:      analysisSampleText,
		CreatedAt: time.Now(),
	})
	store.Save(&model.Contract{
		ID:        "analysis-pending",
		Filename:  "contract.pdf",
		Tenant:    "tenant1",
		Status:    model.StatusProcessing,
		CreatedAt: time.Now(),
	})

	handler := &AnalysisHandler{store: store}

	tests := []struct {
		name           string
		id             string
		tenant         string
		expectedStatus int
	}{
		{
			name:           "completed contract",
			id:             "analysis-completed",
			tenant:         "tenant1",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "text not ready",
			id:             "analysis-pending",
			tenant:         "tenant1",
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "wrong tenant",
			id:             "analysis-completed",
			tenant:         "tenant2",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown contract",
			id:             "no-such-contract",
			tenant:         "tenant1",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/contracts/:id/analysis", func(c *gin.Context) {
				c.Set("tenant", tt.tenant)
				handler.Analyze(c)
			})

			req := httptest.NewRequest("GET", "/contracts/"+tt.id+"/analysis", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var response map[string]json.RawMessage
				if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
					t.Fatalf("Failed to parse response: %v", err)
				}
				for _, key := range []string{"id", "compliance", "risk", "terms"} {
					if _, ok := response[key]; !ok {
						t.Errorf("Expected '%s' in response", key)
					}
				}
			}
		})
	}
}

func TestAnalysisHandlerAnalyzeAmountFromTerms(t *testing.T) {
	// The contract record carries no amount, so risk scoring must fall back
	// to the extracted total. 5,800万元 is 58,000,000 yuan, well above the
	// large-transaction threshold, so the prepayment clause escalates
	// financial risk.
	store := service.GetContractStore()
	store.Save(&model.Contract{
		ID:        "analysis-large-prepay",
		Filename:  "fuel-supply-2026.pdf",
		Tenant:    "tenant1",
		Status:    model.StatusCompleted,
		Text:      "采购航油，合同总金额5,800万元，签订后预付30%货款。",
		CreatedAt: time.Now(),
	})

	handler := &AnalysisHandler{store: store}

	router := gin.New()
	router.GET("/contracts/:id/analysis", func(c *gin.Context) {
		c.Set("tenant", "tenant1")
		handler.Analyze(c)
	})

	req := httptest.NewRequest("GET", "/contracts/analysis-large-prepay/analysis", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Risk  analysis.RiskReport     `json:"risk"`
		Terms analysis.ExtractedTerms `json:"terms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Terms.TotalAmount != "5,800万元" {
		t.Errorf("Expected total amount '5,800万元', got '%s'", response.Terms.TotalAmount)
	}
	if response.Risk.Financial.Score != 80 {
		t.Errorf("Expected financial score 80, got %d", response.Risk.Financial.Score)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{
			name:     "wan yuan",
			input:    "5,800万元",
			expected: 58000000,
		},
		{
			name:     "plain yuan",
			input:    "58,000,000元",
			expected: 58000000,
		},
		{
			name:     "bare number",
			input:    "1200.5",
			expected: 1200.5,
		},
		{
			name:     "not extracted sentinel",
			input:    analysis.NotExtracted,
			expected: 0,
		},
		{
			name:     "empty",
			input:    "",
			expected: 0,
		},
		{
			name:     "garbage",
			input:    "面议",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseAmount(tt.input); got != tt.expected {
				t.Errorf("parseAmount(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}
