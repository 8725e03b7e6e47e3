package analysis

import (
	"fmt"
	"strings"
)

// Truncation limits for the condensed compliance digest. The structured
// report always keeps the full finding lists.
const (
	digestMaxCompliant   = 5
	digestMaxSuggestions = 3
)

// Digest renders the compliance report as a short multi-line text for
// callers that want a plain-text summary instead of the full report.
func (r *ComplianceReport) Digest() string {
	var b strings.Builder
	fmt.Fprintf(&b, "合规等级: %s (%.0f%%)\n", r.Level, r.ComplianceRate*100)
	b.WriteString("符合项: " + joinOrNone(truncate(r.CompliantItems, digestMaxCompliant)) + "\n")
	b.WriteString("不符合项: " + joinOrNone(r.NonCompliantItems) + "\n")
	b.WriteString("建议: " + joinOrNone(truncate(r.Suggestions, digestMaxSuggestions)))
	return b.String()
}

// Digest renders the risk report one dimension per line.
func (r *RiskReport) Digest() string {
	var b strings.Builder
	fmt.Fprintf(&b, "综合风险: %.1f (%s)\n", r.OverallScore, r.OverallLevel)
	fmt.Fprintf(&b, "价格风险: %d (%s)\n", r.Price.Score, r.Price.Level)
	fmt.Fprintf(&b, "供应风险: %d (%s)\n", r.Supply.Score, r.Supply.Level)
	fmt.Fprintf(&b, "质量风险: %d (%s)\n", r.Quality.Score, r.Quality.Level)
	fmt.Fprintf(&b, "法律风险: %d (%s)\n", r.Legal.Score, r.Legal.Level)
	fmt.Fprintf(&b, "资金风险: %d (%s)", r.Financial.Score, r.Financial.Level)
	return b.String()
}

// Digest renders the extracted terms with a fixed line per field, keeping
// the output shape identical whatever the document contained.
func (t *ExtractedTerms) Digest() string {
	lines := []string{
		"单价: " + t.UnitPrice,
		"数量: " + t.Quantity,
		"合同金额: " + t.TotalAmount,
		"质量标准: " + t.QualityStandard,
		"交货地点: " + t.DeliveryLocation,
		"付款方式: " + t.PaymentMethod,
		"违约金比例: " + t.PenaltyRate,
		"争议解决: " + t.DisputeResolution,
	}
	return strings.Join(lines, "\n")
}

func truncate(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "无"
	}
	return strings.Join(items, "；")
}
