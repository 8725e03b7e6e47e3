package analysis

// Compliance tier labels.
const (
	LevelCompliant    = "合规"
	LevelMostlyOK     = "基本合规"
	LevelNonCompliant = "不合规"
)

// ComplianceReport lists the findings per bucket plus the derived overall
// level. Hard-requirement categories land in CompliantItems or
// NonCompliantItems; soft categories only ever populate Suggestions.
type ComplianceReport struct {
	CompliantItems    []string `json:"compliant_items"`
	NonCompliantItems []string `json:"non_compliant_items"`
	Suggestions       []string `json:"suggestions"`
	ComplianceRate    float64  `json:"compliance_rate"`
	Level             string   `json:"level"`
}

// clauseRules is evaluated top to bottom; order fixes the finding order in
// the report.
var clauseRules = []clauseRule{
	{
		category: "产品类型",
		keywords: []string{"航空燃料", "航空煤油", "喷气燃料", "航油"},
		hard:     true,
		present:  "已明确产品类型",
		absent:   "未明确产品类型（应注明3号喷气燃料等具体型号）",
	},
	{
		category: "质量标准",
		keywords: []string{"GB 6537", "GB6537", "国家标准", "国标", "质量标准"},
		hard:     true,
		present:  "已约定质量标准",
		absent:   "未约定质量标准（应引用GB 6537）",
	},
	{
		category: "安全管理",
		keywords: []string{"安全管理", "安全责任", "危险品", "危化品"},
		present:  "已包含安全管理条款",
		absent:   "建议补充安全管理条款",
	},
	{
		category: "环境保护",
		keywords: []string{"环境保护", "环保", "污染防治"},
		present:  "已包含环保条款",
		absent:   "建议补充环境保护条款",
	},
	{
		category: "保险",
		keywords: []string{"保险", "投保"},
		present:  "已包含保险条款",
		absent:   "建议补充货物运输保险条款",
	},
	{
		category: "争议解决",
		keywords: []string{"仲裁", "诉讼", "争议解决", "管辖法院"},
		hard:     true,
		present:  "已约定争议解决方式",
		absent:   "未约定争议解决方式",
	},
	{
		category: "廉洁",
		keywords: []string{"廉洁", "商业贿赂", "反腐败", "廉政"},
		present:  "已包含廉洁条款",
		absent:   "建议补充反商业贿赂条款",
	},
}

// CheckCompliance evaluates every clause category against the contract text
// and derives the overall level from the ratio of compliant findings to all
// pass/fail findings.
func CheckCompliance(text string) *ComplianceReport {
	report := &ComplianceReport{
		CompliantItems:    []string{},
		NonCompliantItems: []string{},
		Suggestions:       []string{},
	}

	for _, rule := range clauseRules {
		switch {
		case MatchesAny(text, rule.keywords):
			report.CompliantItems = append(report.CompliantItems, rule.present)
		case rule.hard:
			report.NonCompliantItems = append(report.NonCompliantItems, rule.absent)
		default:
			report.Suggestions = append(report.Suggestions, rule.absent)
		}
	}

	// Soft-rule absences only ever add suggestions, so they stay out of the
	// denominator: a contract missing nothing but optional clauses still
	// rates 1.0.
	total := len(report.CompliantItems) + len(report.NonCompliantItems)
	if total > 0 {
		report.ComplianceRate = float64(len(report.CompliantItems)) / float64(total)
	}
	switch {
	case report.ComplianceRate >= 0.8:
		report.Level = LevelCompliant
	case report.ComplianceRate >= 0.6:
		report.Level = LevelMostlyOK
	default:
		report.Level = LevelNonCompliant
	}
	return report
}
