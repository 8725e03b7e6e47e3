package analysis

import (
	"fmt"
	"math"
)

// Risk level labels, shared by the five dimensions and the aggregate.
const (
	RiskLow    = "低风险"
	RiskMedium = "中风险"
	RiskHigh   = "高风险"
)

// LargeTransactionThreshold is the contract amount above which a prepayment
// clause escalates financial risk. The escalation requires strictly greater.
const LargeTransactionThreshold = 10_000_000

// Dimension is one scored risk dimension. Score is always in [0,100];
// higher means riskier.
type Dimension struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

// RiskReport holds the five dimension scores and the aggregate. The
// aggregate is always recomputed from the five raw scores, never stored
// independently.
type RiskReport struct {
	Price        Dimension `json:"price"`
	Supply       Dimension `json:"supply"`
	Quality      Dimension `json:"quality"`
	Legal        Dimension `json:"legal"`
	Financial    Dimension `json:"financial"`
	OverallScore float64   `json:"overall_score"`
	OverallLevel string    `json:"overall_level"`
}

// legalKeywords are the five completeness clauses the legal dimension
// counts. The dimension's label reports the count instead of a risk tier.
var legalKeywords = []string{"违约责任", "争议解决", "不可抗力", "保密", "合同变更"}

// Override rules per dimension, first match wins. Price lists the
// fixed-price rule before the adjustment-mechanism rule so that a contract
// carrying both signals scores as fixed price.
var riskDimensions = []dimensionSpec{
	{
		name: "price",
		base: 70,
		rules: []scoreRule{
			{keywords: []string{"固定价格", "一口价", "价格固定"}, score: 30},
			{keywords: []string{"调价", "价格调整", "随行就市", "价格联动"}, score: 50},
		},
	},
	{
		name: "supply",
		base: 60,
		rules: []scoreRule{
			{keywords: []string{"供应保障", "保供", "优先供应", "供货保证"}, score: 40},
		},
	},
	{
		name: "quality",
		base: 80,
		rules: []scoreRule{
			{keywords: []string{"GB 6537", "GB6537", "国家标准", "质量标准", "质量检验"}, score: 35},
		},
	},
	{
		name: "legal",
		base: 70,
		rules: []scoreRule{
			{keywords: legalKeywords, minCount: 4, score: 30},
			{keywords: legalKeywords, minCount: 2, score: 50},
		},
	},
	{
		name: "financial",
		base: 60,
		rules: []scoreRule{
			{keywords: []string{"预付"}, minAmount: LargeTransactionThreshold, score: 80},
			{keywords: []string{"账期", "月结", "信用证", "承兑"}, score: 40},
		},
	},
}

// AssessRisk scores the five risk dimensions over the contract text.
// amount is the contract amount in yuan; callers without one pass 0.
func AssessRisk(text string, amount float64) *RiskReport {
	scores := make(map[string]int, len(riskDimensions))
	for i := range riskDimensions {
		d := &riskDimensions[i]
		scores[d.name] = d.evaluate(text, amount)
	}

	report := &RiskReport{
		Price:     scoredDimension(scores["price"]),
		Supply:    scoredDimension(scores["supply"]),
		Quality:   scoredDimension(scores["quality"]),
		Financial: scoredDimension(scores["financial"]),
	}
	// Legal reports its clause-completeness count rather than a tier.
	report.Legal = Dimension{
		Score: scores["legal"],
		Level: fmt.Sprintf("关键条款%d/%d", CountMatches(text, legalKeywords), len(legalKeywords)),
	}

	sum := 0
	for _, s := range scores {
		sum += s
	}
	report.OverallScore = math.Round(float64(sum)/float64(len(scores))*10) / 10
	report.OverallLevel = riskLevel(report.OverallScore)
	return report
}

func scoredDimension(score int) Dimension {
	return Dimension{Score: score, Level: riskLevel(float64(score))}
}

func riskLevel(score float64) string {
	switch {
	case score < 40:
		return RiskLow
	case score < 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}
