package analysis

import "regexp"

// ExtractedTerms holds the eight key terms of a procurement contract. A
// field that no pattern matched carries the NotExtracted sentinel; it is
// never empty and never omitted from the JSON form.
type ExtractedTerms struct {
	UnitPrice         string `json:"unit_price"`
	Quantity          string `json:"quantity"`
	TotalAmount       string `json:"total_amount"`
	QualityStandard   string `json:"quality_standard"`
	DeliveryLocation  string `json:"delivery_location"`
	PaymentMethod     string `json:"payment_method"`
	PenaltyRate       string `json:"penalty_rate"`
	DisputeResolution string `json:"dispute_resolution"`
}

var (
	unitPricePattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?\s*元\s*/\s*(?:万吨|吨|升|立方米)`)
	quantityPattern  = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?\s*(?:万吨|千吨|吨|万升|升|立方米)`)

	// Amount patterns in priority order: totals are usually quoted in 万元
	// or comma-grouped 元; a bare 元 figure is only trusted next to an
	// amount label, so a unit price earlier in the text cannot shadow it.
	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?\s*万元)`),
		regexp.MustCompile(`(\d{1,3}(?:,\d{3})+(?:\.\d+)?\s*元)`),
		regexp.MustCompile(`金额[^\d]{0,8}(\d+(?:\.\d+)?\s*元)`),
	}

	// Payment patterns in priority order: day-based credit terms, then a
	// prepayment percentage, then a plain letter-of-credit mention.
	paymentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+\s*(?:个工作日|天|日)内?(?:付款|支付|结清)|账期\s*\d+\s*(?:天|日)|\d+\s*天账期`),
		regexp.MustCompile(`预付(?:款)?(?:比例)?\s*\d+(?:\.\d+)?%`),
		regexp.MustCompile(`信用证`),
	}

	// Penalty percentage must appear within 20 characters of 违约金.
	penaltyPattern = regexp.MustCompile(`违约金.{0,20}?(\d+(?:\.\d+)?%)`)

	// Arbitration body name; the excluded connectives (交/由/向/至) keep the
	// capture from swallowing the verb phrase in front of the name.
	disputePattern = regexp.MustCompile(`([^\s，。；、：:交由向至]{2,10}仲裁委员会)`)
)

// termSpecs is the fixed field order of the extraction report.
var termSpecs = []termSpec{
	{field: "unit_price", patterns: []*regexp.Regexp{unitPricePattern}},
	{field: "quantity", patterns: []*regexp.Regexp{quantityPattern}},
	{field: "total_amount", patterns: amountPatterns, group: 1},
	{
		// Ordered literal list, not a regex: the first standard present in
		// list order wins regardless of its position in the text.
		field:    "quality_standard",
		literals: []string{"GB 6537-2018", "GB 6537", "GB6537", "3号喷气燃料", "国家标准", "国标"},
	},
	{
		field:    "delivery_location",
		patterns: []*regexp.Regexp{regexp.MustCompile(`交货地点[：:]\s*([^。；\n]+)`)},
		group:    1,
	},
	{field: "payment_method", patterns: paymentPatterns},
	{field: "penalty_rate", patterns: []*regexp.Regexp{penaltyPattern}, group: 1},
	{field: "dispute_resolution", patterns: []*regexp.Regexp{disputePattern}, gate: "仲裁", group: 1},
}

// ExtractTerms pulls the eight key terms out of the contract text. The
// output shape is fixed: fields that fail to match are reported with the
// NotExtracted sentinel rather than dropped.
func ExtractTerms(text string) *ExtractedTerms {
	values := make(map[string]string, len(termSpecs))
	for i := range termSpecs {
		spec := &termSpecs[i]
		values[spec.field] = spec.extract(text)
	}
	return &ExtractedTerms{
		UnitPrice:         values["unit_price"],
		Quantity:          values["quantity"],
		TotalAmount:       values["total_amount"],
		QualityStandard:   values["quality_standard"],
		DeliveryLocation:  values["delivery_location"],
		PaymentMethod:     values["payment_method"],
		PenaltyRate:       values["penalty_rate"],
		DisputeResolution: values["dispute_resolution"],
	}
}
