package analysis

import (
	"regexp"
	"testing"
)

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		expected bool
	}{
		{
			name:     "single keyword present",
			text:     "本合同采用固定价格结算",
			keywords: []string{"固定价格", "一口价"},
			expected: true,
		},
		{
			name:     "no keyword present",
			text:     "价格随行就市",
			keywords: []string{"固定价格", "一口价"},
			expected: false,
		},
		{
			name:     "empty text",
			text:     "",
			keywords: []string{"固定价格"},
			expected: false,
		},
		{
			name:     "empty keyword set",
			text:     "固定价格",
			keywords: nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesAny(tt.text, tt.keywords); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCountMatches(t *testing.T) {
	keywords := []string{"违约责任", "争议解决", "不可抗力", "保密", "合同变更"}

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{
			name:     "all present",
			text:     "违约责任、争议解决、不可抗力、保密、合同变更条款齐备",
			expected: 5,
		},
		{
			name:     "repeated keyword counted once",
			text:     "违约责任……违约责任……违约责任",
			expected: 1,
		},
		{
			name:     "none present",
			text:     "本合同无其他约定",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountMatches(tt.text, keywords); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestFirstMatchOrder(t *testing.T) {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(`\d+天账期`),
		regexp.MustCompile(`信用证`),
	}

	// Both patterns can match; the first in priority order must win even
	// though the letter-of-credit phrase appears earlier in the text.
	text := "可采用信用证结算，或30天账期付款"
	m := FirstMatch(text, patterns)
	if m == nil {
		t.Fatal("Expected a match, got nil")
	}
	if m[0] != "30天账期" {
		t.Errorf("Expected '30天账期', got '%s'", m[0])
	}

	if m := FirstMatch("现金结算", patterns); m != nil {
		t.Errorf("Expected nil for no match, got %v", m)
	}
}
