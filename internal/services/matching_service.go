package services

import "strings"

// MatcherService locates the sheet row for a company name.
type MatcherService struct{}

func NewMatcherService() *MatcherService {
	return &MatcherService{}
}

// FindCompanyRow scans the company column of the data rows for name,
// case-insensitively. A whole-cell match always wins over a substring
// match; within each kind the first match wins. Returns the 0-based data
// row index, or -1 when nothing matches.
func (m *MatcherService) FindCompanyRow(rows [][]string, companyCol int, name string) int {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" || companyCol < 0 {
		return -1
	}

	substringIdx := -1
	for i, row := range rows {
		if companyCol >= len(row) {
			continue
		}
		cell := strings.ToLower(strings.TrimSpace(row[companyCol]))
		if cell == "" {
			continue
		}
		if cell == needle {
			return i
		}
		if substringIdx == -1 && strings.Contains(cell, needle) {
			substringIdx = i
		}
	}
	return substringIdx
}
