package checkout

import (
	"strings"

	"github.com/garenk02/callysta-pos-sub000/internal/models"
)

// MatchOutcome classifies a matcher result
type MatchOutcome string

const (
	// OutcomeScanned means the input matched a SKU exactly and the product
	// should be added to the cart immediately.
	OutcomeScanned MatchOutcome = "scanned"
	// OutcomeResults means a free-text search produced one or more hits.
	OutcomeResults MatchOutcome = "results"
	// OutcomeBarcodeNotFound means the input looked like a barcode but no
	// product carries that SKU.
	OutcomeBarcodeNotFound MatchOutcome = "barcode_not_found"
	// OutcomeNoResults means a free-text search matched nothing.
	OutcomeNoResults MatchOutcome = "no_results"
)

// MatchResult is what the matcher resolved for a query
type MatchResult struct {
	Outcome MatchOutcome     `json:"outcome"`
	Product *models.Product  `json:"product,omitempty"`
	Results []models.Product `json:"results,omitempty"`
}

// Matcher resolves typed or scanned input against a catalog snapshot.
// Matching is a pure local filter; it never touches the network.
type Matcher struct {
	minBarcodeLen int
}

// NewMatcher creates a matcher. minBarcodeLen is the input length at which
// input is treated as a scan even when it contains letters.
func NewMatcher(minBarcodeLen int) *Matcher {
	if minBarcodeLen <= 0 {
		minBarcodeLen = 8
	}
	return &Matcher{minBarcodeLen: minBarcodeLen}
}

// LooksLikeBarcode reports whether input is scan-shaped: a rapid burst of
// at least minBarcodeLen characters, or all digits.
func (m *Matcher) LooksLikeBarcode(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	if len(input) >= m.minBarcodeLen {
		return true
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Match resolves input against the catalog. Scan-shaped input takes the
// exact-SKU fast path; everything else is a case-insensitive substring
// search over name and SKU.
func (m *Matcher) Match(input string, catalog []models.Product) MatchResult {
	input = strings.TrimSpace(input)

	if m.LooksLikeBarcode(input) {
		for i := range catalog {
			if catalog[i].SKU != "" && strings.EqualFold(catalog[i].SKU, input) {
				return MatchResult{Outcome: OutcomeScanned, Product: &catalog[i]}
			}
		}
		// Fall through to search: a short numeric query may still be a
		// partial name or SKU the cashier typed by hand.
		if results := m.search(input, catalog); len(results) > 0 {
			return MatchResult{Outcome: OutcomeResults, Results: results}
		}
		return MatchResult{Outcome: OutcomeBarcodeNotFound}
	}

	if results := m.search(input, catalog); len(results) > 0 {
		return MatchResult{Outcome: OutcomeResults, Results: results}
	}
	return MatchResult{Outcome: OutcomeNoResults}
}

func (m *Matcher) search(query string, catalog []models.Product) []models.Product {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)

	var results []models.Product
	for _, p := range catalog {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			(p.SKU != "" && strings.Contains(strings.ToLower(p.SKU), q)) {
			results = append(results, p)
		}
	}
	return results
}
