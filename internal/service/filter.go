package service

import (
	"sort"
	"strings"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
)

// FilterTransactions returns the transactions matching filters, sorted and
// paginated as requested. The input slice is never reordered.
func FilterTransactions(transactions []*domain.Transaction, filters domain.TransactionFilters) []*domain.Transaction {
	result := matchTransactions(transactions, filters)
	sortTransactions(result, filters.SortBy, filters.SortOrder)
	return paginate(result, filters)
}

// FilterTotal counts the matches before pagination.
func FilterTotal(transactions []*domain.Transaction, filters domain.TransactionFilters) int {
	return len(matchTransactions(transactions, filters))
}

func matchTransactions(transactions []*domain.Transaction, filters domain.TransactionFilters) []*domain.Transaction {
	txType, byType := filters.TypeFilter()
	category, byCategory := filters.CategoryFilter()
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	tags := tagSet(filters.Tags)

	result := make([]*domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if byType && tx.Type != txType {
			continue
		}
		if byCategory && tx.Category != category {
			continue
		}
		if filters.StartDate != nil && domain.DateOnly(tx.Date).Before(domain.DateOnly(*filters.StartDate)) {
			continue
		}
		if filters.EndDate != nil && domain.DateOnly(tx.Date).After(domain.DateOnly(*filters.EndDate)) {
			continue
		}
		amount := tx.Amount.Abs()
		if filters.MinAmount != nil && amount.LessThan(*filters.MinAmount) {
			continue
		}
		if filters.MaxAmount != nil && amount.GreaterThan(*filters.MaxAmount) {
			continue
		}
		if search != "" && !matchesSearch(tx, search) {
			continue
		}
		if len(tags) > 0 && !hasAnyTag(tx, tags) {
			continue
		}
		result = append(result, tx)
	}
	return result
}

func matchesSearch(tx *domain.Transaction, term string) bool {
	fields := []string{tx.Description, string(tx.Category), tx.Category.Label(), tx.Amount.String()}
	if tx.Notes != nil {
		fields = append(fields, *tx.Notes)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

func hasAnyTag(tx *domain.Transaction, tags map[string]struct{}) bool {
	for _, tag := range tx.Tags {
		if _, ok := tags[tag]; ok {
			return true
		}
	}
	return false
}

// compareTransactions orders a before b (negative), after (positive) or
// treats them as equal (zero) for the given field.
func compareTransactions(a, b *domain.Transaction, field domain.SortField) int {
	switch field {
	case domain.SortByDate:
		return a.Date.Compare(b.Date)
	case domain.SortByAmount:
		return a.Amount.Cmp(b.Amount)
	case domain.SortByDescription:
		return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	case domain.SortByCategory:
		return strings.Compare(strings.ToLower(string(a.Category)), strings.ToLower(string(b.Category)))
	case domain.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}

// sortTransactions sorts in place with a stable sort, so equal keys keep
// their relative order in both directions. Unknown fields leave the order
// unchanged.
func sortTransactions(transactions []*domain.Transaction, field domain.SortField, order domain.SortOrder) {
	if !field.IsValid() {
		return
	}
	desc := order != domain.SortAsc
	sort.SliceStable(transactions, func(i, j int) bool {
		c := compareTransactions(transactions[i], transactions[j], field)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func paginate(transactions []*domain.Transaction, filters domain.TransactionFilters) []*domain.Transaction {
	if !filters.Paginated() {
		return transactions
	}
	// Compare page counts before multiplying so huge page numbers cannot overflow
	pages := len(transactions) / filters.PageSize
	if len(transactions)%filters.PageSize != 0 {
		pages++
	}
	if filters.Page-1 >= pages {
		return []*domain.Transaction{}
	}
	start := (filters.Page - 1) * filters.PageSize
	end := len(transactions)
	if filters.PageSize < end-start {
		end = start + filters.PageSize
	}
	return transactions[start:end]
}
