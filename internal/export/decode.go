package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/util"
	"github.com/shopspring/decimal"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// LineError reports a row that could not be decoded.
type LineError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

var requiredTransactionColumns = []string{"description", "amount", "category", "type", "date"}

// DecodeTransactions parses the transactions layout. Rows that fail to
// parse or validate are reported as LineErrors and skipped. ids and
// timestamps in the input are ignored; amounts are stored as magnitudes.
func DecodeTransactions(r io.Reader, locale string) ([]*domain.Transaction, []LineError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredTransactionColumns {
		if _, ok := index[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		transactions []*domain.Transaction
		lineErrors   []LineError
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, nil, err
			}
			lineErrors = append(lineErrors, LineError{Line: parseErr.Line, Message: parseErr.Err.Error()})
			continue
		}
		line, _ := reader.FieldPos(0)

		tx, err := decodeTransaction(func(name string) string { return field(record, name) }, locale)
		if err != nil {
			lineErrors = append(lineErrors, LineError{Line: line, Message: err.Error()})
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, lineErrors, nil
}

func decodeTransaction(get func(string) string, locale string) (*domain.Transaction, error) {
	amount, err := decimal.NewFromString(get("amount"))
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	date, err := util.ParseDate(locale, get("date"))
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	tx := &domain.Transaction{
		Description: get("description"),
		Amount:      amount,
		Category:    domain.Category(get("category")),
		Type:        domain.TransactionType(get("type")),
		Date:        date,
	}
	if notes := get("notes"); notes != "" {
		tx.Notes = &notes
	}
	if tags := get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, strings.TrimSpace(ListSeparator)) {
			if tag = strings.TrimSpace(tag); tag != "" {
				tx.Tags = append(tx.Tags, tag)
			}
		}
	}
	tx.Normalize()
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}
