// Package remote implements domain.TransactionRepository against the REST
// API of another Budget Loop instance.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Config configures the client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// FailureThreshold is the number of consecutive network failures that
	// opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:          baseURL,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

type TransactionRepository struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

var _ domain.TransactionRepository = (*TransactionRepository)(nil)

func NewTransactionRepository(cfg Config) (*TransactionRepository, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid remote API URL %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	logger := log.With().Str("component", "remote_repository").Str("base_url", base.String()).Logger()

	r := &TransactionRepository{
		baseURL: base.String(),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
	r.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "remote-transactions",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// 4xx answers do not count as failures.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrNetwork)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
	return r, nil
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	body := api.NewCreateTransactionRequest(transaction)
	var out api.Transaction
	if err := r.do(ctx, http.MethodPost, "/api/transactions", body, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var out api.Transaction
	if err := r.do(ctx, http.MethodGet, "/api/transactions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	var out []api.Transaction
	if err := r.do(ctx, http.MethodGet, "/api/transactions", nil, &out); err != nil {
		return nil, err
	}
	transactions := make([]*domain.Transaction, len(out))
	for i := range out {
		transactions[i] = out[i].ToDomain()
	}
	return transactions, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, patch *domain.TransactionPatch) (*domain.Transaction, error) {
	body := api.NewUpdateTransactionRequest(patch)
	var out api.Transaction
	if err := r.do(ctx, http.MethodPut, "/api/transactions/"+url.PathEscape(id), body, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

// Delete removes a transaction. A 404 from the remote counts as success.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	err := r.do(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id), nil, nil)
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return nil
	}
	return err
}

func (r *TransactionRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.do(ctx, http.MethodPost, "/api/transactions/bulk-delete", api.IDsRequest{IDs: ids}, nil)
}

// do sends one request through the breaker and decodes a 2xx body into out.
func (r *TransactionRepository) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.roundTrip(ctx, method, path, payload, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		r.logger.Warn().Str("method", method).Str("path", path).Msg("Circuit breaker open, request rejected")
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	return err
}

func (r *TransactionRepository) roundTrip(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("Remote request failed")
		return fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	r.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Remote request")

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %w", domain.ErrNetwork, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrTransactionNotFound
	case resp.StatusCode == http.StatusBadRequest:
		return decodeValidationError(resp.Body)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s: status %d", domain.ErrNetwork, method, path, resp.StatusCode)
	default:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
}

// decodeValidationError turns a 400 body into a FieldError so callers can
// match it with errors.Is(err, domain.ErrInvalidInput).
func decodeValidationError(body io.Reader) error {
	var resp api.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, 1<<16)).Decode(&resp); err != nil || resp.Error == "" {
		return domain.NewFieldError("request", domain.ErrInvalidInput)
	}
	field := "request"
	if len(resp.Errors) > 0 {
		field = resp.Errors[0].Field
	}
	return domain.NewFieldError(field, errors.New(resp.Error))
}
