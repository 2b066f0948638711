package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrStorage      = errors.New("storage failure")
	ErrNetwork      = errors.New("remote repository unavailable")

	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrBudgetNotFound      = fmt.Errorf("budget %w", ErrNotFound)
	ErrGoalNotFound        = fmt.Errorf("goal %w", ErrNotFound)
	ErrMilestoneNotFound   = fmt.Errorf("milestone %w", ErrNotFound)
	ErrAttachmentNotFound  = fmt.Errorf("attachment %w", ErrNotFound)
)

// Field validation errors
var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooShort = errors.New("description must have at least 3 characters")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
	ErrAmountRequired      = errors.New("amount is required")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrAmountTooLarge      = errors.New("amount exceeds maximum value")
	ErrTypeRequired        = errors.New("type is required")
	ErrInvalidType         = errors.New("type must be income or expense")
	ErrCategoryRequired    = errors.New("category is required")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrDateRequired        = errors.New("date is required")
	ErrInvalidDate         = errors.New("invalid date")
	ErrNotesTooLong        = errors.New("notes exceed maximum length")
	ErrTooManyTags         = errors.New("too many tags")
	ErrInvalidTag          = errors.New("invalid tag")
	ErrInvalidRecurring    = errors.New("invalid recurring configuration")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooShort        = errors.New("name must have at least 3 characters")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrInvalidPeriod       = errors.New("invalid budget period")
	ErrCategoriesRequired  = errors.New("at least one category is required")
	ErrTooManyCategories   = errors.New("too many categories")
	ErrInvalidDateRange    = errors.New("end date must not be before start date")
	ErrInvalidThreshold    = errors.New("threshold must be between 1 and 100")
	ErrInvalidChannel      = errors.New("invalid notification channel")
	ErrInvalidSpent        = errors.New("spent must not be negative")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrGoalClosed          = errors.New("goal does not accept contributions")
	ErrInvalidSettings     = errors.New("invalid settings")
	ErrUnsupportedFile     = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum size")
)

// FieldError ties a validation failure to the input field that caused it.
// It matches ErrInvalidInput and unwraps to the field sentinel.
type FieldError struct {
	Field string
	Err   error
}

// NewFieldError creates a FieldError
func NewFieldError(field string, err error) *FieldError {
	return &FieldError{Field: field, Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is reports FieldError as a kind of ErrInvalidInput.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validation constants
const (
	MinDescriptionLength = 3
	MaxDescriptionLength = 255
	MaxNotesLength       = 1000
	MaxTags              = 20
	MaxTagLength         = 50
	MinNameLength        = 3
	MaxNameLength        = 100
	MaxGoalDescLength    = 500
	MaxBudgetCategories  = 10
)
