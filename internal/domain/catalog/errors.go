package catalog

import "errors"

// Domain errors for catalog operations

var (
	// Entity validation errors
	ErrNameRequired         = errors.New("recipe name is required")
	ErrNameTooLong          = errors.New("recipe name must not exceed 200 characters")
	ErrInvalidCookTime      = errors.New("cook time must be greater than 0")
	ErrAuthorRequired       = errors.New("recipe author is required")
	ErrEmptySlug            = errors.New("slug must not be empty")
	ErrProductRequired      = errors.New("ingredient line must reference a product")
	ErrAmountNotPositive    = errors.New("ingredient amount must be greater than 0")
	ErrProductTitleRequired = errors.New("product title is required")
	ErrProductUnitRequired  = errors.New("product unit is required")
	ErrTagNameRequired      = errors.New("tag name is required")
)
