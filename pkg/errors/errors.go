// Package errors provides structured error handling for the application
// with stable error codes and HTTP status mapping.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

// Common error codes following RESTful API conventions
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Server errors (5xx)
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Business logic errors
	CodeRecipeNotFound     ErrorCode = "RECIPE_NOT_FOUND"
	CodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	CodeProductNotFound    ErrorCode = "PRODUCT_NOT_FOUND"
	CodeEmptyShoppingList  ErrorCode = "EMPTY_SHOPPING_LIST"
	CodeNotRecipeOwner     ErrorCode = "NOT_RECIPE_OWNER"
	CodeSelfSubscription   ErrorCode = "SELF_SUBSCRIPTION"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUsernameTaken      ErrorCode = "USERNAME_TAKEN"
	CodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeEmptyShoppingList, CodeSelfSubscription:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden, CodeNotRecipeOwner:
		return http.StatusForbidden
	case CodeNotFound, CodeRecipeNotFound, CodeUserNotFound, CodeProductNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeUsernameTaken, CodeEmailTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Predefined error constructors for common scenarios

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(CodeUnauthorized, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return NewAppError(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// Business domain specific errors

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID string) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %s does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// NewUserNotFoundError creates a user not found error
func NewUserNotFoundError(userID string) *AppError {
	return NewAppError(
		CodeUserNotFound,
		"User not found",
		fmt.Sprintf("User %s does not exist", userID),
	).WithMetadata("user_id", userID)
}

// NewEmptyShoppingListError signals a shopping-list download with no
// purchased recipes. Mapped to a 400 response, never an empty attachment.
func NewEmptyShoppingListError() *AppError {
	return NewAppError(
		CodeEmptyShoppingList,
		"Shopping list is empty",
		"Add recipes to purchases before downloading the list",
	)
}

// NewNotRecipeOwnerError creates an ownership violation error
func NewNotRecipeOwnerError(recipeID string) *AppError {
	return NewAppError(
		CodeNotRecipeOwner,
		"Not the recipe owner",
		"Only the author or a superuser can modify this recipe",
	).WithMetadata("recipe_id", recipeID)
}

// NewSelfSubscriptionError rejects a user subscribing to themselves
func NewSelfSubscriptionError() *AppError {
	return NewAppError(
		CodeSelfSubscription,
		"Cannot subscribe to yourself",
		"",
	)
}

// NewInvalidCredentialsError creates an invalid credentials error
func NewInvalidCredentialsError() *AppError {
	return NewAppError(
		CodeInvalidCredentials,
		"Invalid credentials",
		"The provided username or password is incorrect",
	)
}

// NewUsernameTakenError creates a username conflict error
func NewUsernameTakenError(username string) *AppError {
	return NewAppError(
		CodeUsernameTaken,
		"Username already exists",
		"This username is already taken",
	).WithMetadata("username", username)
}

// NewEmailTakenError creates an email conflict error
func NewEmailTakenError(email string) *AppError {
	return NewAppError(
		CodeEmailTaken,
		"Email already exists",
		"An account with this email address already exists",
	).WithMetadata("email", email)
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in API responses
type ErrorDetails struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			RequestID: requestID,
			Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		},
	}
}
