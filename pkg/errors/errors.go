package errors

import "fmt"

// Error codes
const (
	CodeQuestError = "QUEST_ERROR"
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeService    = "SERVICE_ERROR"
	CodeNoFallback = "NO_FALLBACK_ERROR"
)

type QuestError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *QuestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *QuestError) Unwrap() error {
	return e.Cause
}

func NewQuestError(message, code string, statusCode int, context map[string]any) *QuestError {
	return &QuestError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *QuestError) WithCause(cause error) *QuestError {
	e.Cause = cause
	return e
}

// APIError covers both transport failures (StatusCode 0) and non-2xx
// responses from the card generator backend.
type APIError struct {
	*QuestError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		QuestError: &QuestError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// ValidationError rejects one malformed generator record. Facet is the
// missing logical attribute: "name", "role", "image" or "stats".
type ValidationError struct {
	*QuestError
	Identity string
	Facet    string
}

func NewValidationError(message, identity, facet string) *ValidationError {
	return &ValidationError{
		QuestError: &QuestError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"identity": identity,
				"facet":    facet,
			},
		},
		Identity: identity,
		Facet:    facet,
	}
}

type CacheError struct {
	*QuestError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		QuestError: &QuestError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*QuestError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		QuestError: &QuestError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// NoFallbackError is the terminal outcome of an acquisition attempt: the
// live call failed and neither the cached result set nor synthetic data
// could stand in. It is the only error kind surfaced to the end user.
type NoFallbackError struct {
	*QuestError
	Identities []string
}

func NewNoFallbackError(message string, statusCode int, identities []string, cause error) *NoFallbackError {
	return &NoFallbackError{
		QuestError: &QuestError{
			Message:    message,
			Code:       CodeNoFallback,
			StatusCode: statusCode,
			Context: map[string]any{
				"identities": identities,
			},
			Cause: cause,
		},
		Identities: identities,
	}
}
