package usecase

import (
	"errors"
	"strings"
)

const (
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"

	CodePersistence = "PERSISTENCE_ERROR"
)

// DomainError é erro do chamador: credencial, payload ou estado do job.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError é falha do banco ou de infraestrutura. Nunca é culpa do agente.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func ErrUnauthenticated(message string) *DomainError {
	return &DomainError{Code: CodeUnauthenticated, Message: message}
}

func ErrNotFound(message string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: message}
}

func ErrInvalidTransition(message string) *DomainError {
	return &DomainError{Code: CodeInvalidTransition, Message: message}
}

func ErrPersistence(message string, err error) *TechnicalError {
	return &TechnicalError{Code: CodePersistence, Message: message, Err: err}
}

// ErrValidation junta os erros de campo numa única mensagem.
func ErrValidation(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{Code: CodeValidation, Message: strings.Join(parts, "; ")}
}
