package models

import "errors"

// OperationResult is the outcome of an operation that reports refusals instead of failing.
// Reason holds the domain error kind when Success is false.
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  error  `json:"-"`
}

// Succeeded builds a successful result
func Succeeded(message string) *OperationResult {
	return &OperationResult{Success: true, Message: message}
}

// Refused builds a failed result from a domain error
func Refused(err error) *OperationResult {
	res := &OperationResult{Success: false, Message: err.Error(), Reason: err}
	var de *DomainError
	if errors.As(err, &de) {
		res.Reason = de.Kind
	}
	return res
}
