// errors.go: structured error handling for vektor engine operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all engine-level failures that do not surface as a plain ReplyCode.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package vektor

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for vektor engine operations.
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig = errors.ErrorCode("VEKTOR_INVALID_CONFIG")

	// Request/parse errors (2xxx)
	ErrCodeMalformedRequest = errors.ErrorCode("VEKTOR_MALFORMED_REQUEST")
	ErrCodeUnknownOpcode    = errors.ErrorCode("VEKTOR_UNKNOWN_OPCODE")
	ErrCodeNaN              = errors.ErrorCode("VEKTOR_NAN")

	// Item-state errors (3xxx)
	ErrCodeKeyNotFound = errors.ErrorCode("VEKTOR_KEY_NOT_FOUND")
	ErrCodeLocked      = errors.ErrorCode("VEKTOR_LOCKED")
	ErrCodeMemoryLimit = errors.ErrorCode("VEKTOR_MEMORY_LIMIT")

	// Internal errors (4xxx)
	ErrCodeInternal = errors.ErrorCode("VEKTOR_INTERNAL_ERROR")
)

// NewErrMalformedRequest reports a parse failure for the given opcode payload.
func NewErrMalformedRequest(op string, reason string) error {
	return errors.NewWithContext(ErrCodeMalformedRequest, "malformed request payload", map[string]interface{}{
		"op":     op,
		"reason": reason,
	})
}

// NewErrUnknownOpcode reports a dispatcher-level unrecognized opcode. This is
// the only failure that bypasses the reply path (spec §7); the host treats it
// as a fatal protocol violation and drops the connection.
func NewErrUnknownOpcode(opcode uint16) error {
	return errors.NewWithField(ErrCodeUnknownOpcode, "unknown opcode", "opcode", opcode)
}

// NewErrNaN reports that a field expected to be a signed integer did not parse.
func NewErrNaN(op string, field string) error {
	return errors.NewWithContext(ErrCodeNaN, "field is not a valid integer", map[string]interface{}{
		"op":    op,
		"field": field,
	})
}

// NewErrKeyNotFound reports a missing or expired key.
func NewErrKeyNotFound(key []byte) error {
	return errors.NewWithField(ErrCodeKeyNotFound, "key not found", "key", string(key))
}

// NewErrLocked reports a mutating op against a locked item.
func NewErrLocked(key []byte) error {
	return errors.NewWithField(ErrCodeLocked, "item is locked", "key", string(key))
}

// NewErrMemoryLimit reports SET/MSET rejected because memused > maxmem.
func NewErrMemoryLimit(memUsed, maxMem int64) error {
	return errors.NewWithContext(ErrCodeMemoryLimit, "memory limit exceeded", map[string]interface{}{
		"mem_used": memUsed,
		"max_mem":  maxMem,
	}).AsRetryable() // retryable once items expire or are deleted
}

// NewErrInternal wraps an unexpected internal failure (pool exhaustion,
// collaborator contract violation) with the operation that triggered it.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternal, "internal engine error").
			WithContext("operation", operation).
			WithSeverity("critical")
	}
	return errors.NewWithField(ErrCodeInternal, "internal engine error", "operation", operation).
		WithSeverity("critical")
}

// IsNotFound reports whether err is a key-not-found error.
func IsNotFound(err error) bool { return errors.HasCode(err, ErrCodeKeyNotFound) }

// IsLocked reports whether err is a locked-item error.
func IsLocked(err error) bool { return errors.HasCode(err, ErrCodeLocked) }

// IsMemoryLimit reports whether err is a memory-limit error.
func IsMemoryLimit(err error) bool { return errors.HasCode(err, ErrCodeMemoryLimit) }

// IsNaN reports whether err is a not-a-number parse error.
func IsNaN(err error) bool { return errors.HasCode(err, ErrCodeNaN) }

// IsRetryable reports whether err is marked retryable (e.g. a memory-limit
// rejection that may succeed once items expire or are deleted).
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error, if any.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts structured context from an error, if any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var vektorErr *errors.Error
	if goerrors.As(err, &vektorErr) {
		return vektorErr.Context
	}
	return nil
}
