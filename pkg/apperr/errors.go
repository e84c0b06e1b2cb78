/*
Copyright 2026 The Actias Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package apperr defines the structured error taxonomy shared by every
// actias binary: the worker, the script service, the KV service and the
// CLI all return (or wrap) *Error so that HTTP and gRPC status mapping
// stays in one place.
package apperr

import (
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind is the stable taxonomy from the system's error handling design.
type Kind string

const (
	KindAuthentication  Kind = "authentication"
	KindPermission      Kind = "permission"
	KindNotFound        Kind = "not_found"
	KindAlreadyExists   Kind = "already_exists"
	KindInvalidArgument Kind = "invalid_argument"
	KindIO              Kind = "io"
	KindCommunication   Kind = "communication"
	KindScriptRuntime   Kind = "script_runtime"
	KindInternal        Kind = "internal"
)

// Error is the structured error every package in this module returns.
type Error struct {
	Kind       Kind
	Message    string
	Details    string
	StatusCode int
	Cause      error
}

// New creates an Error with no cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, StatusCode: statusForKind(kind)}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap attaches a Kind and message to an existing error, preserving it as Cause.
func Wrap(cause error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, StatusCode: statusForKind(kind), Cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(cause error, kind Kind, format string, args ...any) *Error {
	return Wrap(cause, kind, fmt.Sprintf(format, args...))
}

// WithDetails sets Details in place and returns the same *Error, so it can be
// chained directly onto New/Wrap.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// WithDetailsf is WithDetails with a formatted string.
func (e *Error) WithDetailsf(format string, args ...any) *Error {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func statusForKind(kind Kind) int {
	switch kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	case KindIO, KindCommunication, KindScriptRuntime, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode maps Kind onto the canonical gRPC status code used when this
// error crosses the script-service or KV-service wire contract.
func (e *Error) GRPCCode() codes.Code {
	switch e.Kind {
	case KindInvalidArgument:
		return codes.InvalidArgument
	case KindAuthentication:
		return codes.Unauthenticated
	case KindPermission:
		return codes.PermissionDenied
	case KindNotFound:
		return codes.NotFound
	case KindAlreadyExists:
		return codes.AlreadyExists
	case KindIO, KindCommunication:
		return codes.Unavailable
	case KindScriptRuntime:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// Predefined constructors for the call sites that need them most often.

func NewValidationError(message string) *Error {
	return New(KindInvalidArgument, message)
}

func NewNotFoundError(entity string) *Error {
	return Newf(KindNotFound, "%s not found", entity)
}

func NewAlreadyExistsError(entity string) *Error {
	return Newf(KindAlreadyExists, "%s already exists", entity)
}

func NewIOError(operation string, cause error) *Error {
	return Wrapf(cause, KindIO, "io operation failed: %s", operation)
}

func NewScriptRuntimeError(message string) *Error {
	return New(KindScriptRuntime, message)
}

// FromGRPCStatus reconstructs an *Error from an error returned by a
// script-service/KV-service client call, inverting GRPCCode and
// stripping the "kind: " prefix that Error() bakes into the status
// message on the server side. Callers should try Of first and fall back
// to this for errors that crossed the gRPC boundary.
func FromGRPCStatus(err error) (*Error, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return nil, false
	}
	kind := kindForGRPCCode(st.Code())
	msg := st.Message()
	if prefix := string(kind) + ": "; strings.HasPrefix(msg, prefix) {
		msg = msg[len(prefix):]
	}
	return &Error{Kind: kind, Message: msg, StatusCode: statusForKind(kind)}, true
}

func kindForGRPCCode(c codes.Code) Kind {
	switch c {
	case codes.InvalidArgument:
		return KindInvalidArgument
	case codes.Unauthenticated:
		return KindAuthentication
	case codes.PermissionDenied:
		return KindPermission
	case codes.NotFound:
		return KindNotFound
	case codes.AlreadyExists:
		return KindAlreadyExists
	case codes.Unavailable:
		return KindCommunication
	case codes.FailedPrecondition:
		return KindScriptRuntime
	default:
		return KindInternal
	}
}

// Of extracts an *Error from err, following the Unwrap chain. It returns
// (nil, false) if err does not carry one, so callers can fall back to a
// generic KindInternal error.
func Of(err error) (*Error, bool) {
	for err != nil {
		if ae, ok := err.(*Error); ok {
			return ae, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
