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

package apperr

import (
	"errors"
	"net/http"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestApperr(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "apperr Suite")
}

var _ = Describe("Error", func() {
	Context("basic error creation", func() {
		It("should create an error with correct properties", func() {
			err := New(KindInvalidArgument, "test message")

			Expect(err.Kind).To(Equal(KindInvalidArgument))
			Expect(err.Message).To(Equal("test message"))
			Expect(err.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(err.Details).To(BeEmpty())
			Expect(err.Cause).To(BeNil())
		})

		It("should implement the error interface", func() {
			err := New(KindInvalidArgument, "test message")
			Expect(err.Error()).To(Equal("invalid_argument: test message"))
		})

		It("should include details in the error string when present", func() {
			err := New(KindInvalidArgument, "test message").WithDetails("extra info")
			Expect(err.Error()).To(Equal("invalid_argument: test message (extra info)"))
		})
	})

	Context("wrapping", func() {
		It("should wrap an underlying error", func() {
			original := errors.New("original error")
			wrapped := Wrap(original, KindIO, "operation failed")

			Expect(wrapped.Kind).To(Equal(KindIO))
			Expect(wrapped.Cause).To(Equal(original))
			Expect(wrapped.Unwrap()).To(Equal(original))
		})

		It("should format a wrapped message", func() {
			original := errors.New("connection refused")
			wrapped := Wrapf(original, KindCommunication, "failed to connect to %s:%d", "localhost", 9042)
			Expect(wrapped.Message).To(Equal("failed to connect to localhost:9042"))
		})
	})

	Context("status code mapping", func() {
		It("maps every Kind to an HTTP status", func() {
			cases := map[Kind]int{
				KindInvalidArgument: http.StatusBadRequest,
				KindAuthentication:  http.StatusUnauthorized,
				KindPermission:      http.StatusForbidden,
				KindNotFound:        http.StatusNotFound,
				KindAlreadyExists:   http.StatusConflict,
				KindIO:              http.StatusInternalServerError,
				KindCommunication:   http.StatusInternalServerError,
				KindScriptRuntime:   http.StatusInternalServerError,
				KindInternal:        http.StatusInternalServerError,
			}
			for kind, status := range cases {
				Expect(New(kind, "x").StatusCode).To(Equal(status))
			}
		})

		It("maps every Kind to a gRPC code", func() {
			cases := map[Kind]codes.Code{
				KindInvalidArgument: codes.InvalidArgument,
				KindAuthentication:  codes.Unauthenticated,
				KindPermission:      codes.PermissionDenied,
				KindNotFound:        codes.NotFound,
				KindAlreadyExists:   codes.AlreadyExists,
				KindIO:              codes.Unavailable,
				KindCommunication:   codes.Unavailable,
				KindScriptRuntime:   codes.FailedPrecondition,
				KindInternal:        codes.Internal,
			}
			for kind, code := range cases {
				Expect(New(kind, "x").GRPCCode()).To(Equal(code))
			}
		})
	})

	Context("Of", func() {
		It("extracts an *Error through a wrapping chain", func() {
			base := New(KindNotFound, "script not found")
			wrapped := fmtWrap(base)

			found, ok := Of(wrapped)
			Expect(ok).To(BeTrue())
			Expect(found).To(Equal(base))
		})

		It("returns false for a plain error", func() {
			_, ok := Of(errors.New("plain"))
			Expect(ok).To(BeFalse())
		})
	})

	Context("FromGRPCStatus", func() {
		It("recovers Kind and the literal message across a gRPC status round-trip", func() {
			original := New(KindNotFound, "script not found")
			st := status.Error(original.GRPCCode(), original.Error())

			recovered, ok := FromGRPCStatus(st)
			Expect(ok).To(BeTrue())
			Expect(recovered.Kind).To(Equal(KindNotFound))
			Expect(recovered.Message).To(Equal("script not found"))
		})

		It("returns false for a non-status error", func() {
			_, ok := FromGRPCStatus(errors.New("plain"))
			Expect(ok).To(BeFalse())
		})
	})
})

// fmtWrap simulates a caller wrapping an *Error with fmt.Errorf("%w", ...).
func fmtWrap(err error) error {
	return wrapper{err}
}

type wrapper struct{ err error }

func (w wrapper) Error() string { return "context: " + w.err.Error() }
func (w wrapper) Unwrap() error { return w.err }
