package internal_test

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/ticketing/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("matches its sentinel after WithCause without mutating it", func() {
		cause := errors.New("disk full")
		err := internal.ErrInvalidBody.WithCause(cause)

		Expect(errors.Is(err, internal.ErrInvalidBody)).To(BeTrue())
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(internal.ErrInvalidBody.Cause).To(BeNil())
	})

	It("is found through fmt wrapping", func() {
		wrapped := fmt.Errorf("loading: %w", internal.ErrTicketNotFound)
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("does not match a different code of the same type", func() {
		Expect(errors.Is(internal.ErrTicketNotFound, internal.ErrUserNotFound)).To(BeFalse())
	})

	It("hides internal messages from clients", func() {
		status, body := internal.NewInternalError("query failed", errors.New("boom")).ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(Equal(internal.Response{Message: "Server error"}))
	})

	It("exposes field errors", func() {
		status, body := internal.NewValidationFieldError("aktifitas", "aktifitas is required", internal.ErrCodeRequired).ToHTTPResponse()
		Expect(status).To(Equal(http.StatusBadRequest))

		resp := body.(internal.Response)
		Expect(resp.Message).To(Equal("Validation failed"))
		Expect(resp.Errors).To(ConsistOf(internal.ValidationError{
			Field:   "aktifitas",
			Message: "aktifitas is required",
			Code:    string(internal.ErrCodeRequired),
		}))
	})
})
