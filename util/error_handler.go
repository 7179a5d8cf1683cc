package util

import (
	"fmt"

	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

// FatalErrorHandler collects per-file errors. By default the first error
// aborts the run; with continue-on-error the remaining files are still
// processed and the run fails once at the end.
type FatalErrorHandler struct {
	ContinueOnError bool

	failures int
}

func NewErrorHandler(continueOnError bool) *FatalErrorHandler {
	return &FatalErrorHandler{
		ContinueOnError: continueOnError,
	}
}

// Handle logs the error with its context. It returns a non-nil error when
// the run should stop right away.
func (h *FatalErrorHandler) Handle(err error, format string, args ...interface{}) error {
	if h.ContinueOnError {
		log.Errorf(err, format, args...)
		h.failures++
		return nil
	}

	return karma.Format(err, format, args...)
}

// Err reports whether any error was swallowed by continue-on-error.
func (h *FatalErrorHandler) Err() error {
	if h.failures == 0 {
		return nil
	}
	return fmt.Errorf("%d file(s) failed to format", h.failures)
}
