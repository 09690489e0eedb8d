package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/storage"
)

// toConnectError maps domain and storage errors to Connect codes. The error
// message is passed through unchanged so clients can show it verbatim.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, calculator.ErrInvalidParticipant),
		errors.Is(err, calculator.ErrSplitMismatch),
		errors.Is(err, calculator.ErrInvalidExpense):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, calculator.ErrOutstandingBalance):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// rejectionReason labels a validation failure for metrics.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, calculator.ErrInvalidParticipant):
		return "invalid_participant"
	case errors.Is(err, calculator.ErrSplitMismatch):
		return "split_mismatch"
	case errors.Is(err, calculator.ErrInvalidExpense):
		return "invalid_expense"
	default:
		return "other"
	}
}

// logFailure logs err at a level matching how it will be reported.
func logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if connect.CodeOf(toConnectError(err)) == connect.CodeInternal {
		slog.Error(msg, args...)
		return
	}
	slog.Warn(msg, args...)
}
