package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	hperrors "github.com/YuminosukeSato/housepriceai/pkg/errors"
)

// ErrFmtHandler is a slog handler that formats the stacktrace of
// cockroachdb/errors values and tags training failures with their kind.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps the standard slog handler.
// Records carrying an ErrAttrKey attribute get a stacktrace attribute and,
// for training failures, an error.code attribute.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var (
		stacktrace string
		code       string
		hasCode    bool
	)
	r.Attrs(func(attr slog.Attr) bool {
		switch attr.Key {
		case ErrAttrKey:
			if err, ok := attr.Value.Any().(error); ok {
				stacktrace = extractStacktrace(err)
				code = ErrorCode(err)
			}
		case ErrorCodeKey:
			hasCode = true
		}
		return true
	})
	if stacktrace != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
	}
	// An explicit code from the caller wins.
	if code != "" && !hasCode {
		r.AddAttrs(slog.String(ErrorCodeKey, code))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// ErrorCode maps err to one of the Error* codes, most specific first. It
// returns "" for errors outside the taxonomy.
func ErrorCode(err error) string {
	switch {
	case hperrors.Is(err, hperrors.ErrSingularMatrix):
		return ErrorSingularMatrix
	case hperrors.Is(err, hperrors.ErrDimensionMismatch):
		return ErrorDimensionMismatch
	case hperrors.Is(err, hperrors.ErrEmptyData):
		return ErrorEmptyData
	}
	var verr *hperrors.ValidationError
	if hperrors.As(err, &verr) {
		return ErrorInvalidConfig
	}
	var tf *hperrors.TrainingFailedError
	if hperrors.As(err, &tf) {
		return ErrorTrainingFailed
	}
	return ""
}
