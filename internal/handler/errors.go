package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/kart-checkout/internal/domain/checkout"
	"github.com/xenking/kart-checkout/internal/domain/money"
	"github.com/xenking/kart-checkout/internal/domain/tip"
)

// maxBodySize bounds request bodies.
const maxBodySize = 64 << 10

// BadRequestError reports a request body or parameter that could not be decoded.
type BadRequestError struct {
	Err error
}

func (e *BadRequestError) Error() string {
	return "bad request: " + e.Err.Error()
}

func (e *BadRequestError) Unwrap() error { return e.Err }

func badRequest(format string, args ...any) error {
	return &BadRequestError{Err: errors.Errorf(format, args...)}
}

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, &BadRequestError{Err: errors.Wrap(err, "read body")}
	}
	if len(data) == 0 {
		return nil, badRequest("empty body")
	}
	return data, nil
}

// writeError maps domain errors to status codes and writes a
// {"code","message"} body. Unexpected errors are logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	var (
		badReq   *BadRequestError
		notFound *checkout.CartNotFoundError
	)
	switch {
	case errors.As(err, &badReq):
		status, msg = http.StatusBadRequest, badReq.Error()
	case errors.As(err, &notFound):
		status, msg = http.StatusNotFound, notFound.Error()
	case errors.Is(err, tip.ErrInvalidTipSpec),
		errors.Is(err, checkout.ErrInvalidQuote),
		errors.Is(err, money.ErrCurrencyMismatch):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	default:
		zctx.From(r.Context()).Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(msg)
	e.ObjEnd()
	writeJSON(w, status, e.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
