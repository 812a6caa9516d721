package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/memorize-api/internal/common/errors"
	"github.com/AlibekovAA/memorize-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/memorize-api/internal/common/logger"
	"github.com/AlibekovAA/memorize-api/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError writes err as a JSON body. Domain errors keep their own status
// and message; anything else becomes a 500.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	h.HandleErrorWithFlag(w, r, err, false)
}

// HandleErrorWithFlag additionally sets "error": true in the body.
func (h *ErrorHandler) HandleErrorWithFlag(w http.ResponseWriter, r *http.Request, err error, flag bool) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr, flag)
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	h.log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusInternalServerError, ErrorEnvelope{
		Msg:     commonerrors.ErrInternalError.Message(),
		Error:   flag,
		Code:    commonerrors.ErrInternalError.Code(),
		TraceID: traceID,
	})
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError, flag bool) {
	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)
	status := err.HTTPStatus()

	fields := logger.Fields{
		"error_code": err.Code(),
		"category":   string(err.Category()),
		"status":     status,
		"action":     "domain_error",
	}
	if err.Category() == commonerrors.CategoryInternal {
		h.log.WithFields(ctx, fields).Errorf("domain error: %s", err.Error())
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, fields).Debugf("domain error: %s", err.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(err.Category()),
		err.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, ErrorEnvelope{
		Msg:     err.Message(),
		Error:   flag,
		Code:    err.Code(),
		TraceID: traceID,
	})
}
