package http

import (
	"net/http"

	"github.com/AlibekovAA/memorize-api/internal/common/constants"
	"github.com/AlibekovAA/memorize-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/memorize-api/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	accessLog := AccessLogMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(CORSMiddleware(TraceIDMiddleware(recovery(accessLog(maxRequestSize(metrics.Wrap(handler)))))))
}
