package http

import (
	"net/http"
	"runtime/debug"

	"github.com/AlibekovAA/memorize-api/internal/common/logger"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(r.Context(), logger.Fields{
						"path":   r.URL.Path,
						"method": r.Method,
					}).Criticalf("panic recovered: %v\n%s", err, debug.Stack())
					WriteErrorEnvelope(w, http.StatusInternalServerError, ErrorEnvelope{
						Msg:  "internal server error",
						Code: CodeUnknown,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
