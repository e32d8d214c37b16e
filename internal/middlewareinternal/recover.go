package middlewareinternal

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// RecoverJSON turns a panic into 500 {"error": "Internal server error", "details": ...}.
func RecoverJSON(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				details := fmt.Sprint(rec)
				if err, ok := rec.(error); ok {
					details = err.Error()
				}
				logger.Error("Unhandled panic",
					zap.String("path", r.URL.Path),
					zap.String("details", details),
					zap.Stack("stack"))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, map[string]string{
					"error":   "Internal server error",
					"details": details,
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
