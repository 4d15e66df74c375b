package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/gamehub/internal/api/apierr"
	"github.com/mcoot/gamehub/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// Panics become JSON 500s; the panic value is only included when exposeInternal is set.
func Recovery(logger *slog.Logger, exposeInternal bool) func(http.Handler) http.Handler {
	writer := apierr.Writer{ExposeInternal: exposeInternal}
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, recovered any) {
		writer.Write(w, r, fmt.Errorf("panic: %v", recovered))
	})
}
