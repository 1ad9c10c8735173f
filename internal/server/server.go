// Package server serves a resource root over HTTP in the layout the remote asset source
// expects: every asset under /<segment>/<name>.
package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewHandler returns a router serving root under /segment/. Requests are logged to accessLog
// in Apache common log format when it is not nil.
//
// Parameters:
//   - root: the resource root directory
//   - segment: the URL path segment, e.g. "learn-wgpu"
//   - accessLog: destination for the access log, or nil
//
// Returns:
//   - http.Handler: the router
func NewHandler(root, segment string, accessLog io.Writer) http.Handler {
	prefix := "/" + strings.Trim(segment, "/") + "/"

	r := mux.NewRouter()
	r.Methods(http.MethodGet, http.MethodHead).
		PathPrefix(prefix).
		Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(root))))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	})

	var h http.Handler = r
	h = handlers.CORS(handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead}))(h)
	if accessLog != nil {
		h = handlers.LoggingHandler(accessLog, h)
	}
	return handlers.RecoveryHandler()(h)
}

// ListenAndServe serves root on addr until the listener fails.
func ListenAndServe(addr, root, segment string, accessLog io.Writer, logger *zap.Logger) error {
	logger.Info("starting asset server",
		zap.String("addr", addr),
		zap.String("root", root),
		zap.String("prefix", "/"+strings.Trim(segment, "/")+"/"),
	)
	return http.ListenAndServe(addr, NewHandler(root, segment, accessLog))
}
