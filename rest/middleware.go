package rest

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Gthulhu/smoothtask/pkg/logger"
	"github.com/rs/xid"
)

func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = xid.New().String()
		}
		start := time.Now()
		log := logger.Logger(ctx).With().
			Str("method", r.Method).Str("req_id", reqID).
			Str("url", r.URL.String()).Logger()

		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("panic", err).Msgf("Recovered from panic, stack trace: %s", string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		r = r.WithContext(log.WithContext(ctx))
		rw := newStatusRecorder(w)
		next.ServeHTTP(rw, r)
		log = log.With().
			Int("cost_msec", int(time.Since(start).Milliseconds())).
			Int("status_code", rw.statusCode).
			Logger()
		switch {
		case rw.statusCode >= 500:
			log.Error().Msg("Request completed with server error")
		case rw.statusCode >= 400:
			log.Warn().Msg("Request completed with client error")
		default:
			// dashboards poll these endpoints
			log.Debug().Msg("Request completed successfully")
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
