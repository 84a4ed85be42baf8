package kit

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(service, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.InitialFields = map[string]any{"service": service}
	return cfg.Build()
}

// RequestLogger records every request as it enters the pipeline. It never
// stops the chain.
func RequestLogger(log *zap.Logger) Interceptor {
	return func(r *http.Request) *Reply {
		log.Info("request",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.RequestURI()),
			zap.String("time", time.Now().UTC().Format(time.RFC3339Nano)),
			zap.String("remote", r.RemoteAddr),
		)
		return nil
	}
}
