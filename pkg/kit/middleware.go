package kit

import (
	"fmt"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const failureMessage = "Something went wrong on the server."

// HandlerFunc is an http handler that hands unexpected failures back to the
// error boundary instead of writing them itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

func Handle(log *zap.Logger, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			fail(w, r, log, err)
		}
	}
}

// Recoverer turns a panic anywhere downstream into the uniform 500 response.
func Recoverer(log *zap.Logger) func(http.Handler) http.Handler {
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

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				log.Error("panic recovered", zap.Stack("stack"))
				fail(w, r, log, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func fail(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	log.Error("request failed",
		zap.Error(err),
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	WriteError(w, http.StatusInternalServerError, failureMessage, err)
}
