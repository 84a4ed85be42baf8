package kit

import "net/http"

// Reply is the response an Interceptor writes when it stops the chain.
type Reply struct {
	Status int
	Body   any
}

// Interceptor inspects a request before route dispatch. A nil Reply lets the
// request continue; anything else short-circuits and is written as JSON.
type Interceptor func(r *http.Request) *Reply

// Intercept runs interceptors in the order given.
func Intercept(ics ...Interceptor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, ic := range ics {
				if rep := ic(r); rep != nil {
					WriteJSON(w, rep.Status, rep.Body)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
