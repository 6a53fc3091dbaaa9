package health

import "net/http"

// newHandler returns the handler answering GET / with 200 when the
// program is healthy, or 500 with the check error as plain text body.
func newHandler(isHealthy func() error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || (r.RequestURI != "" && r.RequestURI != "/") {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}

		err := isHealthy()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}
