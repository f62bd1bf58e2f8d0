package request

import "net/http"

// BodyLimit caps request bodies. Reads past the limit fail with
// *http.MaxBytesError, which handlers report as a bad request.
//
// Mount it before any handler that parses JSON or multipart bodies; the
// attachment route streams its parts, so the cap only bounds the whole batch.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
