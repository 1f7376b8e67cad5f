package providers

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"renewalpulse/internal/structures"
)

const AccessPasswordHeader = "X-Access-Password"

// AuthMiddleware gates the API behind the configured access password. With
// no hash configured the API is open, which is the expected mode behind a
// reverse proxy that already authenticates.
func AuthMiddleware(conf *structures.Config, logger Logger, next http.Handler) http.Handler {
	hash := []byte(conf.Auth.PasswordHash)
	if len(hash) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		password := r.Header.Get(AccessPasswordHeader)
		if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
			logger.Warnf(GetLogTypeByRequestType(r.Method), "rejected %s %s: bad access password", r.Method, r.URL.Path)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
