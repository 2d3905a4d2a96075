package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/tutorlane/timecard-backend-go/internal/handler/http/response"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/jwt"
)

// RequireAdmin restricts a route to franchise admin accounts.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Admin access required")
			return
		}

		accountType, ok := claims["account_type"].(string)
		if !ok || accountType != jwt.AccountTypeAdmin {
			response.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireTutor restricts a route to tutor accounts; the token must carry the
// tutor_id claim the handlers act on.
func RequireTutor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "Tutor access required")
			return
		}

		accountType, ok := claims["account_type"].(string)
		if !ok || accountType != jwt.AccountTypeTutor {
			response.Forbidden(w, "Tutor access required")
			return
		}

		tutorID, ok := claims["tutor_id"].(string)
		if !ok || tutorID == "" {
			response.Forbidden(w, "Tutor access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
