package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/tutorlane/timecard-backend-go/internal/handler/http/response"
)

// tokenClaims pulls the identity claims handlers act on out of the verified
// token. The role middleware has already checked account_type; a missing
// claim here means a malformed token, answered with 401.
type tokenClaims struct {
	AccountID   string
	AccountType string
	FranchiseID string
	TutorID     string
}

func claimsFromRequest(w http.ResponseWriter, r *http.Request) (tokenClaims, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return tokenClaims{}, false
	}

	accountID, _ := claims["account_id"].(string)
	accountType, _ := claims["account_type"].(string)
	franchiseID, _ := claims["franchise_id"].(string)
	tutorID, _ := claims["tutor_id"].(string)

	if accountID == "" || accountType == "" || franchiseID == "" {
		response.Unauthorized(w, "Invalid token")
		return tokenClaims{}, false
	}

	return tokenClaims{
		AccountID:   accountID,
		AccountType: accountType,
		FranchiseID: franchiseID,
		TutorID:     tutorID,
	}, true
}
