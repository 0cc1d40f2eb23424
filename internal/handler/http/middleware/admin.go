package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/tidyops/payroll-backend-go/internal/handler/http/response"
	"github.com/tidyops/payroll-backend-go/internal/pkg/jwt"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, jwt.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || jwt.Role(role) != jwt.RoleAdmin {
			response.Forbidden(w, "Admin privilege required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
