package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const customerIDKey contextKey = "customerID"

// authenticate 驗證 Authorization: Bearer <token>
// 通過後把 token 裡的客戶 ID 放進 request context
func (s *APIServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: "missing bearer token"})
			return
		}

		customerID, err := s.authMgr.ParseToken(tokenStr)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: err.Error()})
			return
		}

		ctx := context.WithValue(r.Context(), customerIDKey, customerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authedCustomerID 取出 middleware 放進 context 的客戶 ID
func authedCustomerID(r *http.Request) uuid.UUID {
	id, _ := r.Context().Value(customerIDKey).(uuid.UUID)
	return id
}
