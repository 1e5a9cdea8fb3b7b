package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	"itemtracker/internal/core/domain"
)

type fakeTokens struct{}

func (fakeTokens) CreateToken(userID int) (string, error) { return "token", nil }

func (fakeTokens) VerifyToken(token string) (int, error) {
	switch token {
	case "valid":
		return 1, nil
	case "deleted":
		return 2, nil
	case "outage":
		return 3, nil
	}

	return 0, errors.New("invalid token")
}

type fakeUsers struct{}

func (fakeUsers) GetUserByID(_ context.Context, id int) (domain.User, error) {
	if id == 1 {
		return domain.User{ID: 1}, nil
	}

	if id == 3 {
		return domain.User{}, errors.New("database is locked")
	}

	return domain.User{}, domain.ErrUserNotFound
}

func (fakeUsers) GetUserByEmail(context.Context, string) (domain.User, error) {
	return domain.User{}, domain.ErrUserNotFound
}

func (fakeUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	return user, nil
}

func TestAuthenticated(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.GET("/items", Authenticated(fakeTokens{}, fakeUsers{}), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "ok": ok, "current": GetCurrent(c).UserID})
	})

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Token valid", http.StatusUnauthorized},
		{"Bearer broken", http.StatusUnauthorized},
		{"Bearer deleted", http.StatusUnauthorized},
		{"Bearer outage", http.StatusInternalServerError},
		{"Bearer valid", http.StatusOK},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/items", nil)

		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(tc.status), tc.header)

		switch tc.status {
		case http.StatusOK:
			Expect(w.Body.String()).To(MatchJSON(`{"user_id":1,"ok":true,"current":1}`))
		case http.StatusInternalServerError:
			Expect(w.Body.String()).To(ContainSubstring(`"code":"INTERNAL_ERROR"`))
			Expect(w.Body.String()).NotTo(ContainSubstring("database is locked"))
		default:
			Expect(w.Body.String()).To(ContainSubstring(`"code":"UNAUTHORIZED"`))
		}
	}
}
