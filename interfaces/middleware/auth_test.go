package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/domain/dto"
	"contentflow/domain/model"
	"contentflow/infrastructure/configuration"
)

type fakeUserRepo struct{}

func (fakeUserRepo) GetById(ctx context.Context, id string) (model.User, error) {
	return model.User{ID: id}, nil
}

func (fakeUserRepo) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	return model.User{}, nil
}

func (fakeUserRepo) CreateUser(ctx context.Context, user model.User) error { return nil }

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(fakeUserRepo{}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("user_id")})
	})
	return r
}

func TestAuth_ValidTokenSetsUserID(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, model.UserClaims{
		StandardClaims: jwt.StandardClaims{Issuer: "user-1"},
		UserName:       "ada",
	})
	signed, err := token.SignedString([]byte(configuration.C.App.SecretKey))
	require.NoError(t, err)

	router := authTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body.UserID)
}

func TestAuth_MissingToken(t *testing.T) {
	router := authTestRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var res dto.Res
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Unauthorized", res.ResponseMessage)
}

// Each rejected request gets its own response body; parallel requests with
// different failure classes must never see each other's message.
func TestAuth_ConcurrentFailuresKeepOwnMessage(t *testing.T) {
	router := authTestRouter()

	cases := []struct {
		header string
		want   string
	}{
		{header: "Bearer not-a-jwt", want: "That's not even a token"},
		{header: "", want: "Unauthorized"},
	}

	type outcome struct {
		code      int
		got, want string
	}
	outcomes := make(chan outcome, 32)
	var wg sync.WaitGroup
	for i := 0; i < cap(outcomes); i++ {
		tc := cases[i%len(cases)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)

			var res dto.Res
			_ = json.Unmarshal(w.Body.Bytes(), &res)
			outcomes <- outcome{code: w.Code, got: res.ResponseMessage, want: tc.want}
		}()
	}
	wg.Wait()
	close(outcomes)

	for o := range outcomes {
		assert.Equal(t, http.StatusUnauthorized, o.code)
		assert.Equal(t, o.want, o.got)
	}
}
