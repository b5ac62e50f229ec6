package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"contentflow/domain/dto"
	"contentflow/domain/model"
	"contentflow/domain/repository"
	"contentflow/infrastructure/configuration"
)

// Auth validates the Bearer token and stores the authenticated user id in
// the gin context under "user_id".
func Auth(userRepository repository.IUser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res := dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}
		claims, err := claimsFromRequest(ctx)
		if err != nil {
			res.ResponseMessage = authFailureMessage(err)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		if _, err := userRepository.GetById(ctx.Request.Context(), claims.Issuer); err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		ctx.Set("user_id", claims.Issuer)
		ctx.Next()
	}
}

// AuthOrRedirect is the browser-facing variant used on the OAuth initiate
// route: an unauthenticated request is sent to the frontend login page
// instead of getting a JSON 401. The token may also arrive as a query
// parameter since the browser navigates here directly.
func AuthOrRedirect(userRepository repository.IUser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, err := claimsFromRequest(ctx)
		if err != nil {
			ctx.Redirect(http.StatusFound, configuration.C.App.FrontendURL+"/login")
			ctx.Abort()
			return
		}
		if _, err := userRepository.GetById(ctx.Request.Context(), claims.Issuer); err != nil {
			ctx.Redirect(http.StatusFound, configuration.C.App.FrontendURL+"/login")
			ctx.Abort()
			return
		}
		ctx.Set("user_id", claims.Issuer)
		ctx.Next()
	}
}

func claimsFromRequest(ctx *gin.Context) (model.UserClaims, error) {
	raw := ""
	if authorization := ctx.Request.Header.Get("Authorization"); authorization != "" {
		parts := strings.Split(authorization, "Bearer ")
		if len(parts) != 2 {
			return model.UserClaims{}, errors.New("malformed authorization header")
		}
		raw = parts[1]
	} else {
		raw = ctx.Query("token")
	}
	if raw == "" {
		return model.UserClaims{}, errors.New("missing token")
	}

	var claims model.UserClaims
	token, err := jwt.ParseWithClaims(
		raw,
		&claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(configuration.C.App.SecretKey), nil
		},
	)
	if err != nil {
		return model.UserClaims{}, err
	}
	if !token.Valid {
		return model.UserClaims{}, errors.New("invalid token")
	}
	return claims, nil
}

func authFailureMessage(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		}
		if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return "Timing is everything"
		}
		return fmt.Sprintf("Couldn't handle this token:%v", err)
	}
	return "Unauthorized"
}
