package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	HeaderInternalCall  = "X-Internal-Call"
	HeaderSourceService = "X-Source-Service"

	authorityPrefix = "ROLE_"
)

var (
	errNotGateway   = errors.New("request did not come through the gateway")
	errMissingToken = errors.New("missing bearer token")
)

// GatewayAuth derives the caller identity from a token the gateway has already verified.
// The signature is not checked here, so this service must only be reachable through the gateway.
// The filter never rejects a request: on any failure the identity is cleared and the chain continues.
func GatewayAuth(gatewayName string, logger *zap.Logger) gin.HandlerFunc {
	parser := jwt.NewParser()

	return func(c *gin.Context) {
		principal, err := principalFromGateway(c.Request, gatewayName, parser)
		switch {
		case err == nil:
		case errors.Is(err, errNotGateway), errors.Is(err, errMissingToken):
			logger.Debug("request is unauthenticated", zap.String("path", c.Request.URL.Path), zap.String("reason", err.Error()))
		default:
			logger.Warn("failed to read gateway token", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func principalFromGateway(r *http.Request, gatewayName string, parser *jwt.Parser) (*Principal, error) {
	if r.Header.Get(HeaderInternalCall) != "true" ||
		!strings.EqualFold(r.Header.Get(HeaderSourceService), gatewayName) {
		return nil, errNotGateway
	}

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, errors.New("token has fewer than two segments")
	}

	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode token payload: %w", err)
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse token claims: %w", err)
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, err
	}
	if subject == "" {
		return nil, errors.New("token has no subject")
	}

	authorities, err := rolesClaim(claims)
	if err != nil {
		return nil, err
	}

	return &Principal{Subject: subject, Authorities: authorities}, nil
}

func rolesClaim(claims jwt.MapClaims) ([]string, error) {
	raw, ok := claims["roles"]
	if !ok || raw == nil {
		return []string{}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("roles claim must be a list, got %T", raw)
	}
	authorities := make([]string, 0, len(list))
	for _, item := range list {
		role, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("roles claim must contain strings, got %T", item)
		}
		authorities = append(authorities, authorityPrefix+role)
	}
	return authorities, nil
}
