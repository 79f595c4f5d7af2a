package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"folio/internal/middleware"
	"folio/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	tokenIssuer   = "folio-api"
	tokenAudience = "folio-client"
	tokenTTL      = 7 * 24 * time.Hour

	wsTicketTTL       = 30 * time.Second
	wsTicketKeyPrefix = "ws_ticket:"
	blacklistPrefix   = "blacklist:"
)

// AuthRequired resolves the caller's identity from a single-use WebSocket ticket or
// a bearer JWT and stores it in locals as "userID". Requests without one get 401
// before any handler runs.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isWSPath := strings.HasPrefix(c.Path(), "/api/ws/")

		if ticket := c.Query("ticket"); ticket != "" {
			userID, err := s.consumeWSTicket(c.UserContext(), ticket)
			if err == nil {
				return s.authenticated(c, userID)
			}
			if isWSPath {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
		}

		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		claims, err := s.parseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 32)
		if err != nil || userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		if claims.ID != "" && s.redis != nil {
			revoked, err := s.redis.Exists(c.UserContext(), blacklistPrefix+claims.ID).Result()
			if err == nil && revoked > 0 {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
		}

		c.Locals("tokenClaims", claims)
		return s.authenticated(c, uint(userID))
	}
}

func (s *Server) authenticated(c *fiber.Ctx, userID uint) error {
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
	return c.Next()
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" {
		return ""
	}
	return strings.TrimSpace(token)
}

// parseToken validates signature, expiry, issuer and audience.
func (s *Server) parseToken(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// generateToken creates a signed JWT for the given user.
func (s *Server) generateToken(userID uint) (string, error) {
	if s.config.JWTSecret == "" {
		return "", errors.New("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// issueWSTicket stores a random ticket for userID that expires after wsTicketTTL.
func (s *Server) issueWSTicket(ctx context.Context, userID uint) (string, error) {
	if s.redis == nil {
		return "", errors.New("redis unavailable")
	}
	ticket := uuid.NewString()
	if err := s.redis.Set(ctx, wsTicketKeyPrefix+ticket, userID, wsTicketTTL).Err(); err != nil {
		return "", fmt.Errorf("store ws ticket: %w", err)
	}
	return ticket, nil
}

// consumeWSTicket atomically reads and deletes a ticket.
func (s *Server) consumeWSTicket(ctx context.Context, ticket string) (uint, error) {
	if s.redis == nil {
		return 0, errors.New("redis unavailable")
	}
	raw, err := s.redis.GetDel(ctx, wsTicketKeyPrefix+ticket).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, errors.New("unknown ticket")
		}
		return 0, err
	}
	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || userID == 0 {
		return 0, fmt.Errorf("malformed ticket value %q", raw)
	}
	return uint(userID), nil
}

// revokeToken blacklists the token's jti until it would have expired anyway.
func (s *Server) revokeToken(ctx context.Context, claims *jwt.RegisteredClaims) error {
	if s.redis == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := tokenTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, blacklistPrefix+claims.ID, "1", ttl).Err()
}
