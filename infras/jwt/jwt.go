package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"etm/config"
	"etm/shared/constant"
	"etm/shared/timezone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrSubjectMismatch  = errors.New("token subject does not match")
	ErrMissingHeader    = errors.New("authorization header is required")
	ErrInvalidHeader    = errors.New("authorization header must start with 'Bearer '")
)

const (
	TokenTypeBearer = "Bearer"
	bearerPrefix    = TokenTypeBearer + " "
)

// Claims carries the account roles next to the registered claims. The subject is the username.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Token is a signed access token ready to be returned to a client.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type JWT interface {
	Issue(username string, roles []string) (*Token, error)
	Parse(tokenString string) (*Claims, error)
	Validate(tokenString, username string) error
}

type Service struct {
	config *config.Config
	now    func() time.Time
}

func New(cfg *config.Config) JWT {
	return &Service{
		config: cfg,
		now:    timezone.Now,
	}
}

// NewWithClock is New with a fixed time source.
func NewWithClock(cfg *config.Config, now func() time.Time) JWT {
	return &Service{
		config: cfg,
		now:    now,
	}
}

func (s *Service) lifetime() time.Duration {
	return time.Duration(s.config.JWT.ExpireMin) * time.Minute
}

// Issue signs an HS256 token for username valid for the configured lifetime.
func (s *Service) Issue(username string, roles []string) (*Token, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.lifetime())

	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.App.Name,
			Subject:   username,
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(s.config.JWT.ExpireMin * constant.MinutesToSeconds),
	}, nil
}

// Parse verifies signature, algorithm and expiry and returns the claims.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Validate succeeds only for an unexpired, correctly signed token issued to username.
func (s *Service) Validate(tokenString, username string) error {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return err
	}

	if claims.Subject != username {
		return ErrSubjectMismatch
	}

	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpiredToken, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
}

// ExtractTokenFromHeader returns the token of a "Bearer <token>" header value.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	token, found := strings.CutPrefix(authHeader, bearerPrefix)
	if !found || strings.TrimSpace(token) == "" {
		return "", ErrInvalidHeader
	}

	return strings.TrimSpace(token), nil
}
