package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"texcat/internal/apperr"
	"texcat/internal/models"
)

const (
	typAccess  = "access"
	typRefresh = "refresh"
	typReset   = "reset"
)

var (
	ErrTokenExpired   = apperr.Unauthenticated("token expired")
	ErrTokenInvalid   = apperr.Unauthenticated("invalid token")
	ErrUnknownSubject = apperr.Unauthenticated("could not validate credentials")
)

// UserSource resolves a token subject to a live user. Live means
// is_active and not soft-deleted, with roles loaded.
type UserSource interface {
	FindLiveByEmail(email string) (*models.User, error)
}

// TokenPair is the access/refresh pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenService issues and verifies HS256 tokens. It is stateless: there
// is no revocation list, a token stays valid until its expiry even after
// a refresh re-issues the pair.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	users      UserSource
}

func NewTokenService(secret string, accessTTL, refreshTTL, resetTTL time.Duration, users UserSource) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
		users:      users,
	}
}

func (s *TokenService) sign(email, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"typ": typ,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssuePair issues a fresh access/refresh token pair for the subject.
func (s *TokenService) IssuePair(email string) (TokenPair, error) {
	access, err := s.sign(email, typAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(email, typRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// IssueResetToken issues the short-lived token embedded in password
// reset links.
func (s *TokenService) IssueResetToken(email string) (string, error) {
	return s.sign(email, typReset, s.resetTTL)
}

// parse verifies signature and expiry and checks the typ claim. It never
// returns a partial subject.
func (s *TokenService) parse(tokenStr, wantTyp string) (string, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}
	typ, _ := mapc["typ"].(string)
	sub, _ := mapc["sub"].(string)
	if typ != wantTyp || sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}

func (s *TokenService) lookup(email string) (*models.User, error) {
	u, err := s.users.FindLiveByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// Resolve verifies an access token and resolves its subject to an
// identity.
func (s *TokenService) Resolve(tokenStr string) (Identity, error) {
	email, err := s.parse(tokenStr, typAccess)
	if err != nil {
		return Identity{}, err
	}
	u, err := s.lookup(email)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UUID: u.UUID, Email: u.Email, Roles: u.RoleNames()}, nil
}

// ResolveReset verifies a password-reset token and returns the live user
// it was issued for.
func (s *TokenService) ResolveReset(tokenStr string) (*models.User, error) {
	email, err := s.parse(tokenStr, typReset)
	if err != nil {
		return nil, err
	}
	return s.lookup(email)
}

// Refresh validates a refresh token and re-issues both tokens for the
// same subject. The previous refresh token is not revoked and remains
// usable until it expires.
func (s *TokenService) Refresh(refreshToken string) (TokenPair, error) {
	email, err := s.parse(refreshToken, typRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	if _, err := s.lookup(email); err != nil {
		return TokenPair{}, err
	}
	return s.IssuePair(email)
}
