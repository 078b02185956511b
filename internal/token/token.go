// Package token issues and verifies the HS256 bearer tokens handed out at
// login. Tokens are self-contained; nothing is stored server-side.
package token

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noahform/intake/internal/model"
)

// ErrInvalidToken is wrapped by every verification failure.
var ErrInvalidToken = errors.New("invalid token")

// DefaultTTL is used when Config.TTL is zero.
const DefaultTTL = 24 * time.Hour

// Claims is the token payload: iat, exp, iss, aud plus the embedded identity.
type Claims struct {
	jwt.RegisteredClaims
	Data model.Identity `json:"data"`
}

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Issuer)

// WithClock overrides the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func NewIssuer(cfg Config, opts ...Option) *Issuer {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	i := &Issuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs a token for the user. exp is always iat + TTL.
func (i *Issuer) Issue(u *model.User) (string, error) {
	now := i.now().Truncate(time.Second)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			Issuer:    i.issuer,
		},
		Data: u.Identity(),
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, algorithm, expiry, issuer and audience and returns
// the full claim set.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	if i.audience != "" {
		opts = append(opts, jwt.WithAudience(i.audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify returns the identity embedded in a valid token.
func (i *Issuer) Verify(raw string) (model.Identity, error) {
	claims, err := i.Parse(raw)
	if err != nil {
		return model.Identity{}, err
	}
	return claims.Data, nil
}

var bearerRe = regexp.MustCompile(`(?i)^Bearer\s+(.*)$`)

// ExtractToken looks for "Authorization: Bearer <token>" first and falls back
// to the "token" query parameter.
func ExtractToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		if m := bearerRe.FindStringSubmatch(h); m != nil {
			if tok := strings.TrimSpace(m[1]); tok != "" {
				return tok, true
			}
		}
	}
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok, true
	}
	return "", false
}
