package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	pkgauth "github.com/sitecrm/sitecrm-backend/pkg/auth"
	"github.com/sitecrm/sitecrm-backend/pkg/config"
	"github.com/sitecrm/sitecrm-backend/pkg/errors"
	"github.com/sitecrm/sitecrm-backend/pkg/logger"
	"github.com/sitecrm/sitecrm-backend/pkg/security"
)

// Session is the payload returned to a successfully authenticated admin.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
}

// Service authenticates the configured admin account. There is no user
// table: the admin email and bcrypt password hash live in configuration
// and the session is a stateless JWT.
type Service struct {
	admin config.AdminConfig
	jwt   config.JWTConfig
	logg  *logger.Logger
	now   func() time.Time
}

func NewService(admin config.AdminConfig, jwt config.JWTConfig, logg *logger.Logger) *Service {
	return &Service{
		admin: admin,
		jwt:   jwt,
		logg:  logg,
		now:   time.Now,
	}
}

// Login verifies the credential pair and mints an access token. The
// password is checked against the configured bcrypt hash; both checks run
// unconditionally so a wrong email costs the same as a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(strings.ToLower(s.admin.Email))) == 1
	passwordOK := security.VerifyPassword(password, s.admin.PasswordHash)
	if !emailOK || !passwordOK {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "email", email), "admin login rejected")
		}
		return nil, errors.New(errors.CodeUnauthorized, "invalid email or password")
	}

	issuedAt := s.now().UTC()
	token, err := pkgauth.MintAccessToken(s.jwt, issuedAt, email)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "mint access token")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "email", email), "admin login succeeded")
	}
	return &Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   issuedAt.Add(s.jwt.Expiration()),
		Email:       email,
		Role:        pkgauth.RoleAdmin,
	}, nil
}
