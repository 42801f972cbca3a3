package services

import (
	"crypto/sha256"
	"crypto/subtle"

	"apply4me/internal/config"
	apperrors "apply4me/pkg/errors"

	"golang.org/x/crypto/bcrypt"
)

// AdminAuthService decides whether a supplied Basic-Auth credential pair
// matches the configured admin credentials.
type AdminAuthService struct {
	user     string
	pass     string
	passHash string
}

func NewAdminAuthService(cfg config.AdminConfig) *AdminAuthService {
	return &AdminAuthService{
		user:     cfg.User,
		pass:     cfg.Pass,
		passHash: cfg.PassHash,
	}
}

// Configured reports whether admin credentials are present at all. An
// unconfigured admin is a distinct condition from a failed login.
func (s *AdminAuthService) Configured() bool {
	return s.user != "" && (s.pass != "" || s.passHash != "")
}

// Check returns nil when the pair matches, ErrAdminNotConfigured when no
// credentials are configured, and ErrUnauthorized otherwise. Comparison cost
// does not depend on where a mismatch occurs: both operands are reduced to a
// fixed-length digest before a constant-time comparison, and the username
// and password checks are always both evaluated.
func (s *AdminAuthService) Check(user, pass string) error {
	if !s.Configured() {
		return apperrors.ErrAdminNotConfigured
	}

	userOK := secureCompare(user, s.user)

	var passOK int
	if s.passHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.passHash), []byte(pass)) == nil {
			passOK = 1
		}
	} else {
		passOK = secureCompare(pass, s.pass)
	}

	if userOK&passOK != 1 {
		return apperrors.ErrUnauthorized
	}
	return nil
}

func secureCompare(got, want string) int {
	g := sha256.Sum256([]byte(got))
	w := sha256.Sum256([]byte(want))
	return subtle.ConstantTimeCompare(g[:], w[:])
}
