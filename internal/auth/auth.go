// Package auth implements the authentication core of the back office: it
// verifies admin credentials and issues, resolves, and revokes the artifact
// a client presents on every request. A deployment runs in exactly one of
// two modes: stateless JWT bearer tokens, or server-side cookie sessions.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderdesk/orderdesk/internal/model"
	"github.com/orderdesk/orderdesk/internal/store"
)

var (
	// ErrInvalidCredentials covers every authentication failure the client
	// is allowed to see: unknown email, wrong password, malformed or
	// tampered artifact, revoked session, missing admin. Callers must not
	// leak anything more specific than this.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired marks an artifact past its TTL. The gate collapses it
	// into the same client-facing 401; it exists so internal logging can
	// tell expiry apart from tampering.
	ErrTokenExpired = errors.New("token expired")
)

// SessionCookie is the cookie that carries the session artifact.
const SessionCookie = "orderdesk_session"

// Mode selects which artifact variant a deployment issues and accepts.
type Mode string

const (
	// ModeBearer issues signed, self-contained JWTs carried in the
	// Authorization header. Stateless: logout cannot revoke them server-side.
	ModeBearer Mode = "bearer"

	// ModeSession issues opaque tokens referencing server-persisted records,
	// carried in an httpOnly cookie. Logout deletes the record.
	ModeSession Mode = "session"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBearer, ModeSession:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown auth mode %q (want %q or %q)", s, ModeBearer, ModeSession)
}

// Artifact is the credential-proof a client presents per request: a tagged
// variant over the two realizable designs. Kind tells Resolve how to
// interpret the opaque Value (a JWT string, or a raw session token).
type Artifact struct {
	Kind  Mode
	Value string
}

// Principal is the authenticated identity attached to a request. It is the
// minimal projection of an Admin; it never carries the password hash.
type Principal struct {
	AdminID int64
	Email   string
}

// Options configures a Service. Zero TTLs fall back to the defaults
// (3h bearer, 8h session).
type Options struct {
	Mode       Mode
	JWTSecret  string
	TokenTTL   time.Duration
	SessionTTL time.Duration
}

// Service verifies credentials against the store and manages artifacts.
type Service struct {
	store      *store.Store
	mode       Mode
	jwtSecret  []byte
	tokenTTL   time.Duration
	sessionTTL time.Duration
}

// New creates a Service bound to the given store.
func New(st *store.Store, opts Options) *Service {
	if opts.Mode == "" {
		opts.Mode = ModeBearer
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 3 * time.Hour
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 8 * time.Hour
	}
	return &Service{
		store:      st,
		mode:       opts.Mode,
		jwtSecret:  []byte(opts.JWTSecret),
		tokenTTL:   opts.TokenTTL,
		sessionTTL: opts.SessionTTL,
	}
}

// Mode returns the artifact variant this deployment runs.
func (s *Service) Mode() Mode { return s.mode }

// TokenTTL returns the bearer token lifetime.
func (s *Service) TokenTTL() time.Duration { return s.tokenTTL }

// SessionTTL returns the session record lifetime.
func (s *Service) SessionTTL() time.Duration { return s.sessionTTL }

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a candidate password against the admin's stored
// bcrypt hash.
func VerifyPassword(admin *model.Admin, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(candidate)) == nil
}

// Login verifies an email/password pair and, on success, issues an artifact
// in the deployment's mode. Unknown email, wrong password, and disabled
// account all return ErrInvalidCredentials; the caller must not distinguish
// them in any client-visible way.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Admin, Artifact, error) {
	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, Artifact{}, ErrInvalidCredentials
		}
		return nil, Artifact{}, fmt.Errorf("look up admin: %w", err)
	}

	if !admin.IsActive || !VerifyPassword(admin, password) {
		return nil, Artifact{}, ErrInvalidCredentials
	}

	artifact, err := s.Issue(ctx, admin)
	if err != nil {
		return nil, Artifact{}, err
	}

	_ = s.store.UpdateAdminLastLogin(ctx, admin.ID)

	return admin, artifact, nil
}

// Issue mints a fresh artifact for an already-verified admin. The only
// observable side effect is one persisted session row in session mode.
func (s *Service) Issue(ctx context.Context, admin *model.Admin) (Artifact, error) {
	switch s.mode {
	case ModeSession:
		return s.issueSession(ctx, admin)
	default:
		return s.issueBearer(admin)
	}
}

// Resolve converts an artifact into a Principal or fails with
// ErrInvalidCredentials / ErrTokenExpired. Both variants re-resolve the
// admin record from the store, so a deleted or disabled admin loses access
// immediately rather than riding out the artifact's TTL.
func (s *Service) Resolve(ctx context.Context, artifact Artifact) (*Principal, error) {
	var adminID int64
	switch artifact.Kind {
	case ModeBearer:
		id, err := s.verifyBearer(artifact.Value)
		if err != nil {
			return nil, err
		}
		adminID = id
	case ModeSession:
		sess, err := s.store.GetSession(ctx, hashToken(artifact.Value))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Missing and expired collapse to the same rejection.
				return nil, ErrInvalidCredentials
			}
			return nil, fmt.Errorf("look up session: %w", err)
		}
		adminID = sess.AdminID
	default:
		return nil, ErrInvalidCredentials
	}

	admin, err := s.store.GetAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("resolve admin: %w", err)
	}
	if !admin.IsActive {
		return nil, ErrInvalidCredentials
	}

	return &Principal{AdminID: admin.ID, Email: admin.Email}, nil
}

// Revoke invalidates an artifact ahead of its natural expiry. Session mode
// deletes the backing record; revoking an already-gone session is success.
// Bearer tokens are stateless and cannot be revoked server-side: Revoke is
// a no-op there and the client is expected to discard its copy.
func (s *Service) Revoke(ctx context.Context, artifact Artifact) error {
	if artifact.Kind != ModeSession || artifact.Value == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, hashToken(artifact.Value))
}

// ---------------------------------------------------------------------------
// Bearer variant
// ---------------------------------------------------------------------------

type adminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Service) issueBearer(admin *model.Admin) (Artifact, error) {
	now := time.Now()
	claims := adminClaims{
		Email: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(admin.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Issuer:    "orderdesk",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return Artifact{}, fmt.Errorf("sign token: %w", err)
	}
	return Artifact{Kind: ModeBearer, Value: signed}, nil
}

// verifyBearer checks signature and expiry and returns the subject admin ID.
// Pure computation, no I/O.
func (s *Service) verifyBearer(tokenStr string) (int64, error) {
	claims := &adminClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrInvalidCredentials
	}
	if !token.Valid {
		return 0, ErrInvalidCredentials
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidCredentials
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Session variant
// ---------------------------------------------------------------------------

func (s *Service) issueSession(ctx context.Context, admin *model.Admin) (Artifact, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return Artifact{}, fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(raw)

	now := time.Now().UTC()
	sess := &model.Session{
		TokenHash: hashToken(token),
		AdminID:   admin.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return Artifact{}, err
	}
	return Artifact{Kind: ModeSession, Value: token}, nil
}

// hashToken returns the hex-encoded SHA-256 hash of a raw session token.
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
