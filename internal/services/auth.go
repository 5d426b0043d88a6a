package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/auth"
	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/config"
	"github.com/dmitrijs2005/cardiq/internal/cryptox"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/dmitrijs2005/cardiq/internal/models"
	"github.com/dmitrijs2005/cardiq/internal/repositories/repomanager"
)

const (
	deviceSecretSize = 32
	defaultTokenTTL  = 30 * 24 * time.Hour
)

// AuthService registers accounts on this device and keeps the login alive
// between runs of the CLI with a signed token stored in the metadata table.
type AuthService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	tokenTTL time.Duration
	log      logging.Logger
	now      func() time.Time
}

func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, cfg config.SessionConfig, log logging.Logger) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		db:       db,
		repos:    repos,
		tokenTTL: ttl,
		log:      log,
		now:      time.Now,
	}
}

// SignUp validates the input, creates the account and logs it in.
// A duplicate email yields common.ErrConstraintViolation.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (*auth.Session, error) {
	if err := ValidateName(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username:     strings.TrimSpace(username),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
	}
	id, err := s.repos.Users(s.db).Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id

	s.log.Info(ctx, "account created", "user_id", id)
	return s.startSession(ctx, u)
}

// Login checks the credentials. Unknown emails and wrong passwords are both
// reported as common.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	u, err := s.repos.Users(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)
	}

	ok, err := cryptox.CheckPassword(u.PasswordHash, []byte(password))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)
	}

	s.log.Info(ctx, "logged in", "user_id", u.ID)
	return s.startSession(ctx, u)
}

// Resume restores the session persisted on this device by an earlier login.
func (s *AuthService) Resume(ctx context.Context) (*auth.Session, error) {
	meta := s.repos.Metadata(s.db)

	token, err := meta.Get(ctx, common.MetaSessionToken)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, fmt.Errorf("not logged in: %w", common.ErrUnauthorized)
	}

	secret, err := meta.Get(ctx, common.MetaDeviceSecret)
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("device secret missing: %w", common.ErrUnauthorized)
	}

	userID, issued, err := auth.ParseToken(string(token), secret)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			s.log.Debug(ctx, "stored session rejected", "error", err)
			return nil, fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
		}
		return nil, err
	}

	u, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user[%d] no longer exists: %w", userID, common.ErrUnauthorized)
	}

	return &auth.Session{UserID: u.ID, Username: u.Username, Email: u.Email, IssuedAt: issued}, nil
}

// Logout forgets the persisted session. It is not an error to log out twice.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.repos.Metadata(s.db).Delete(ctx, common.MetaSessionToken); err != nil {
		return err
	}
	s.log.Info(ctx, "logged out")
	return nil
}

func (s *AuthService) startSession(ctx context.Context, u *models.User) (*auth.Session, error) {
	meta := s.repos.Metadata(s.db)

	secret, err := meta.GetOrCreate(ctx, common.MetaDeviceSecret, func() []byte {
		return common.GenerateRandByteArray(deviceSecretSize)
	})
	if err != nil {
		return nil, err
	}

	// JWT timestamps have second precision
	sess := &auth.Session{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		IssuedAt: s.now().UTC().Truncate(time.Second),
	}

	token, err := auth.GenerateToken(sess, secret, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	if err := meta.Set(ctx, common.MetaSessionToken, []byte(token)); err != nil {
		return nil, err
	}
	return sess, nil
}
