package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/config"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	repo "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/repository/redis"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/logger"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/redis"
)

// SessionService binds wallet addresses to bearer tokens. Connecting a
// wallet yields a session-scoped JWT; every authenticated request resolves
// the caller address from it.
type SessionService interface {
	Connect(ctx context.Context, addr domain.Address) (*repo.WalletSession, string, error)
	Resolve(ctx context.Context, token string) (domain.Address, error)
	Disconnect(ctx context.Context, ssID string) error
}

type sessionService struct {
	repo repo.SessionRepository
	conf config.JWTConfig
	l    logger.Logger
}

func NewSessionService(repo repo.SessionRepository, conf config.JWTConfig, l logger.Logger) SessionService {
	return &sessionService{
		repo: repo,
		conf: conf,
		l:    l,
	}
}

func (s *sessionService) Connect(ctx context.Context, addr domain.Address) (*repo.WalletSession, string, error) {
	now := time.Now()
	ss := &repo.WalletSession{
		ID:         uuid.New().String(),
		Address:    addr,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.conf.Expiry),
		LastSeenAt: now,
	}

	if err := s.repo.Create(ctx, ss); err != nil {
		s.l.Errorf(ctx, "sessionService.Connect: %v", err)
		return nil, "", err
	}

	claims := jwt.MapClaims{
		"session_id": ss.ID,
		"address":    addr.String(),
		"exp":        ss.ExpiresAt.Unix(),
		"iat":        now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(s.conf.Secret))
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return ss, tokenStr, nil
}

func (s *sessionService) Resolve(ctx context.Context, token string) (domain.Address, error) {
	if token == "" {
		return domain.ZeroAddress, ErrTokenEmpty
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigning
		}
		return []byte(s.conf.Secret), nil
	})
	if err != nil {
		s.l.Warnf(ctx, "Invalid session token: %v", err)
		return domain.ZeroAddress, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return domain.ZeroAddress, ErrTokenInvalid
	}

	ssID, ok := claims["session_id"].(string)
	if !ok {
		return domain.ZeroAddress, ErrTokenInvalidClaims
	}

	ss, err := s.repo.Get(ctx, ssID)
	if err != nil {
		if err == redis.Nil {
			return domain.ZeroAddress, ErrSessionNotFound
		}
		return domain.ZeroAddress, fmt.Errorf("failed to get session: %w", err)
	}
	if ss.IsExpired(time.Now()) {
		return domain.ZeroAddress, ErrSessionExpired
	}

	if err := s.repo.Touch(ctx, ssID, time.Now()); err != nil {
		// Heartbeat only; the request itself can proceed.
		s.l.Warnf(ctx, "sessionService.Resolve: touch failed: %v", err)
	}

	return ss.Address, nil
}

func (s *sessionService) Disconnect(ctx context.Context, ssID string) error {
	return s.repo.Delete(ctx, ssID)
}
