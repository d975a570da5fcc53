package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/internal/service/tokens"
	"github.com/fsdevblog/billsplit/pkg/uow"
)

const DefaultSessionTTL = 1 * time.Hour

type UserService struct {
	userRepo       UserRepository
	hasher         PasswordHasher
	sessions       SessionStore
	simulator      *SettlementSimulator
	jwtTokenSecret []byte
	sessionTTL     time.Duration
}

func NewUserService(
	u uow.UOW,
	jwtTokenSecret []byte,
	hasher PasswordHasher,
	sessions SessionStore,
	simulator *SettlementSimulator,
) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	return &UserService{
		userRepo:       userRepo,
		hasher:         hasher,
		sessions:       sessions,
		simulator:      simulator,
		jwtTokenSecret: jwtTokenSecret,
		sessionTTL:     DefaultSessionTTL,
	}, nil
}

func (s *UserService) SetSessionTTL(ttl time.Duration) *UserService {
	if ttl > 0 {
		s.sessionTTL = ttl
	}
	return s
}

type LoginUserArgs struct {
	Username string
	Password string
}

// Login проверяет пароль, открывает сессию и выдает jwt токен с ее идентификатором. Неизвестный юзер
// и неверный пароль неразличимы для клиента: оба дают domain.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, args.Username)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, "", domain.NewUnauthorizedError("invalid username or password")
		}
		return nil, "", fmt.Errorf("login: %w", translateRepoErr(err, "finding user"))
	}
	if !s.hasher.ComparePassword(args.Password, user.EncryptedPassword) {
		return nil, "", domain.NewUnauthorizedError("invalid username or password")
	}

	sessionID, sessErr := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if sessErr != nil {
		return nil, "", fmt.Errorf("login: creating session: %w", sessErr)
	}
	token, tokenErr := tokens.GenerateUserJWT(user.ID, sessionID, s.sessionTTL, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("login: %w", tokenErr)
	}
	return user, token, nil
}

// Authenticate проверяет токен и то, что его сессия еще жива.
func (s *UserService) Authenticate(ctx context.Context, token string) (*tokens.UserClaims, error) {
	claims, err := tokens.ValidateUserJWT(token, s.jwtTokenSecret)
	if err != nil {
		return nil, domain.NewError(domain.KindUnauthorized, err, "invalid token")
	}
	userID, sessErr := s.sessions.UserID(ctx, claims.SessionID)
	if sessErr != nil {
		if errors.Is(sessErr, domain.ErrRecordNotFound) {
			return nil, domain.NewUnauthorizedError("session expired")
		}
		return nil, fmt.Errorf("authenticate: %w", sessErr)
	}
	if userID != claims.ID {
		return nil, domain.NewUnauthorizedError("session does not belong to the token owner")
	}
	return claims, nil
}

// Logout закрывает сессию. Токен с этой сессией больше не принимается.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Balance текущий баланс счета юзера.
func (s *UserService) Balance(ctx context.Context, userID int64) (*domain.LedgerAccount, error) {
	return s.simulator.Balance(ctx, userID)
}
