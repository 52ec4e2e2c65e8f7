// Package auth manages accounts and single-session bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/geomarket/internal/domain"
	"github.com/MrSnakeDoc/geomarket/internal/logger"
)

// ErrUnauthorized is returned for unknown emails and wrong passwords.
var ErrUnauthorized = errors.New("unauthorized")

// DefaultRole is assigned when registration does not name one.
const DefaultRole = "user"

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	SaveUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// TokenValidator resolves a bearer token to the user it was issued to.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (userID string, err error)
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username    string `json:"username"`
	Password    string `json:"user_password"`
	Email       string `json:"email"`
	Role        string `json:"user_role"`
	Avatar      string `json:"user_avatar"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country"`
	State       string `json:"state"`
	City        string `json:"city"`
	Pincode     string `json:"pincode"`
	Address     string `json:"address"`
}

// Session is the result of a successful register or login.
type Session struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// Service implements registration, login and token validation.
type Service struct {
	users  UserStore
	tokens *Tokens
	logger logger.Logger
	now    func() time.Time
}

// NewService creates an auth service.
func NewService(users UserStore, tokens *Tokens, log logger.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account and opens its first session.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.Username) == "" || in.Password == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: Username, password and email are required.", domain.ErrInvalidArgument)
	}

	hash, salt, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = DefaultRole
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		Role:         role,
		Avatar:       in.Avatar,
		PhoneNumber:  in.PhoneNumber,
		Country:      in.Country,
		State:        in.State,
		City:         in.City,
		Pincode:      in.Pincode,
		Address:      in.Address,
		CreatedAt:    s.now(),
		PasswordHash: hash,
		PasswordSalt: salt,
	}

	token, tokenID, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	u.TokenID = tokenID

	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		logger.String("user_id", u.ID),
		logger.String("role", u.Role))

	return &Session{Token: token, User: u.Public()}, nil
}

// Login checks the credentials and opens a new session, which revokes the
// previous one.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: Email and password are required.", domain.ErrInvalidArgument)
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: No user found with this email.", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	ok, err := verifyPassword(password, u.PasswordSalt, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: Invalid credentials.", ErrUnauthorized)
	}

	token, tokenID, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	u.TokenID = tokenID
	if err := s.users.SaveUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", logger.String("user_id", u.ID))

	return &Session{Token: token, User: u.Public()}, nil
}

// Validate returns the user ID of a token that is well signed, unexpired
// and still the user's current session.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", err
	}

	u, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("%w: unknown user", ErrInvalidToken)
	}
	if err != nil {
		return "", err
	}
	if u.TokenID != claims.ID {
		return "", fmt.Errorf("%w: session replaced", ErrInvalidToken)
	}
	return u.ID, nil
}

// GetUser returns the public view of a user.
func (s *Service) GetUser(ctx context.Context, id string) (domain.PublicUser, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return u.Public(), nil
}

// ListUsers returns the public view of every user.
func (s *Service) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// Sellers resolves seller summaries for the given user IDs. Unknown IDs are
// left out of the map.
func (s *Service) Sellers(ctx context.Context, ids []string) (map[string]*domain.Seller, error) {
	out := make(map[string]*domain.Seller, len(ids))
	for _, id := range ids {
		if _, done := out[id]; done || id == "" {
			continue
		}
		u, err := s.users.GetUser(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = u.AsSeller()
	}
	return out, nil
}
