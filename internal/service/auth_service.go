package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mpetrov/taskhub/internal/domain"
	"github.com/mpetrov/taskhub/internal/repository"
	"github.com/mpetrov/taskhub/internal/token"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnknownIdentity is returned when a syntactically valid token refers
	// to a user that no longer exists. Surfaced as unauthorized, never as
	// not-found.
	ErrUnknownIdentity = errors.New("token subject no longer exists")
)

type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *token.Manager
	bcryptCost int
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  *domain.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var verrs domain.ValidationErrors
	if fe := domain.ValidateName(input.Name); fe != nil {
		verrs = append(verrs, *fe)
	}
	if fe := domain.ValidateEmail(input.Email); fe != nil {
		verrs = append(verrs, *fe)
	}
	if fe := domain.ValidatePassword(input.Password); fe != nil {
		verrs = append(verrs, *fe)
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)

	// Check if email is taken. The unique index on users.email backs this
	// up against concurrent registrations.
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// Hash password. The plaintext is never persisted.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// A concurrent registration can slip past the lookup above; the unique
	// index on users.email reports it as a duplicate here.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	return s.issueFor(user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueFor(user)
}

// Authenticate verifies a bearer token and resolves it to a live user.
// Every failure kind maps to an unauthorized response at the boundary;
// the distinct errors exist for internal diagnostics only.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	userID, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueFor(user *domain.User) (*AuthResult, error) {
	tokenString, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: tokenString}, nil
}
