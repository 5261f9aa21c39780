package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mpetrov/taskhub/internal/domain"
	"github.com/mpetrov/taskhub/internal/repository"
	"github.com/mpetrov/taskhub/internal/repository/memory"
	"github.com/mpetrov/taskhub/internal/service"
	"github.com/mpetrov/taskhub/internal/token"
)

func newAuthService() (*service.AuthService, *memory.Repositories) {
	return newAuthServiceTTL(time.Hour)
}

func newAuthServiceTTL(ttl time.Duration) (*service.AuthService, *memory.Repositories) {
	repos := memory.NewRepositories()
	tokens := token.NewManager([]byte("test-jwt-secret"), ttl)
	return service.NewAuthService(repos.User, tokens, bcrypt.MinCost), repos
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		input     service.RegisterInput
		setup     func(s *service.AuthService)
		wantErr   error
		wantVErr  bool
		checkUser bool
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Name:     "Alice",
				Email:    "alice@x.com",
				Password: "secret1",
			},
			checkUser: true,
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				Name:     "Alice Again",
				Email:    "alice@x.com",
				Password: "secret1",
			},
			setup: func(s *service.AuthService) {
				_, err := s.Register(ctx, service.RegisterInput{
					Name: "Alice", Email: "alice@x.com", Password: "secret1",
				})
				require.NoError(t, err)
			},
			wantErr: domain.ErrEmailTaken,
		},
		{
			name: "duplicate email different case",
			input: service.RegisterInput{
				Name:     "Alice Again",
				Email:    "ALICE@X.COM",
				Password: "secret1",
			},
			setup: func(s *service.AuthService) {
				_, err := s.Register(ctx, service.RegisterInput{
					Name: "Alice", Email: "alice@x.com", Password: "secret1",
				})
				require.NoError(t, err)
			},
			wantErr: domain.ErrEmailTaken,
		},
		{
			name: "name too short",
			input: service.RegisterInput{
				Name:     "A",
				Email:    "a@x.com",
				Password: "secret1",
			},
			wantVErr: true,
		},
		{
			name: "invalid email",
			input: service.RegisterInput{
				Name:     "Alice",
				Email:    "not-an-email",
				Password: "secret1",
			},
			wantVErr: true,
		},
		{
			name: "password too short",
			input: service.RegisterInput{
				Name:     "Alice",
				Email:    "alice@x.com",
				Password: "short",
			},
			wantVErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService, _ := newAuthService()

			if tt.setup != nil {
				tt.setup(authService)
			}

			result, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.wantVErr {
				var verrs domain.ValidationErrors
				assert.ErrorAs(t, err, &verrs)
				return
			}

			require.NoError(t, err)
			if tt.checkUser {
				assert.NotNil(t, result.User)
				assert.Equal(t, "Alice", result.User.Name)
				assert.Equal(t, "alice@x.com", result.User.Email)
				assert.NotEmpty(t, result.Token)
			}
		})
	}
}

func TestAuthService_RegisterNeverStoresPlaintext(t *testing.T) {
	ctx := context.Background()
	authService, repos := newAuthService()

	result, err := authService.Register(ctx, service.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "supersecret",
	})
	require.NoError(t, err)

	stored, err := repos.User.GetByID(ctx, result.User.ID)
	require.NoError(t, err)

	assert.NotEqual(t, "supersecret", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "supersecret")
	// The stored secret still verifies against the original plaintext
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("supersecret")))
}

// blindUserRepo never finds a user by email, so a registration proceeds to
// the insert even when the email is already stored. This mimics two
// registrations racing past each other's pre-insert lookup.
type blindUserRepo struct {
	*memory.UserRepository
}

func (r *blindUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func TestAuthService_RegisterConcurrentDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := &blindUserRepo{UserRepository: memory.NewUserRepository()}
	tokens := token.NewManager([]byte("test-jwt-secret"), time.Hour)
	authService := service.NewAuthService(repo, tokens, bcrypt.MinCost)

	_, err := authService.Register(ctx, service.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	// The losing insert hits the uniqueness constraint and still surfaces
	// as a taken email, not an internal error
	_, err = authService.Register(ctx, service.RegisterInput{
		Name: "Alice Again", Email: "alice@x.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestAuthService_HashingIsSalted(t *testing.T) {
	ctx := context.Background()
	authService, repos := newAuthService()

	a, err := authService.Register(ctx, service.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "samepassword",
	})
	require.NoError(t, err)

	b, err := authService.Register(ctx, service.RegisterInput{
		Name: "Bob", Email: "bob@x.com", Password: "samepassword",
	})
	require.NoError(t, err)

	userA, err := repos.User.GetByID(ctx, a.User.ID)
	require.NoError(t, err)
	userB, err := repos.User.GetByID(ctx, b.User.ID)
	require.NoError(t, err)

	// Same password, different hashes, both valid logins
	assert.NotEqual(t, userA.PasswordHash, userB.PasswordHash)

	_, err = authService.Login(ctx, service.LoginInput{Email: "alice@x.com", Password: "samepassword"})
	assert.NoError(t, err)
	_, err = authService.Login(ctx, service.LoginInput{Email: "bob@x.com", Password: "samepassword"})
	assert.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	authService, _ := newAuthService()

	_, err := authService.Register(ctx, service.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "correctpassword",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "successful login",
			input: service.LoginInput{Email: "alice@x.com", Password: "correctpassword"},
		},
		{
			name:  "case-insensitive trimmed email",
			input: service.LoginInput{Email: "  Alice@X.Com ", Password: "correctpassword"},
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Email: "alice@x.com", Password: "wrongpassword"},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			input:   service.LoginInput{Email: "nobody@x.com", Password: "correctpassword"},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "alice@x.com", result.User.Email)
			assert.NotEmpty(t, result.Token)
		})
	}
}

func TestAuthService_LoginFailureIsUniform(t *testing.T) {
	ctx := context.Background()
	authService, _ := newAuthService()

	_, err := authService.Register(ctx, service.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "correctpassword",
	})
	require.NoError(t, err)

	_, wrongPassErr := authService.Login(ctx, service.LoginInput{
		Email: "alice@x.com", Password: "wrongpassword",
	})
	_, unknownEmailErr := authService.Login(ctx, service.LoginInput{
		Email: "nobody@x.com", Password: "correctpassword",
	})

	// Identical error for both failure modes, no account enumeration
	assert.Equal(t, wrongPassErr, unknownEmailErr)
	assert.ErrorIs(t, wrongPassErr, service.ErrInvalidCredentials)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	authService, _ := newAuthService()

	result, err := authService.Register(ctx, service.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	user, err := authService.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	_, err = authService.Authenticate(ctx, "not.a.token")
	assert.ErrorIs(t, err, token.ErrTokenInvalid)
}

func TestAuthService_AuthenticateExpiredToken(t *testing.T) {
	ctx := context.Background()
	authService, _ := newAuthServiceTTL(-time.Minute)

	result, err := authService.Register(ctx, service.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, err = authService.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, token.ErrTokenExpired)
}

func TestAuthService_AuthenticateVanishedUser(t *testing.T) {
	ctx := context.Background()
	authService, repos := newAuthService()

	result, err := authService.Register(ctx, service.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	repos.User.Delete(result.User.ID)

	// A valid token for a vanished identity is unauthorized, not not-found
	_, err = authService.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, service.ErrUnknownIdentity)
}

func TestAuthService_GetUserByID(t *testing.T) {
	ctx := context.Background()
	authService, _ := newAuthService()

	result, err := authService.Register(ctx, service.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	got, err := authService.GetUserByID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, got.ID)

	_, err = authService.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
