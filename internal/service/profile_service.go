package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mpetrov/taskhub/internal/domain"
	"github.com/mpetrov/taskhub/internal/repository"
)

type ProfileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// UpdateProfileInput carries the mutable profile fields. Email and password
// cannot be changed through this path.
type UpdateProfileInput struct {
	Name *string
	Bio  *string
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var verrs domain.ValidationErrors
	if input.Name != nil {
		if fe := domain.ValidateName(*input.Name); fe != nil {
			verrs = append(verrs, *fe)
		}
	}
	if input.Bio != nil {
		if fe := domain.ValidateBio(*input.Bio); fe != nil {
			verrs = append(verrs, *fe)
		}
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
