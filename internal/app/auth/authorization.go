package auth

import (
	"context"
	"errors"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// AuthorizationService checks staff roles against the credential store, so a
// role change or a deleted account takes effect before the token expires.
type AuthorizationService struct {
	userRepo *repositories.UserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo *repositories.UserRepository) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

// HasRole reports whether the user currently holds one of roles
func (s *AuthorizationService) HasRole(ctx context.Context, userID int64, roles ...models.RoleType) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, nil
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in HasRole")
		return false, err
	}

	for _, r := range roles {
		if user.Role == r {
			return true, nil
		}
	}
	return false, nil
}

// ValidateRole returns ErrPermissionDenied unless the user holds one of roles
func (s *AuthorizationService) ValidateRole(ctx context.Context, userID int64, roles ...models.RoleType) error {
	ok, err := s.HasRole(ctx, userID, roles...)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError("insufficient role for this operation")
	}
	return nil
}
