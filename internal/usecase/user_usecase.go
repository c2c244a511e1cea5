package usecase

import (
	"context"
	"time"

	"scamwatch/internal/domain/entity"
	"scamwatch/internal/domain/repository"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/logger"
)

type UserUseCase struct {
	userRepo   repository.UserRepository
	authClient AuthClient
}

func NewUserUseCase(userRepo repository.UserRepository, authClient AuthClient) *UserUseCase {
	return &UserUseCase{
		userRepo:   userRepo,
		authClient: authClient,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
	Phone    string
}

// Register creates the identity-provider account and the user record.
// New users start at the baseline reputation with every channel enabled
// except SMS.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	uid, err := uc.authClient.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		return nil, errors.BadRequest("Failed to create account", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:            uid,
		Email:         input.Email,
		Username:      input.Username,
		Phone:         input.Phone,
		Status:        entity.UserStatusActive,
		AlertRadiusKm: 10,
		Channels: entity.ChannelPreferences{
			Push:  true,
			Email: true,
		},
		TrustScore:     TrustScoreFor(0, 0),
		ReputationTier: TierForScore(TrustScoreFor(0, 0)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// Roll back the orphaned auth account.
		if delErr := uc.authClient.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Failed to roll back auth account %s: %v", uid, delErr)
		}
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

type UpdatePreferencesInput struct {
	Lat                  *float64
	Lng                  *float64
	AlertRadiusKm        *float64
	SubscribedCategories *[]string
	Push                 *bool
	Email                *bool
	SMS                  *bool
	DeviceToken          *string
}

// UpdatePreferences patches the user's alerting preferences. Nil fields
// are left untouched.
func (uc *UserUseCase) UpdatePreferences(ctx context.Context, userID string, input UpdatePreferencesInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Lat != nil && input.Lng != nil {
		user.Location = &entity.GeoPoint{Lat: *input.Lat, Lng: *input.Lng}
	}
	if input.AlertRadiusKm != nil {
		if *input.AlertRadiusKm < 0 || *input.AlertRadiusKm > 500 {
			return nil, errors.BadRequest("Alert radius must be between 0 and 500 km", nil)
		}
		user.AlertRadiusKm = *input.AlertRadiusKm
	}
	if input.SubscribedCategories != nil {
		user.SubscribedCategories = *input.SubscribedCategories
	}
	if input.Push != nil {
		user.Channels.Push = *input.Push
	}
	if input.Email != nil {
		user.Channels.Email = *input.Email
	}
	if input.SMS != nil {
		user.Channels.SMS = *input.SMS
	}
	if input.DeviceToken != nil {
		user.DeviceToken = *input.DeviceToken
	}

	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
