package services

import (
	"context"
	"errors"

	"github.com/famcart/backend/internal/config"
	"github.com/famcart/backend/internal/models"
	"github.com/famcart/backend/pkg/logger"
	"gorm.io/gorm"
)

type SSOService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSSOService(db *gorm.DB, cfg *config.Config) *SSOService {
	return &SSOService{DB: db, Cfg: cfg}
}

// FindOrCreateUser resolves a verified Google profile to a local user.
// Profile fields are refreshed on every login so a renamed Google
// account shows up with its current name and picture. An existing
// local-password account with the same email is linked rather than
// duplicated.
func (s *SSOService) FindOrCreateUser(ctx context.Context, profile *SSOProfile) (*models.User, error) {
	var user models.User

	err := s.DB.WithContext(ctx).
		First(&user, "external_id = ? AND auth_provider = ?", profile.ProviderUserID, models.AuthProviderGoogle).Error
	if err == nil {
		updates := map[string]interface{}{
			"email": profile.Email,
			"name":  profile.Name,
			"image": profile.Image,
		}
		if err := s.DB.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.DB.WithContext(ctx).First(&user, "email = ?", profile.Email).Error
	if err == nil {
		updates := map[string]interface{}{
			"external_id":   profile.ProviderUserID,
			"auth_provider": models.AuthProviderGoogle,
			"name":          profile.Name,
			"image":         profile.Image,
		}
		if err := s.DB.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		logger.InfoWithUser(user.ID.String(), "sso_account_linked", map[string]interface{}{
			"provider": string(models.AuthProviderGoogle),
		})
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !s.Cfg.SSO.AutoRegister {
		return nil, errors.New("auto-registration is disabled")
	}

	externalID := profile.ProviderUserID
	user = models.User{
		Email:        profile.Email,
		Name:         profile.Name,
		Image:        profile.Image,
		AuthProvider: models.AuthProviderGoogle,
		ExternalID:   &externalID,
	}

	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	logger.Info("sso_user_created", map[string]interface{}{
		"user_id":  user.ID.String(),
		"email":    user.Email,
		"provider": string(models.AuthProviderGoogle),
	})

	return &user, nil
}
