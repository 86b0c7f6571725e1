package services

import (
	"context"
	"errors"
	"time"

	"PlantKeeper/models"
	"PlantKeeper/repositories"
	"PlantKeeper/utils"

	"github.com/sirupsen/logrus"
)

// Locations every new account starts with. They carry IsDefault and
// survive replace-mode imports.
var defaultLocations = []string{"Living Room", "Bedroom", "Kitchen", "Balcony"}

type AuthService struct {
	store repositories.Store
	jwt   *utils.JWTManager
}

func NewAuthService(store repositories.Store, jwt *utils.JWTManager) *AuthService {
	return &AuthService{store: store, jwt: jwt}
}

func (s *AuthService) Register(ctx context.Context, user *models.User) error {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		for _, name := range defaultLocations {
			location := &models.Location{
				UserID:    user.ID,
				Name:      name,
				IsDefault: true,
			}
			if err := tx.Locations().Create(ctx, location); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logrus.Error("Error registering user: ", err)
		return errors.New("error registering user")
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		logrus.Error("User not found: ", err)
		return "", errors.New("user not found")
	}

	if err := utils.ComparePassword(user.Password, password); err != nil {
		logrus.Error("Invalid password")
		return "", errors.New("invalid password")
	}

	token, err := s.jwt.Generate(user.Username, 24*time.Hour)
	if err != nil {
		logrus.Error("Error generating token: ", err)
		return "", errors.New("error generating token")
	}

	return token, nil
}
