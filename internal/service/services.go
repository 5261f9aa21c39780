package service

import (
	"github.com/mpetrov/taskhub/internal/config"
	"github.com/mpetrov/taskhub/internal/repository"
	"github.com/mpetrov/taskhub/internal/token"
)

type Services struct {
	Auth    *AuthService
	Task    *TaskService
	Profile *ProfileService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	tokens := token.NewManager([]byte(cfg.JWTSecret), cfg.TokenTTL)

	return &Services{
		Auth:    NewAuthService(repos.User, tokens, cfg.BcryptCost),
		Task:    NewTaskService(repos.Task),
		Profile: NewProfileService(repos.User),
	}
}
