package service

import (
	"go.uber.org/zap"

	"library-system/config"
	"library-system/internal/repository"
	"library-system/pkg/jwt"
	"library-system/pkg/redis"
)

// Service aggregates all services.
type Service struct {
	Auth   AuthService
	Book   BookService
	Loan   LoanService
	User   UserService
	Export ExportService
}

// NewService wires the service implementations.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:   NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Book:   NewBookService(repo, logger),
		Loan:   NewLoanService(repo, logger),
		User:   NewUserService(repo, logger),
		Export: NewExportService(repo, logger),
	}
}
