package services

import (
	"log/slog"

	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, feed portsrepo.NotificationFeed, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The role service is initialized first since it is the permission
	// checker for every other service.
	container.Role = NewRoleService(repos.RoleRepo, repos.UserRepo)
	resolver := portssvc.RoleResolverSvc(container.Role)

	container.User = NewUserService(repos.UserRepo, repos.RoleRepo)
	container.Token = NewTokenService(repos.UserRepo, cfg)
	container.Company = NewCompanyService(repos.CompanyRepo, repos.UserRepo, repos.RoleRepo, resolver)
	container.Application = NewApplicationService(repos.ApplicationRepo, repos.UserRepo, repos.RoleRepo, repos.NotificationRepo, resolver)
	container.Staff = NewStaffService(repos.UserRepo, repos.RoleRepo, repos.WorkSessionRepo, container.Role, resolver)
	container.Notification = NewNotificationService(repos.NotificationRepo, feed, resolver, logger)

	return container
}
