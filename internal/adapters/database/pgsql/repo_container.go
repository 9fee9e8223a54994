package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/staffsync/staffsync_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository over the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         NewUserRepository(dbPool),
		CompanyRepo:      NewCompanyRepository(dbPool),
		RoleRepo:         NewRoleRepository(dbPool),
		ApplicationRepo:  NewApplicationRepository(dbPool),
		NotificationRepo: NewNotificationRepository(dbPool),
		WorkSessionRepo:  NewWorkSessionRepository(dbPool),
	}
}
