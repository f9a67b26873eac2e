package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/fixtures"
)

// SeedDefaults stores the default departments and roles when no role exists yet.
func (d *Directory) SeedDefaults(ctx context.Context) error {
	existing, err := d.RoleRepository.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list roles: %w", err)
	}
	if len(existing) > 0 {
		slog.Debug("Skipping default seed, roles already present", "count", len(existing))
		return nil
	}

	departments := fixtures.GetDefaultDepartments()
	for _, dept := range departments {
		if err := d.DepartmentRepository.Save(ctx, dept); err != nil {
			return fmt.Errorf("failed to save department %s: %w", dept.Name, err)
		}
	}
	slog.Info("Seeded default departments", "count", len(departments))

	roles := fixtures.GetDefaultRoles(departments)
	for _, role := range roles {
		if err := d.RoleRepository.Save(ctx, role); err != nil {
			return fmt.Errorf("failed to save role %s: %w", role.Name, err)
		}
	}
	slog.Info("Seeded default roles", "count", len(roles))

	return nil
}
