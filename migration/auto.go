package migration

import (
	"context"

	"github.com/pulselab/backend/internal/entity"
)

// When this migrator is called, no need to call other migrators.
func autoMigrate(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}
