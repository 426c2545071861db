package migration

import "context"

// Migrators maps a version to its migration. The special "auto" version
// creates or updates the full schema from the entity definitions.
var Migrators = map[string]func(context.Context) error{
	"auto": autoMigrate,
}
