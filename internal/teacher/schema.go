package teacher

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateSchema creates the teachers table from the model when it does not
// exist yet. The pk becomes BIGSERIAL on Postgres and INTEGER PRIMARY KEY
// AUTOINCREMENT on SQLite, so ids are never reused. The UNIQUE constraint on
// employee_number is the authoritative duplicate guard; the service
// pre-check only produces the friendlier error first.
func CreateSchema(ctx context.Context, database *bun.DB) error {
	_, err := database.NewCreateTable().
		Model((*Teacher)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create teachers table: %w", err)
	}
	return nil
}
