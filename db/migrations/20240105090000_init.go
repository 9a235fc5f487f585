package migrations

import (
	"context"

	"github.com/heraerp/heracore/db/models"
	"github.com/uptrace/bun"
)

/* Since this init will reflect the latest model fields when run on a fresh db
make sure that when you add/remove columns in subsequent migrations
IfNotExists/IfExists is used, otherwise it's going to result in errors.
*/
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if _, err := db.NewCreateTable().Model((*models.Organization)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.Entity)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.DynamicData)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.Relationship)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.Transaction)(nil)).Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*models.TransactionLine)(nil)).Exec(ctx); err != nil {
			return err
		}

		// every read path filters by organization first
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_entities_org_type ON entities (organization_id, entity_type)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_dynamic_data_org_entity_field ON dynamic_data (organization_id, entity_id, field_name)`,
			`CREATE INDEX IF NOT EXISTS idx_relationships_org_from_type ON relationships (organization_id, from_entity_id, relationship_type)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_org_type ON transactions (organization_id, transaction_type)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_transaction_lines_txn_line_number ON transaction_lines (transaction_id, line_number)`,
		}
		for _, idx := range indexes {
			if _, err := db.Exec(idx); err != nil {
				return err
			}
		}

		return nil
	}, nil)
}
