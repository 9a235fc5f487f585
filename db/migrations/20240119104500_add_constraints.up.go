package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- an edge points at exactly one target and never at itself
				ALTER TABLE relationships
				ADD CONSTRAINT check_single_target
				CHECK ((to_entity_id IS NULL) != (to_organization_id IS NULL));
				ALTER TABLE relationships
				ADD CONSTRAINT check_not_self_edge
				CHECK (to_entity_id IS NULL OR from_entity_id != to_entity_id);

			-- transaction status values are a closed set
				ALTER TABLE transactions
				ADD CONSTRAINT check_transaction_status
				CHECK (status IN ('draft', 'completed', 'posted', 'void'));

			-- dynamic field types are a closed set
				ALTER TABLE dynamic_data
				ADD CONSTRAINT check_field_type
				CHECK (field_type IN ('text', 'number', 'boolean', 'date', 'datetime', 'json'));

			-- make sure transaction lines stay under their header's tenant
				CREATE OR REPLACE FUNCTION check_line_tenant()
					RETURNS TRIGGER AS $$
				DECLARE
					header_org UUID;
				BEGIN
					SELECT INTO header_org organization_id
					FROM transactions
					WHERE id = NEW.transaction_id;

					IF header_org IS NULL OR header_org != NEW.organization_id
					THEN
						RAISE EXCEPTION 'line tenant mismatch [transaction_id:%] [organization_id:%]',
						NEW.transaction_id,
						NEW.organization_id;
					END IF;
					RETURN NEW;
				END;
				$$ LANGUAGE plpgsql;
				CREATE TRIGGER check_line_tenant
				BEFORE INSERT OR UPDATE ON transaction_lines
				FOR EACH ROW EXECUTE PROCEDURE check_line_tenant();
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
