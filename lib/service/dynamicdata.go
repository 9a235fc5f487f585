package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heraerp/heracore/common"
	"github.com/heraerp/heracore/db/models"
	"github.com/heraerp/heracore/lib/smartcode"
	"github.com/uptrace/bun"
)

// reservedFieldNames are lifecycle markers that must never live in
// dynamic_data. Lifecycle state is modeled as a has_status relationship to a
// status entity.
var reservedFieldNames = map[string]bool{
	"status":          true,
	"state":           true,
	"workflow_state":  true,
	"lifecycle_state": true,
}

const fieldPlacementRemediation = "model it as a has_status relationship to a status entity instead of a dynamic field"

// CheckFieldPlacement rejects dynamic field names that carry status/lifecycle
// semantics.
func CheckFieldPlacement(fieldName string) error {
	name := strings.ToLower(fieldName)
	if reservedFieldNames[name] || strings.HasSuffix(name, "_status") {
		return &FieldPolicyError{FieldName: fieldName, Remediation: fieldPlacementRemediation}
	}
	return nil
}

type DynamicFieldInput struct {
	FieldName string      `json:"field_name" validate:"required"`
	FieldType string      `json:"field_type" validate:"required"`
	Value     interface{} `json:"value"`
	SmartCode string      `json:"smart_code" validate:"required"`
}

func buildDynamicRows(organizationID, entityID uuid.UUID, inputs []DynamicFieldInput) ([]*models.DynamicData, error) {
	rows := make([]*models.DynamicData, 0, len(inputs))
	for _, in := range inputs {
		if err := CheckFieldPlacement(in.FieldName); err != nil {
			return nil, err
		}
		if err := smartcode.Validate(in.SmartCode); err != nil {
			return nil, err
		}
		if !common.ValidFieldTypes[in.FieldType] {
			return nil, &InvariantViolationError{Rule: "field-type", Message: fmt.Sprintf("unknown field type %q for field %q", in.FieldType, in.FieldName)}
		}
		row := &models.DynamicData{
			OrganizationID: organizationID,
			EntityID:       entityID,
			FieldName:      in.FieldName,
			FieldType:      in.FieldType,
			SmartCode:      in.SmartCode,
		}
		if err := setTypedValue(row, in.Value); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func setTypedValue(row *models.DynamicData, value interface{}) error {
	badValue := func() error {
		return &InvariantViolationError{Rule: "field-value", Message: fmt.Sprintf("value for field %q does not match declared type %q", row.FieldName, row.FieldType)}
	}
	switch row.FieldType {
	case common.FieldTypeText:
		s, ok := value.(string)
		if !ok {
			return badValue()
		}
		row.ValueText = &s
	case common.FieldTypeNumber:
		switch n := value.(type) {
		case float64:
			row.ValueNumber = &n
		case int:
			f := float64(n)
			row.ValueNumber = &f
		case int64:
			f := float64(n)
			row.ValueNumber = &f
		default:
			return badValue()
		}
	case common.FieldTypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return badValue()
		}
		row.ValueBoolean = &b
	case common.FieldTypeDate, common.FieldTypeDateTime:
		switch v := value.(type) {
		case time.Time:
			row.ValueDate = &v
		case string:
			t, err := parseDateValue(v)
			if err != nil {
				return badValue()
			}
			row.ValueDate = &t
		default:
			return badValue()
		}
	case common.FieldTypeJSON:
		raw, err := json.Marshal(value)
		if err != nil {
			return badValue()
		}
		row.ValueJSON = raw
	}
	return nil
}

func parseDateValue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// typedValue selects the value from whichever typed column is populated
// according to field_type. Dates come back as RFC3339 strings so that both
// hydration paths produce identical shapes.
func typedValue(row *models.DynamicData) interface{} {
	switch row.FieldType {
	case common.FieldTypeText:
		if row.ValueText != nil {
			return *row.ValueText
		}
	case common.FieldTypeNumber:
		if row.ValueNumber != nil {
			return *row.ValueNumber
		}
	case common.FieldTypeBoolean:
		if row.ValueBoolean != nil {
			return *row.ValueBoolean
		}
	case common.FieldTypeDate, common.FieldTypeDateTime:
		if row.ValueDate != nil {
			return row.ValueDate.UTC().Format(time.RFC3339)
		}
	case common.FieldTypeJSON:
		if len(row.ValueJSON) > 0 {
			var decoded interface{}
			if err := json.Unmarshal(row.ValueJSON, &decoded); err == nil {
				return decoded
			}
		}
	}
	return nil
}

// mergeFieldMap copies src entries into dst without overwriting keys that are
// already present (first-writer-wins across hydration paths).
func mergeFieldMap(dst, src map[string]interface{}) {
	for name, value := range src {
		if _, exists := dst[name]; exists {
			continue
		}
		if value == nil {
			continue
		}
		dst[name] = value
	}
}

// SetDynamicFields upserts a batch of typed fields for one entity. The whole
// batch is validated before the first write and applied in one unit of work.
func (svc *HeraService) SetDynamicFields(ctx context.Context, organizationID, actorID, entityID uuid.UUID, fields []DynamicFieldInput) ([]*models.DynamicData, error) {
	if err := svc.requireScope(organizationID, actorID); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, &InvariantViolationError{Rule: "dynamic-data", Message: "at least one field is required"}
	}
	if _, err := svc.FindEntity(ctx, organizationID, entityID); err != nil {
		return nil, err
	}
	rows, err := buildDynamicRows(organizationID, entityID, fields)
	if err != nil {
		return nil, err
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, row := range rows {
			_, err := tx.NewInsert().Model(row).
				On("CONFLICT (organization_id, entity_id, field_name) DO UPDATE").
				Set("field_type = EXCLUDED.field_type").
				Set("value_text = EXCLUDED.value_text").
				Set("value_number = EXCLUDED.value_number").
				Set("value_boolean = EXCLUDED.value_boolean").
				Set("value_date = EXCLUDED.value_date").
				Set("value_json = EXCLUDED.value_json").
				Set("smart_code = EXCLUDED.smart_code").
				Set("updated_at = now()").
				Exec(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type HydrateOptions struct {
	// SmartCodePrefix filters rows whose smart code starts with the prefix.
	SmartCodePrefix string
	// FieldNames restricts hydration to an explicit field list.
	FieldNames []string
	// IncludeCredentials exposes rows under the credential smart code
	// prefix. Only the authentication flow sets it.
	IncludeCredentials bool
}

type hydrationAggRow struct {
	EntityID uuid.UUID       `bun:"entity_id"`
	Fields   json.RawMessage `bun:"fields"`
}

// HydrateDynamicFields reconstructs the per-entity field map for a set of
// entities. Every input id gets an entry, entities without rows yield an
// empty map. The primary path aggregates in the database; if that returns
// nothing or errors, a plain row scan fills in whatever the aggregation
// missed, never overwriting values the primary path already produced.
func (svc *HeraService) HydrateDynamicFields(ctx context.Context, organizationID uuid.UUID, entityIDs []uuid.UUID, opts HydrateOptions) (map[uuid.UUID]map[string]interface{}, error) {
	if err := svc.requireOrganization(organizationID); err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID]map[string]interface{}, len(entityIDs))
	for _, id := range entityIDs {
		result[id] = map[string]interface{}{}
	}
	if len(entityIDs) == 0 {
		return result, nil
	}

	aggRows := []hydrationAggRow{}
	query := svc.DB.NewSelect().
		Model((*models.DynamicData)(nil)).
		ColumnExpr("entity_id").
		ColumnExpr(`jsonb_object_agg(field_name, CASE field_type
			WHEN 'text' THEN to_jsonb(value_text)
			WHEN 'number' THEN to_jsonb(value_number)
			WHEN 'boolean' THEN to_jsonb(value_boolean)
			WHEN 'date' THEN to_jsonb(to_char(value_date AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"'))
			WHEN 'datetime' THEN to_jsonb(to_char(value_date AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"'))
			ELSE value_json END) AS fields`).
		Where("organization_id = ?", organizationID).
		Where("entity_id IN (?)", bun.In(entityIDs)).
		GroupExpr("entity_id")
	applyHydrateFilters(query, opts)
	aggErr := query.Scan(ctx, &aggRows)
	if aggErr == nil {
		for _, row := range aggRows {
			fields := map[string]interface{}{}
			if err := json.Unmarshal(row.Fields, &fields); err != nil {
				continue
			}
			mergeFieldMap(result[row.EntityID], fields)
		}
	}

	if aggErr != nil || len(aggRows) == 0 {
		// degraded path: direct per-row scan
		if aggErr != nil {
			svc.Logger.Errorf("Dynamic data aggregation failed, falling back to row scan: %v", aggErr)
		}
		rows := []models.DynamicData{}
		fallback := svc.DB.NewSelect().Model(&rows).
			Where("organization_id = ?", organizationID).
			Where("entity_id IN (?)", bun.In(entityIDs))
		applyHydrateFilters(fallback, opts)
		if err := fallback.Scan(ctx); err != nil {
			return nil, err
		}
		for i := range rows {
			value := typedValue(&rows[i])
			if value == nil {
				continue
			}
			mergeFieldMap(result[rows[i].EntityID], map[string]interface{}{rows[i].FieldName: value})
		}
	}

	return result, nil
}

func applyHydrateFilters(query *bun.SelectQuery, opts HydrateOptions) {
	if opts.SmartCodePrefix != "" {
		query.Where("smart_code LIKE ?", opts.SmartCodePrefix+"%")
	}
	if len(opts.FieldNames) > 0 {
		query.Where("field_name IN (?)", bun.In(opts.FieldNames))
	}
	if !opts.IncludeCredentials {
		query.Where("smart_code NOT LIKE ?", common.SmartCodeUserFieldPrefix+"%")
	}
}

// GetDynamicFields returns the raw typed rows for one entity. Credential
// rows are never included.
func (svc *HeraService) GetDynamicFields(ctx context.Context, organizationID, entityID uuid.UUID) ([]models.DynamicData, error) {
	if err := svc.requireOrganization(organizationID); err != nil {
		return nil, err
	}
	rows := []models.DynamicData{}
	err := svc.DB.NewSelect().Model(&rows).
		Where("organization_id = ? AND entity_id = ?", organizationID, entityID).
		Where("smart_code NOT LIKE ?", common.SmartCodeUserFieldPrefix+"%").
		OrderExpr("field_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
