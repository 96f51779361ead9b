package deletion

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthgate/healthgate/internal/domain/permtype"
)

// GatewayPG implements StoreGateway against the fitness_record and
// medical_resource tables. Contribution history rows covered by a delete's
// scope are removed in the same transaction, so the access classifier stops
// reporting apps whose data is gone.
type GatewayPG struct{ pool *pgxpool.Pool }

func NewGatewayPG(pool *pgxpool.Pool) *GatewayPG {
	return &GatewayPG{pool: pool}
}

func (g *GatewayPG) DeleteFitnessRecords(ctx context.Context, recordTypes []permtype.FitnessType, packageName string) error {
	if len(recordTypes) == 0 {
		return fmt.Errorf("%w: no fitness record types", ErrEmptySelection)
	}
	names := make([]string, len(recordTypes))
	for i, t := range recordTypes {
		names[i] = string(t)
	}

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	recordsQ := `DELETE FROM fitness_record WHERE record_type = ANY($1)`
	contribQ := `DELETE FROM fitness_contribution WHERE record_type = ANY($1)`
	args := []interface{}{names}
	if packageName != "" {
		recordsQ += ` AND package_name = $2`
		contribQ += ` AND package_name = $2`
		args = append(args, packageName)
	}
	if _, err := tx.Exec(ctx, recordsQ, args...); err != nil {
		return fmt.Errorf("delete fitness records: %w", err)
	}
	if _, err := tx.Exec(ctx, contribQ, args...); err != nil {
		return fmt.Errorf("delete fitness contributions: %w", err)
	}
	return tx.Commit(ctx)
}

func (g *GatewayPG) DeleteMedicalResources(ctx context.Context, resourceTypes []string, dataSourceIDs []uuid.UUID) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var conds []string
	var args []interface{}
	if len(resourceTypes) > 0 {
		args = append(args, resourceTypes)
		conds = append(conds, fmt.Sprintf("fhir_resource_type = ANY($%d)", len(args)))
	}
	if len(dataSourceIDs) > 0 {
		args = append(args, dataSourceIDs)
		conds = append(conds, fmt.Sprintf("data_source_id = ANY($%d)", len(args)))
	}
	q := `DELETE FROM medical_resource`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	if _, err := tx.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("delete medical resources: %w", err)
	}

	if err := g.pruneMedicalContributions(ctx, tx, resourceTypes, dataSourceIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// pruneMedicalContributions drops contribution history matching the scope of
// a resource delete: the types implied by the resource-type filter (or every
// concrete type when unrestricted), narrowed to the apps owning the filtered
// data sources when a source filter is present.
func (g *GatewayPG) pruneMedicalContributions(ctx context.Context, tx pgx.Tx, resourceTypes []string, dataSourceIDs []uuid.UUID) error {
	var medTypes []string
	if len(resourceTypes) == 0 {
		for _, mt := range permtype.ConcreteMedicalTypes() {
			medTypes = append(medTypes, string(mt))
		}
	} else {
		for _, rt := range resourceTypes {
			mt, ok := permtype.MedicalTypeForResource(rt)
			if !ok {
				return fmt.Errorf("%w: unknown FHIR resource type %q", ErrUnsupportedRequest, rt)
			}
			medTypes = append(medTypes, string(mt))
		}
	}

	q := `DELETE FROM medical_contribution WHERE medical_type = ANY($1)`
	args := []any{medTypes}
	if len(dataSourceIDs) > 0 {
		q += ` AND package_name IN (SELECT package_name FROM medical_data_source WHERE id = ANY($2))`
		args = append(args, dataSourceIDs)
	}
	if _, err := tx.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("delete medical contributions: %w", err)
	}
	return nil
}

func (g *GatewayPG) DeleteFitnessEntries(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := g.pool.Exec(ctx, `DELETE FROM fitness_record WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete fitness entries: %w", err)
	}
	return nil
}

func (g *GatewayPG) DeleteMedicalEntries(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := g.pool.Exec(ctx, `DELETE FROM medical_resource WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete medical entries: %w", err)
	}
	return nil
}

func (g *GatewayPG) DeleteAppData(ctx context.Context, packageName string) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmts := []string{
		`DELETE FROM fitness_record WHERE package_name = $1`,
		`DELETE FROM fitness_contribution WHERE package_name = $1`,
		`DELETE FROM medical_resource WHERE data_source_id IN
			(SELECT id FROM medical_data_source WHERE package_name = $1)`,
		`DELETE FROM medical_contribution WHERE package_name = $1`,
		`DELETE FROM medical_data_source WHERE package_name = $1`,
	}
	for _, q := range stmts {
		if _, err := tx.Exec(ctx, q, packageName); err != nil {
			return fmt.Errorf("delete app data: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (g *GatewayPG) DeleteAllData(ctx context.Context) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmts := []string{
		`DELETE FROM fitness_record`,
		`DELETE FROM fitness_contribution`,
		`DELETE FROM medical_resource`,
		`DELETE FROM medical_contribution`,
		`DELETE FROM medical_data_source`,
	}
	for _, q := range stmts {
		if _, err := tx.Exec(ctx, q); err != nil {
			return fmt.Errorf("delete all data: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (g *GatewayPG) MedicalDataSources(ctx context.Context, packageName string) ([]uuid.UUID, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT id FROM medical_data_source WHERE package_name = $1`, packageName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
