// Package relmigrate computes dialect-specific DDL that evolves one
// relational schema into another. The pipeline is pure: a differ pairs the
// two models and emits logical operations, a dialect pre-processor rewrites
// them into an executable plan, and a dialect generator renders each
// operation as a complete SQL statement.
package relmigrate

import (
	"context"

	"github.com/pkg/errors"

	"github.com/easydom/relmigrate/migrate"
	"github.com/easydom/relmigrate/schema"
)

// Generate returns the ordered SQL statements that migrate a database
// matching source to one matching target under the given dialect.
func Generate(source, target *schema.Model, d migrate.Dialect, opts ...migrate.DifferOption) ([]string, error) {
	return GenerateContext(context.Background(), source, target, d, opts...)
}

// GenerateContext is Generate with cooperative cancellation. The context is
// checked between pipeline stages only: once cancelled, no further
// operations are produced and the error is returned.
func GenerateContext(ctx context.Context, source, target *schema.Model, d migrate.Dialect, opts ...migrate.DifferOption) ([]string, error) {
	ops := migrate.NewDiffer(d, opts...).Diff(source, target)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ops, err := d.Preprocessor().Process(ops, source, target)
	if err != nil {
		return nil, errors.Wrapf(err, "preprocess %s migration", d.Name())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return d.Generator().Generate(ops)
}

// GeneratePlan wraps the generated statements in a Plan with a content
// checksum.
func GeneratePlan(source, target *schema.Model, d migrate.Dialect, opts ...migrate.DifferOption) (*migrate.Plan, error) {
	statements, err := Generate(source, target, d, opts...)
	if err != nil {
		return nil, err
	}
	return migrate.NewPlan(statements), nil
}
