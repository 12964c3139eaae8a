// Package mssqldialect implements the SQL Server migration dialect: type
// mapping, a pass-through operation pre-processor, and the SQL generator.
package mssqldialect

import (
	"github.com/easydom/relmigrate/dialect"
	"github.com/easydom/relmigrate/dialect/feature"
	"github.com/easydom/relmigrate/migrate"
	"github.com/easydom/relmigrate/schema"
)

type Dialect struct {
	features feature.Feature
	types    *typeMapper
}

var _ migrate.Dialect = (*Dialect)(nil)

func New(opts ...DialectOption) *Dialect {
	d := new(Dialect)
	d.features = feature.Databases |
		feature.Sequences |
		feature.Schemas |
		feature.AlterColumn |
		feature.DropColumn |
		feature.RenameColumn |
		feature.RenameIndex |
		feature.AlterConstraints |
		feature.DefaultConstraints
	d.types = newTypeMapper()

	for _, opt := range opts {
		opt(d)
	}
	return d
}

type DialectOption func(d *Dialect)

func WithoutFeature(other feature.Feature) DialectOption {
	return func(d *Dialect) {
		d.features = d.features.Remove(other)
	}
}

func (d *Dialect) Name() dialect.Name {
	return dialect.SQLServer
}

func (d *Dialect) Features() feature.Feature {
	return d.features
}

func (d *Dialect) TypeMapper() migrate.TypeMapper {
	return d.types
}

func (d *Dialect) Preprocessor() migrate.Preprocessor {
	return preprocessor{}
}

func (d *Dialect) Generator() migrate.Generator {
	return newGenerator(d.features)
}

func (d *Dialect) NameGenerator() schema.NameGenerator {
	return schema.NameGenerator{DefaultSchema: d.DefaultSchema()}
}

func (d *Dialect) DefaultSchema() string {
	return "dbo"
}

// PrimaryKeysClusteredByDefault is false: primary keys are emitted
// NONCLUSTERED unless the operation says otherwise.
func (d *Dialect) PrimaryKeysClusteredByDefault() bool {
	return false
}

func (d *Dialect) IndexesClusteredByDefault() bool {
	return false
}

// preprocessor passes the logical operation stream through unchanged: SQL
// Server can express every operation in place.
type preprocessor struct{}

var _ migrate.Preprocessor = preprocessor{}

func (preprocessor) Process(ops []migrate.Operation, source, target *schema.Model) ([]migrate.Operation, error) {
	return ops, nil
}
