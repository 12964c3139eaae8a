// Package sqlitedialect implements the SQLite migration dialect. SQLite
// cannot alter most table subordinates in place, so its pre-processor
// rewrites unsupported operations into a rebuild-table protocol before the
// generator ever sees them.
package sqlitedialect

import (
	"github.com/easydom/relmigrate/dialect"
	"github.com/easydom/relmigrate/dialect/feature"
	"github.com/easydom/relmigrate/migrate"
	"github.com/easydom/relmigrate/schema"
)

type Dialect struct {
	features feature.Feature
}

var _ migrate.Dialect = (*Dialect)(nil)

func New() *Dialect {
	return &Dialect{
		// SQLite has no schemas, sequences, or in-place subordinate DDL.
		features: 0,
	}
}

func (d *Dialect) Name() dialect.Name {
	return dialect.SQLite
}

func (d *Dialect) Features() feature.Feature {
	return d.features
}

func (d *Dialect) TypeMapper() migrate.TypeMapper {
	return typeMapper{}
}

func (d *Dialect) Preprocessor() migrate.Preprocessor {
	return &preprocessor{dialect: d}
}

func (d *Dialect) Generator() migrate.Generator {
	return newGenerator()
}

func (d *Dialect) NameGenerator() schema.NameGenerator {
	return schema.NameGenerator{}
}

func (d *Dialect) PrimaryKeysClusteredByDefault() bool {
	return false
}

func (d *Dialect) IndexesClusteredByDefault() bool {
	return false
}
