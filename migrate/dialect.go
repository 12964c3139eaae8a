package migrate

import (
	"github.com/easydom/relmigrate/dialect"
	"github.com/easydom/relmigrate/dialect/feature"
	"github.com/easydom/relmigrate/schema"
)

// TypeMapper resolves a property's storage type for one dialect. An explicit
// Property.ColumnType always wins; otherwise the mapping must be total over
// kind x (key role, concurrency role).
type TypeMapper interface {
	StoreType(p *schema.Property) string
}

// Preprocessor rewrites a logical operation sequence into a dialect-legal
// execution plan. The source and target models are available for dialects
// that must synthesize operations (e.g. a table rebuild).
type Preprocessor interface {
	Process(ops []Operation, source, target *schema.Model) ([]Operation, error)
}

// Generator renders operations to dialect SQL text, one complete statement
// per operation.
type Generator interface {
	Generate(ops []Operation) ([]string, error)
}

// Dialect bundles everything the migration pipeline needs to know about one
// database flavor.
type Dialect interface {
	Name() dialect.Name
	Features() feature.Feature

	TypeMapper() TypeMapper
	Preprocessor() Preprocessor
	Generator() Generator

	// NameGenerator carries the dialect's default schema.
	NameGenerator() schema.NameGenerator

	// PrimaryKeysClusteredByDefault and IndexesClusteredByDefault contribute
	// the dialect's clustering defaults to newly built operations.
	PrimaryKeysClusteredByDefault() bool
	IndexesClusteredByDefault() bool
}
