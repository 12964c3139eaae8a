package schema

import (
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/easydom/relmigrate/internal"
)

// NameGenerator derives canonical relational names from schema metadata.
// Explicit names always win; otherwise a convention-based name is
// synthesized. All functions are pure.
type NameGenerator struct {
	// DefaultSchema is the dialect's default schema, applied when the
	// metadata supplies none. Empty for dialects without schemas.
	DefaultSchema string
}

func (g NameGenerator) TableName(e *EntityType) string {
	if e.Table != "" {
		return e.Table
	}
	return inflection.Plural(internal.Underscore(e.Name))
}

func (g NameGenerator) TableSchema(e *EntityType) string {
	if e.Schema != "" {
		return e.Schema
	}
	return g.DefaultSchema
}

func (g NameGenerator) FullTableName(e *EntityType) QualifiedName {
	return QualifiedName{Schema: g.TableSchema(e), Name: g.TableName(e)}
}

func (g NameGenerator) ColumnName(p *Property) string {
	if p.Column != "" {
		return p.Column
	}
	return p.Name
}

// KeyName returns PK_<Table> for primary keys and AK_<Table>_<Cols> for
// alternate keys.
func (g NameGenerator) KeyName(k *Key) string {
	if k.Name != "" {
		return k.Name
	}
	table := g.TableName(k.EntityType())
	if k.IsPrimary() {
		return "PK_" + table
	}
	return "AK_" + table + "_" + g.columnList(k.Properties)
}

func (g NameGenerator) ForeignKeyName(fk *ForeignKey) string {
	if fk.Name != "" {
		return fk.Name
	}
	return "FK_" + g.TableName(fk.EntityType()) +
		"_" + g.TableName(fk.ReferencedEntityType()) +
		"_" + g.columnList(fk.Properties)
}

func (g NameGenerator) IndexName(ix *Index) string {
	if ix.Name != "" {
		return ix.Name
	}
	return "IX_" + g.TableName(ix.EntityType()) + "_" + g.columnList(ix.Properties)
}

func (g NameGenerator) SequenceName(s *Sequence) string {
	return s.Name
}

func (g NameGenerator) SequenceSchema(s *Sequence) string {
	if s.Schema != "" {
		return s.Schema
	}
	return g.DefaultSchema
}

func (g NameGenerator) FullSequenceName(s *Sequence) QualifiedName {
	return QualifiedName{Schema: g.SequenceSchema(s), Name: g.SequenceName(s)}
}

func (g NameGenerator) columnList(props []*Property) string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = g.ColumnName(p)
	}
	return strings.Join(names, "_")
}
