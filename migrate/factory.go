package migrate

import (
	"github.com/easydom/relmigrate/schema"
)

// OperationFactory constructs migration operations from schema metadata.
// It resolves default names through the dialect's name generator and column
// attributes through its type mapper, and snapshots everything into value
// types: no operation holds a reference to live metadata.
type OperationFactory struct {
	types       TypeMapper
	names       schema.NameGenerator
	pkClustered bool
	ixClustered bool
}

func NewOperationFactory(d Dialect) *OperationFactory {
	return &OperationFactory{
		types:       d.TypeMapper(),
		names:       d.NameGenerator(),
		pkClustered: d.PrimaryKeysClusteredByDefault(),
		ixClustered: d.IndexesClusteredByDefault(),
	}
}

func (f *OperationFactory) Names() schema.NameGenerator { return f.names }

// ColumnDef snapshots a property into a column definition.
func (f *OperationFactory) ColumnDef(p *schema.Property) ColumnDef {
	return ColumnDef{
		Name:             f.names.ColumnName(p),
		StoreType:        f.types.StoreType(p),
		Kind:             p.Kind,
		Nullable:         p.Nullable,
		MaxLength:        p.MaxLength,
		Identity:         p.GeneratedOnAdd,
		Computed:         p.Computed,
		ConcurrencyToken: p.ConcurrencyToken,
		Default:          p.Default,
		DefaultSQL:       p.DefaultSQL,
	}
}

func (f *OperationFactory) PrimaryKeyDef(k *schema.Key) PrimaryKeyDef {
	return PrimaryKeyDef{
		Name:      f.names.KeyName(k),
		Columns:   f.columnNames(k.Properties),
		Clustered: f.pkClustered,
	}
}

func (f *OperationFactory) UniqueDef(k *schema.Key) UniqueDef {
	return UniqueDef{
		Name:    f.names.KeyName(k),
		Columns: f.columnNames(k.Properties),
	}
}

func (f *OperationFactory) ForeignKeyDef(fk *schema.ForeignKey) ForeignKeyDef {
	return ForeignKeyDef{
		Name:              f.names.ForeignKeyName(fk),
		Columns:           f.columnNames(fk.Properties),
		Referenced:        f.names.FullTableName(fk.ReferencedEntityType()),
		ReferencedColumns: f.columnNames(fk.ReferencedProperties()),
		OnDeleteCascade:   fk.OnDeleteCascade,
	}
}

func (f *OperationFactory) IndexDef(ix *schema.Index) IndexDef {
	return IndexDef{
		Name:      f.names.IndexName(ix),
		Columns:   f.columnNames(ix.Properties),
		Unique:    ix.Unique,
		Clustered: f.ixClustered,
	}
}

func (f *OperationFactory) SequenceDef(s *schema.Sequence) SequenceDef {
	return SequenceDef{
		Name:        f.names.FullSequenceName(s),
		StoreType:   f.types.StoreType(&schema.Property{Name: s.Name, Kind: s.Kind}),
		StartValue:  s.StartValue,
		IncrementBy: s.IncrementBy,
		MinValue:    s.MinValue,
		MaxValue:    s.MaxValue,
	}
}

//------------------------------------------------------------------------------

func (f *OperationFactory) CreateTable(e *schema.EntityType) *CreateTableOp {
	op := &CreateTableOp{Name: f.names.FullTableName(e)}
	for _, p := range e.Properties {
		op.Columns = append(op.Columns, f.ColumnDef(p))
	}
	if e.PrimaryKey != nil {
		pk := f.PrimaryKeyDef(e.PrimaryKey)
		op.PrimaryKey = &pk
	}
	for _, k := range e.Keys {
		op.UniqueConstraints = append(op.UniqueConstraints, f.UniqueDef(k))
	}
	for _, fk := range e.ForeignKeys {
		op.ForeignKeys = append(op.ForeignKeys, f.ForeignKeyDef(fk))
	}
	return op
}

func (f *OperationFactory) DropTable(e *schema.EntityType) *DropTableOp {
	return &DropTableOp{Name: f.names.FullTableName(e)}
}

func (f *OperationFactory) RenameTable(name schema.QualifiedName, newName string) *RenameTableOp {
	return &RenameTableOp{Name: name, NewName: newName}
}

func (f *OperationFactory) MoveTable(name schema.QualifiedName, newSchema string) *MoveTableOp {
	return &MoveTableOp{Name: name, NewSchema: newSchema}
}

func (f *OperationFactory) AddColumn(e *schema.EntityType, p *schema.Property) *AddColumnOp {
	return &AddColumnOp{Table: f.names.FullTableName(e), Column: f.ColumnDef(p)}
}

func (f *OperationFactory) DropColumn(e *schema.EntityType, column string) *DropColumnOp {
	return &DropColumnOp{Table: f.names.FullTableName(e), Name: column}
}

func (f *OperationFactory) AlterColumn(e *schema.EntityType, p *schema.Property) *AlterColumnOp {
	return &AlterColumnOp{Table: f.names.FullTableName(e), Column: f.ColumnDef(p)}
}

func (f *OperationFactory) RenameColumn(table schema.QualifiedName, oldName, newName string) *RenameColumnOp {
	return &RenameColumnOp{Table: table, Name: oldName, NewName: newName}
}

func (f *OperationFactory) AddPrimaryKey(k *schema.Key) *AddPrimaryKeyOp {
	return &AddPrimaryKeyOp{
		Table:      f.names.FullTableName(k.EntityType()),
		PrimaryKey: f.PrimaryKeyDef(k),
	}
}

func (f *OperationFactory) DropPrimaryKey(e *schema.EntityType, k *schema.Key) *DropPrimaryKeyOp {
	return &DropPrimaryKeyOp{Table: f.names.FullTableName(e), Name: f.names.KeyName(k)}
}

func (f *OperationFactory) AddUniqueConstraint(k *schema.Key) *AddUniqueConstraintOp {
	return &AddUniqueConstraintOp{
		Table:  f.names.FullTableName(k.EntityType()),
		Unique: f.UniqueDef(k),
	}
}

func (f *OperationFactory) DropUniqueConstraint(e *schema.EntityType, k *schema.Key) *DropUniqueConstraintOp {
	return &DropUniqueConstraintOp{Table: f.names.FullTableName(e), Name: f.names.KeyName(k)}
}

func (f *OperationFactory) AddForeignKey(fk *schema.ForeignKey) *AddForeignKeyOp {
	return &AddForeignKeyOp{
		Table:      f.names.FullTableName(fk.EntityType()),
		ForeignKey: f.ForeignKeyDef(fk),
	}
}

func (f *OperationFactory) DropForeignKey(e *schema.EntityType, fk *schema.ForeignKey) *DropForeignKeyOp {
	return &DropForeignKeyOp{Table: f.names.FullTableName(e), Name: f.names.ForeignKeyName(fk)}
}

func (f *OperationFactory) CreateIndex(ix *schema.Index) *CreateIndexOp {
	return &CreateIndexOp{
		Table: f.names.FullTableName(ix.EntityType()),
		Index: f.IndexDef(ix),
	}
}

func (f *OperationFactory) DropIndex(e *schema.EntityType, ix *schema.Index) *DropIndexOp {
	return &DropIndexOp{Table: f.names.FullTableName(e), Name: f.names.IndexName(ix)}
}

func (f *OperationFactory) RenameIndex(table schema.QualifiedName, oldName, newName string) *RenameIndexOp {
	return &RenameIndexOp{Table: table, Name: oldName, NewName: newName}
}

func (f *OperationFactory) CreateSequence(s *schema.Sequence) *CreateSequenceOp {
	return &CreateSequenceOp{Sequence: f.SequenceDef(s)}
}

func (f *OperationFactory) DropSequence(s *schema.Sequence) *DropSequenceOp {
	return &DropSequenceOp{Name: f.names.FullSequenceName(s)}
}

func (f *OperationFactory) AlterSequence(s *schema.Sequence) *AlterSequenceOp {
	return &AlterSequenceOp{Name: f.names.FullSequenceName(s), IncrementBy: s.IncrementBy}
}

func (f *OperationFactory) columnNames(props []*schema.Property) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = f.names.ColumnName(p)
	}
	return names
}
