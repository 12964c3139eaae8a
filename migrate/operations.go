package migrate

import (
	"github.com/easydom/relmigrate/schema"
)

// OperationKind tags a migration operation. The zero value is invalid.
type OperationKind int

const (
	KindInvalid OperationKind = iota
	KindCreateDatabase
	KindDropDatabase
	KindMoveSequence
	KindRenameSequence
	KindCreateSequence
	KindDropSequence
	KindAlterSequence
	KindMoveTable
	KindRenameTable
	KindCreateTable
	KindDropTable
	KindRenameColumn
	KindAddColumn
	KindDropColumn
	KindAlterColumn
	KindAddDefaultConstraint
	KindDropDefaultConstraint
	KindDropPrimaryKey
	KindAddPrimaryKey
	KindAddUniqueConstraint
	KindDropUniqueConstraint
	KindAddForeignKey
	KindDropForeignKey
	KindRenameIndex
	KindCreateIndex
	KindDropIndex
	KindCopyData
)

var kindNames = map[OperationKind]string{
	KindCreateDatabase:        "CreateDatabase",
	KindDropDatabase:          "DropDatabase",
	KindMoveSequence:          "MoveSequence",
	KindRenameSequence:        "RenameSequence",
	KindCreateSequence:        "CreateSequence",
	KindDropSequence:          "DropSequence",
	KindAlterSequence:         "AlterSequence",
	KindMoveTable:             "MoveTable",
	KindRenameTable:           "RenameTable",
	KindCreateTable:           "CreateTable",
	KindDropTable:             "DropTable",
	KindRenameColumn:          "RenameColumn",
	KindAddColumn:             "AddColumn",
	KindDropColumn:            "DropColumn",
	KindAlterColumn:           "AlterColumn",
	KindAddDefaultConstraint:  "AddDefaultConstraint",
	KindDropDefaultConstraint: "DropDefaultConstraint",
	KindDropPrimaryKey:        "DropPrimaryKey",
	KindAddPrimaryKey:         "AddPrimaryKey",
	KindAddUniqueConstraint:   "AddUniqueConstraint",
	KindDropUniqueConstraint:  "DropUniqueConstraint",
	KindAddForeignKey:         "AddForeignKey",
	KindDropForeignKey:        "DropForeignKey",
	KindRenameIndex:           "RenameIndex",
	KindCreateIndex:           "CreateIndex",
	KindDropIndex:             "DropIndex",
	KindCopyData:              "CopyData",
}

func (k OperationKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Invalid"
}

// Operation is a single migration instruction. Operations are value-typed
// and immutable once constructed: they carry snapshotted names and literals,
// never live schema metadata.
type Operation interface {
	Kind() OperationKind
}

//------------------------------------------------------------------------------
// Shared DDL value model.

// ColumnDef is a column snapshot sufficient to re-render the column clause.
type ColumnDef struct {
	Name             string
	StoreType        string
	Kind             schema.Kind
	Nullable         bool
	MaxLength        int
	Identity         bool // value generated on add
	Computed         bool
	ConcurrencyToken bool
	Default          any
	DefaultSQL       string
}

type PrimaryKeyDef struct {
	Name      string
	Columns   []string
	Clustered bool
}

type UniqueDef struct {
	Name    string
	Columns []string
}

type ForeignKeyDef struct {
	Name              string
	Columns           []string
	Referenced        schema.QualifiedName
	ReferencedColumns []string
	OnDeleteCascade   bool
}

type IndexDef struct {
	Name      string
	Columns   []string
	Unique    bool
	Clustered bool
}

type SequenceDef struct {
	Name        schema.QualifiedName
	StoreType   string
	StartValue  int64
	IncrementBy int64
	MinValue    *int64
	MaxValue    *int64
}

//------------------------------------------------------------------------------
// Database operations.

type CreateDatabaseOp struct {
	Name string
}

var _ Operation = (*CreateDatabaseOp)(nil)

func (op *CreateDatabaseOp) Kind() OperationKind { return KindCreateDatabase }

type DropDatabaseOp struct {
	Name string
}

var _ Operation = (*DropDatabaseOp)(nil)

func (op *DropDatabaseOp) Kind() OperationKind { return KindDropDatabase }

//------------------------------------------------------------------------------
// Sequence operations.

type CreateSequenceOp struct {
	Sequence SequenceDef
}

var _ Operation = (*CreateSequenceOp)(nil)

func (op *CreateSequenceOp) Kind() OperationKind { return KindCreateSequence }

type DropSequenceOp struct {
	Name schema.QualifiedName
}

var _ Operation = (*DropSequenceOp)(nil)

func (op *DropSequenceOp) Kind() OperationKind { return KindDropSequence }

type MoveSequenceOp struct {
	Name      schema.QualifiedName
	NewSchema string
}

var _ Operation = (*MoveSequenceOp)(nil)

func (op *MoveSequenceOp) Kind() OperationKind { return KindMoveSequence }

type RenameSequenceOp struct {
	Name    schema.QualifiedName
	NewName string
}

var _ Operation = (*RenameSequenceOp)(nil)

func (op *RenameSequenceOp) Kind() OperationKind { return KindRenameSequence }

type AlterSequenceOp struct {
	Name        schema.QualifiedName
	IncrementBy int64
}

var _ Operation = (*AlterSequenceOp)(nil)

func (op *AlterSequenceOp) Kind() OperationKind { return KindAlterSequence }

//------------------------------------------------------------------------------
// Table operations.

type CreateTableOp struct {
	Name              schema.QualifiedName
	Columns           []ColumnDef
	PrimaryKey        *PrimaryKeyDef
	UniqueConstraints []UniqueDef
	ForeignKeys       []ForeignKeyDef
}

var _ Operation = (*CreateTableOp)(nil)

func (op *CreateTableOp) Kind() OperationKind { return KindCreateTable }

// Column returns the column definition with the given name, or nil.
func (op *CreateTableOp) Column(name string) *ColumnDef {
	for i := range op.Columns {
		if op.Columns[i].Name == name {
			return &op.Columns[i]
		}
	}
	return nil
}

type DropTableOp struct {
	Name schema.QualifiedName
}

var _ Operation = (*DropTableOp)(nil)

func (op *DropTableOp) Kind() OperationKind { return KindDropTable }

type RenameTableOp struct {
	Name    schema.QualifiedName
	NewName string
}

var _ Operation = (*RenameTableOp)(nil)

func (op *RenameTableOp) Kind() OperationKind { return KindRenameTable }

type MoveTableOp struct {
	Name      schema.QualifiedName
	NewSchema string
}

var _ Operation = (*MoveTableOp)(nil)

func (op *MoveTableOp) Kind() OperationKind { return KindMoveTable }

//------------------------------------------------------------------------------
// Column operations.

type AddColumnOp struct {
	Table  schema.QualifiedName
	Column ColumnDef
}

var _ Operation = (*AddColumnOp)(nil)

func (op *AddColumnOp) Kind() OperationKind { return KindAddColumn }

type DropColumnOp struct {
	Table schema.QualifiedName
	Name  string
}

var _ Operation = (*DropColumnOp)(nil)

func (op *DropColumnOp) Kind() OperationKind { return KindDropColumn }

type AlterColumnOp struct {
	Table  schema.QualifiedName
	Column ColumnDef
}

var _ Operation = (*AlterColumnOp)(nil)

func (op *AlterColumnOp) Kind() OperationKind { return KindAlterColumn }

type RenameColumnOp struct {
	Table   schema.QualifiedName
	Name    string
	NewName string
}

var _ Operation = (*RenameColumnOp)(nil)

func (op *RenameColumnOp) Kind() OperationKind { return KindRenameColumn }

type AddDefaultConstraintOp struct {
	Table      schema.QualifiedName
	Column     string
	Default    any
	DefaultSQL string
}

var _ Operation = (*AddDefaultConstraintOp)(nil)

func (op *AddDefaultConstraintOp) Kind() OperationKind { return KindAddDefaultConstraint }

type DropDefaultConstraintOp struct {
	Table  schema.QualifiedName
	Column string
}

var _ Operation = (*DropDefaultConstraintOp)(nil)

func (op *DropDefaultConstraintOp) Kind() OperationKind { return KindDropDefaultConstraint }

//------------------------------------------------------------------------------
// Key and constraint operations.

type AddPrimaryKeyOp struct {
	Table      schema.QualifiedName
	PrimaryKey PrimaryKeyDef
}

var _ Operation = (*AddPrimaryKeyOp)(nil)

func (op *AddPrimaryKeyOp) Kind() OperationKind { return KindAddPrimaryKey }

type DropPrimaryKeyOp struct {
	Table schema.QualifiedName
	Name  string
}

var _ Operation = (*DropPrimaryKeyOp)(nil)

func (op *DropPrimaryKeyOp) Kind() OperationKind { return KindDropPrimaryKey }

type AddUniqueConstraintOp struct {
	Table  schema.QualifiedName
	Unique UniqueDef
}

var _ Operation = (*AddUniqueConstraintOp)(nil)

func (op *AddUniqueConstraintOp) Kind() OperationKind { return KindAddUniqueConstraint }

type DropUniqueConstraintOp struct {
	Table schema.QualifiedName
	Name  string
}

var _ Operation = (*DropUniqueConstraintOp)(nil)

func (op *DropUniqueConstraintOp) Kind() OperationKind { return KindDropUniqueConstraint }

type AddForeignKeyOp struct {
	Table      schema.QualifiedName
	ForeignKey ForeignKeyDef
}

var _ Operation = (*AddForeignKeyOp)(nil)

func (op *AddForeignKeyOp) Kind() OperationKind { return KindAddForeignKey }

type DropForeignKeyOp struct {
	Table schema.QualifiedName
	Name  string
}

var _ Operation = (*DropForeignKeyOp)(nil)

func (op *DropForeignKeyOp) Kind() OperationKind { return KindDropForeignKey }

//------------------------------------------------------------------------------
// Index operations.

type CreateIndexOp struct {
	Table schema.QualifiedName
	Index IndexDef
}

var _ Operation = (*CreateIndexOp)(nil)

func (op *CreateIndexOp) Kind() OperationKind { return KindCreateIndex }

type DropIndexOp struct {
	Table schema.QualifiedName
	Name  string
}

var _ Operation = (*DropIndexOp)(nil)

func (op *DropIndexOp) Kind() OperationKind { return KindDropIndex }

type RenameIndexOp struct {
	Table   schema.QualifiedName
	Name    string
	NewName string
}

var _ Operation = (*RenameIndexOp)(nil)

func (op *RenameIndexOp) Kind() OperationKind { return KindRenameIndex }

//------------------------------------------------------------------------------
// Data movement. Emitted only by pre-processors that rebuild tables.

type CopyDataOp struct {
	Source        schema.QualifiedName
	SourceColumns []string
	Target        schema.QualifiedName
	TargetColumns []string
}

var _ Operation = (*CopyDataOp)(nil)

func (op *CopyDataOp) Kind() OperationKind { return KindCopyData }
