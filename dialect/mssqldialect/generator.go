package mssqldialect

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/easydom/relmigrate/dialect"
	"github.com/easydom/relmigrate/dialect/feature"
	"github.com/easydom/relmigrate/migrate"
	"github.com/easydom/relmigrate/schema"
	"github.com/easydom/relmigrate/sqlfmt"
)

// generator renders operations as T-SQL. One statement per operation; the
// DropDefaultConstraint lookup block counts as a single statement.
type generator struct {
	features feature.Feature
	quoter   sqlfmt.Quoter
}

var _ migrate.Generator = (*generator)(nil)

func newGenerator(features feature.Feature) *generator {
	return &generator{
		features: features,
		quoter:   sqlfmt.Quoter{Open: '[', Close: ']'},
	}
}

func (g *generator) Generate(ops []migrate.Operation) ([]string, error) {
	statements := make([]string, 0, len(ops))
	for _, op := range ops {
		stmt, err := g.generate(op)
		if err != nil {
			return nil, errors.Wrap(err, "generate sqlserver migration")
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (g *generator) generate(op migrate.Operation) (string, error) {
	switch op := op.(type) {
	case *migrate.CreateDatabaseOp:
		if !g.features.Has(feature.Databases) {
			return "", g.unsupported(op)
		}
		return "CREATE DATABASE " + g.quoter.Ident(op.Name), nil

	case *migrate.DropDatabaseOp:
		if !g.features.Has(feature.Databases) {
			return "", g.unsupported(op)
		}
		return "DROP DATABASE " + g.quoter.Ident(op.Name), nil

	case *migrate.CreateSequenceOp:
		if !g.features.Has(feature.Sequences) {
			return "", g.unsupported(op)
		}
		b := append([]byte("CREATE SEQUENCE "), g.appendName(nil, op.Sequence.Name)...)
		b = append(b, " AS "...)
		b = append(b, op.Sequence.StoreType...)
		b = append(b, " START WITH "...)
		b = strconv.AppendInt(b, op.Sequence.StartValue, 10)
		b = append(b, " INCREMENT BY "...)
		b = strconv.AppendInt(b, op.Sequence.IncrementBy, 10)
		if op.Sequence.MinValue != nil {
			b = append(b, " MINVALUE "...)
			b = strconv.AppendInt(b, *op.Sequence.MinValue, 10)
		}
		if op.Sequence.MaxValue != nil {
			b = append(b, " MAXVALUE "...)
			b = strconv.AppendInt(b, *op.Sequence.MaxValue, 10)
		}
		return string(b), nil

	case *migrate.DropSequenceOp:
		if !g.features.Has(feature.Sequences) {
			return "", g.unsupported(op)
		}
		return "DROP SEQUENCE " + g.name(op.Name), nil

	case *migrate.MoveSequenceOp:
		return g.transfer(op.NewSchema, op.Name), nil

	case *migrate.RenameSequenceOp:
		return g.spRename(op.Name.String(), op.NewName, "OBJECT"), nil

	case *migrate.AlterSequenceOp:
		if !g.features.Has(feature.Sequences) {
			return "", g.unsupported(op)
		}
		return "ALTER SEQUENCE " + g.name(op.Name) +
			" INCREMENT BY " + strconv.FormatInt(op.IncrementBy, 10), nil

	case *migrate.CreateTableOp:
		return g.createTable(op), nil

	case *migrate.DropTableOp:
		return "DROP TABLE " + g.name(op.Name), nil

	case *migrate.RenameTableOp:
		return g.spRename(op.Name.String(), op.NewName, "OBJECT"), nil

	case *migrate.MoveTableOp:
		return g.transfer(op.NewSchema, op.Name), nil

	case *migrate.AddColumnOp:
		b := g.appendAlterTable(nil, op.Table)
		b = append(b, " ADD "...)
		b = g.appendColumn(b, op.Column)
		return string(b), nil

	case *migrate.DropColumnOp:
		return "ALTER TABLE " + g.name(op.Table) + " DROP COLUMN " + g.quoter.Ident(op.Name), nil

	case *migrate.AlterColumnOp:
		b := g.appendAlterTable(nil, op.Table)
		b = append(b, " ALTER COLUMN "...)
		b = g.quoter.AppendIdent(b, op.Column.Name)
		b = append(b, ' ')
		b = append(b, op.Column.StoreType...)
		if !op.Column.Nullable {
			b = append(b, " NOT NULL"...)
		}
		return string(b), nil

	case *migrate.AddDefaultConstraintOp:
		b := g.appendAlterTable(nil, op.Table)
		b = append(b, " ADD DEFAULT "...)
		b = g.appendDefault(b, op.Default, op.DefaultSQL)
		b = append(b, " FOR "...)
		b = g.quoter.AppendIdent(b, op.Column)
		return string(b), nil

	case *migrate.DropDefaultConstraintOp:
		return g.dropDefaultConstraint(op), nil

	case *migrate.RenameColumnOp:
		return g.spRename(op.Table.String()+"."+op.Name, op.NewName, "COLUMN"), nil

	case *migrate.AddPrimaryKeyOp:
		b := g.appendAlterTable(nil, op.Table)
		b = append(b, " ADD "...)
		b = g.appendPrimaryKey(b, op.PrimaryKey)
		return string(b), nil

	case *migrate.DropPrimaryKeyOp:
		return g.dropConstraint(op.Table, op.Name), nil

	case *migrate.AddUniqueConstraintOp:
		b := g.appendAlterTable(nil, op.Table)
		b = append(b, " ADD "...)
		b = g.appendUnique(b, op.Unique)
		return string(b), nil

	case *migrate.DropUniqueConstraintOp:
		return g.dropConstraint(op.Table, op.Name), nil

	case *migrate.AddForeignKeyOp:
		b := g.appendAlterTable(nil, op.Table)
		b = append(b, " ADD "...)
		b = g.appendForeignKey(b, op.ForeignKey)
		return string(b), nil

	case *migrate.DropForeignKeyOp:
		return g.dropConstraint(op.Table, op.Name), nil

	case *migrate.CreateIndexOp:
		b := []byte("CREATE ")
		if op.Index.Unique {
			b = append(b, "UNIQUE "...)
		}
		if op.Index.Clustered {
			b = append(b, "CLUSTERED "...)
		}
		b = append(b, "INDEX "...)
		b = g.quoter.AppendIdent(b, op.Index.Name)
		b = append(b, " ON "...)
		b = g.appendName(b, op.Table)
		b = append(b, " ("...)
		b = g.appendColumnList(b, op.Index.Columns)
		b = append(b, ')')
		return string(b), nil

	case *migrate.DropIndexOp:
		return "DROP INDEX " + g.quoter.Ident(op.Name) + " ON " + g.name(op.Table), nil

	case *migrate.RenameIndexOp:
		return g.spRename(op.Table.String()+"."+op.Name, op.NewName, "INDEX"), nil

	case *migrate.CopyDataOp:
		b := []byte("INSERT INTO ")
		b = g.appendName(b, op.Target)
		b = append(b, " ("...)
		b = g.appendColumnList(b, op.TargetColumns)
		b = append(b, ") SELECT "...)
		b = g.appendColumnList(b, op.SourceColumns)
		b = append(b, " FROM "...)
		b = g.appendName(b, op.Source)
		return string(b), nil

	default:
		return "", g.unsupported(op)
	}
}

func (g *generator) unsupported(op migrate.Operation) error {
	return &migrate.OperationNotSupportedError{
		Dialect:   dialect.SQLServer,
		Operation: op.Kind(),
	}
}

//------------------------------------------------------------------------------

func (g *generator) createTable(op *migrate.CreateTableOp) string {
	b := []byte("CREATE TABLE ")
	b = g.appendName(b, op.Name)
	b = append(b, " (\n"...)
	for i, col := range op.Columns {
		if i > 0 {
			b = append(b, ",\n"...)
		}
		b = append(b, "    "...)
		b = g.appendColumn(b, col)
	}
	if op.PrimaryKey != nil {
		b = append(b, ",\n    "...)
		b = g.appendPrimaryKey(b, *op.PrimaryKey)
	}
	for _, u := range op.UniqueConstraints {
		b = append(b, ",\n    "...)
		b = g.appendUnique(b, u)
	}
	// Foreign keys are not inlined: the differ emits them as separate
	// operations once every referenced table exists.
	b = append(b, "\n)"...)
	return string(b)
}

func (g *generator) appendColumn(b []byte, col migrate.ColumnDef) []byte {
	b = g.quoter.AppendIdent(b, col.Name)
	b = append(b, ' ')
	b = append(b, col.StoreType...)
	if !col.Nullable {
		b = append(b, " NOT NULL"...)
	}
	if col.Identity && col.Kind != schema.KindBytes {
		b = append(b, " IDENTITY"...)
	}
	if col.DefaultSQL != "" || col.Default != nil {
		b = append(b, " DEFAULT "...)
		b = g.appendDefault(b, col.Default, col.DefaultSQL)
	}
	return b
}

func (g *generator) appendDefault(b []byte, value any, expr string) []byte {
	if expr != "" {
		return append(b, expr...)
	}
	return sqlfmt.AppendValue(b, value, sqlfmt.BytesHex0x)
}

func (g *generator) appendPrimaryKey(b []byte, pk migrate.PrimaryKeyDef) []byte {
	b = append(b, "CONSTRAINT "...)
	b = g.quoter.AppendIdent(b, pk.Name)
	b = append(b, " PRIMARY KEY"...)
	if !pk.Clustered {
		b = append(b, " NONCLUSTERED"...)
	}
	b = append(b, " ("...)
	b = g.appendColumnList(b, pk.Columns)
	return append(b, ')')
}

func (g *generator) appendUnique(b []byte, u migrate.UniqueDef) []byte {
	b = append(b, "CONSTRAINT "...)
	b = g.quoter.AppendIdent(b, u.Name)
	b = append(b, " UNIQUE ("...)
	b = g.appendColumnList(b, u.Columns)
	return append(b, ')')
}

func (g *generator) appendForeignKey(b []byte, fk migrate.ForeignKeyDef) []byte {
	b = append(b, "CONSTRAINT "...)
	b = g.quoter.AppendIdent(b, fk.Name)
	b = append(b, " FOREIGN KEY ("...)
	b = g.appendColumnList(b, fk.Columns)
	b = append(b, ") REFERENCES "...)
	b = g.appendName(b, fk.Referenced)
	b = append(b, " ("...)
	b = g.appendColumnList(b, fk.ReferencedColumns)
	b = append(b, ')')
	if fk.OnDeleteCascade {
		b = append(b, " ON DELETE CASCADE"...)
	}
	return b
}

// dropDefaultConstraint looks the system-generated constraint name up in
// sys.default_constraints and drops it through dynamic SQL.
func (g *generator) dropDefaultConstraint(op *migrate.DropDefaultConstraintOp) string {
	b := []byte("DECLARE @var0 nvarchar(128)\nSELECT @var0 = name FROM sys.default_constraints WHERE parent_object_id = OBJECT_ID(N")
	b = sqlfmt.AppendString(b, op.Table.String())
	b = append(b, ") AND COL_NAME(parent_object_id, parent_column_id) = N"...)
	b = sqlfmt.AppendString(b, op.Column)
	b = append(b, "\nEXECUTE('ALTER TABLE "...)
	b = g.appendName(b, op.Table)
	b = append(b, ` DROP CONSTRAINT [' + @var0 + ']')`...)
	return string(b)
}

func (g *generator) dropConstraint(table schema.QualifiedName, name string) string {
	return "ALTER TABLE " + g.name(table) + " DROP CONSTRAINT " + g.quoter.Ident(name)
}

func (g *generator) spRename(objname, newname, objtype string) string {
	b := []byte("EXECUTE sp_rename @objname = N")
	b = sqlfmt.AppendString(b, objname)
	b = append(b, ", @newname = N"...)
	b = sqlfmt.AppendString(b, newname)
	b = append(b, ", @objtype = N"...)
	b = sqlfmt.AppendString(b, objtype)
	return string(b)
}

func (g *generator) transfer(newSchema string, name schema.QualifiedName) string {
	return "ALTER SCHEMA " + g.quoter.Ident(newSchema) + " TRANSFER " + g.name(name)
}

func (g *generator) appendAlterTable(b []byte, table schema.QualifiedName) []byte {
	b = append(b, "ALTER TABLE "...)
	return g.appendName(b, table)
}

// appendName renders a schema-qualified name as [schema].[name].
func (g *generator) appendName(b []byte, n schema.QualifiedName) []byte {
	if n.Schema != "" {
		b = g.quoter.AppendIdent(b, n.Schema)
		b = append(b, '.')
	}
	return g.quoter.AppendIdent(b, n.Name)
}

func (g *generator) name(n schema.QualifiedName) string {
	return string(g.appendName(nil, n))
}

func (g *generator) appendColumnList(b []byte, columns []string) []byte {
	for i, c := range columns {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = g.quoter.AppendIdent(b, c)
	}
	return b
}
