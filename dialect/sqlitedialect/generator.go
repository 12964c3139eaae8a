package sqlitedialect

import (
	"github.com/pkg/errors"

	"github.com/easydom/relmigrate/dialect"
	"github.com/easydom/relmigrate/migrate"
	"github.com/easydom/relmigrate/schema"
	"github.com/easydom/relmigrate/sqlfmt"
)

// generator renders operations as SQLite SQL. It expects a pre-processed
// stream: any subordinate operation SQLite cannot express in place is an
// error here, not a fallback.
type generator struct {
	quoter sqlfmt.Quoter
}

var _ migrate.Generator = (*generator)(nil)

func newGenerator() *generator {
	return &generator{quoter: sqlfmt.Quoter{Open: '"', Close: '"'}}
}

func (g *generator) Generate(ops []migrate.Operation) ([]string, error) {
	statements := make([]string, 0, len(ops))
	for _, op := range ops {
		stmt, err := g.generate(op)
		if err != nil {
			return nil, errors.Wrap(err, "generate sqlite migration")
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (g *generator) generate(op migrate.Operation) (string, error) {
	switch op := op.(type) {
	case *migrate.CreateTableOp:
		return g.createTable(op), nil

	case *migrate.DropTableOp:
		return "DROP TABLE " + g.name(op.Name), nil

	case *migrate.RenameTableOp:
		return g.renameTable(op.Name, schema.QualifiedName{Schema: op.Name.Schema, Name: op.NewName}), nil

	case *migrate.MoveTableOp:
		// SQLite has no schemas; a move is a rename of the flattened name.
		return g.renameTable(op.Name, schema.QualifiedName{Schema: op.NewSchema, Name: op.Name.Name}), nil

	case *migrate.AddColumnOp:
		b := []byte("ALTER TABLE ")
		b = g.appendName(b, op.Table)
		b = append(b, " ADD COLUMN "...)
		b = g.appendColumn(b, op.Column)
		return string(b), nil

	case *migrate.CreateIndexOp:
		b := []byte("CREATE ")
		if op.Index.Unique {
			b = append(b, "UNIQUE "...)
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
		return "DROP INDEX " + g.quoter.Ident(op.Name), nil

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
		return "", &migrate.OperationNotSupportedError{
			Dialect:   dialect.SQLite,
			Operation: op.Kind(),
		}
	}
}

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
		b = append(b, ",\n    CONSTRAINT "...)
		b = g.quoter.AppendIdent(b, op.PrimaryKey.Name)
		b = append(b, " PRIMARY KEY ("...)
		b = g.appendColumnList(b, op.PrimaryKey.Columns)
		b = append(b, ')')
	}
	for _, u := range op.UniqueConstraints {
		b = append(b, ",\n    CONSTRAINT "...)
		b = g.quoter.AppendIdent(b, u.Name)
		b = append(b, " UNIQUE ("...)
		b = g.appendColumnList(b, u.Columns)
		b = append(b, ')')
	}
	for _, fk := range op.ForeignKeys {
		b = append(b, ",\n    CONSTRAINT "...)
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
	}
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
	if col.DefaultSQL != "" {
		b = append(b, " DEFAULT "...)
		b = append(b, col.DefaultSQL...)
	} else if col.Default != nil {
		b = append(b, " DEFAULT "...)
		b = sqlfmt.AppendValue(b, col.Default, sqlfmt.BytesHexX)
	}
	return b
}

func (g *generator) renameTable(from, to schema.QualifiedName) string {
	b := []byte("ALTER TABLE ")
	b = g.appendName(b, from)
	b = append(b, " RENAME TO "...)
	b = g.appendName(b, to)
	return string(b)
}

// appendName flattens a schema-qualified name into a single identifier,
// concatenating schema and name with a period.
func (g *generator) appendName(b []byte, n schema.QualifiedName) []byte {
	return g.quoter.AppendIdent(b, n.String())
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
