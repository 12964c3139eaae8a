package mssqldialect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/easydom/relmigrate/dialect/feature"
	"github.com/easydom/relmigrate/migrate"
	"github.com/easydom/relmigrate/schema"
)

func genOne(t *testing.T, op migrate.Operation) string {
	t.Helper()
	statements, err := New().Generator().Generate([]migrate.Operation{op})
	require.NoError(t, err)
	require.Len(t, statements, 1)
	return statements[0]
}

func TestGenerateCreateSequence(t *testing.T) {
	op := &migrate.CreateSequenceOp{
		Sequence: migrate.SequenceDef{
			Name:        schema.QualifiedName{Schema: "dbo", Name: "MySequence"},
			StoreType:   "bigint",
			StartValue:  0,
			IncrementBy: 1,
		},
	}
	require.Equal(t,
		"CREATE SEQUENCE [dbo].[MySequence] AS bigint START WITH 0 INCREMENT BY 1",
		genOne(t, op))
}

func TestGenerateRenameTable(t *testing.T) {
	op := &migrate.RenameTableOp{
		Name:    schema.QualifiedName{Schema: "dbo", Name: "MyTable"},
		NewName: "MyTable2",
	}
	require.Equal(t,
		"EXECUTE sp_rename @objname = N'dbo.MyTable', @newname = N'MyTable2', @objtype = N'OBJECT'",
		genOne(t, op))
}

func TestGenerateRenameColumnAndIndex(t *testing.T) {
	rename := &migrate.RenameColumnOp{
		Table:   schema.QualifiedName{Schema: "dbo", Name: "MyTable"},
		Name:    "Foo",
		NewName: "Bar",
	}
	require.Equal(t,
		"EXECUTE sp_rename @objname = N'dbo.MyTable.Foo', @newname = N'Bar', @objtype = N'COLUMN'",
		genOne(t, rename))

	index := &migrate.RenameIndexOp{
		Table:   schema.QualifiedName{Schema: "dbo", Name: "MyTable"},
		Name:    "IX_Foo",
		NewName: "IX_Bar",
	}
	require.Equal(t,
		"EXECUTE sp_rename @objname = N'dbo.MyTable.IX_Foo', @newname = N'IX_Bar', @objtype = N'INDEX'",
		genOne(t, index))
}

func TestGenerateAddForeignKey(t *testing.T) {
	op := &migrate.AddForeignKeyOp{
		Table: schema.QualifiedName{Schema: "dbo", Name: "MyTable"},
		ForeignKey: migrate.ForeignKeyDef{
			Name:              "MyFK",
			Columns:           []string{"Foo", "Bar"},
			Referenced:        schema.QualifiedName{Schema: "dbo", Name: "MyTable2"},
			ReferencedColumns: []string{"Foo2", "Bar2"},
			OnDeleteCascade:   true,
		},
	}
	require.Equal(t,
		"ALTER TABLE [dbo].[MyTable] ADD CONSTRAINT [MyFK] FOREIGN KEY ([Foo], [Bar]) REFERENCES [dbo].[MyTable2] ([Foo2], [Bar2]) ON DELETE CASCADE",
		genOne(t, op))
}

func TestGenerateDropDefaultConstraint(t *testing.T) {
	op := &migrate.DropDefaultConstraintOp{
		Table:  schema.QualifiedName{Schema: "dbo", Name: "MyTable"},
		Column: "Foo",
	}
	require.Equal(t,
		"DECLARE @var0 nvarchar(128)\n"+
			"SELECT @var0 = name FROM sys.default_constraints WHERE parent_object_id = OBJECT_ID(N'dbo.MyTable') AND COL_NAME(parent_object_id, parent_column_id) = N'Foo'\n"+
			"EXECUTE('ALTER TABLE [dbo].[MyTable] DROP CONSTRAINT [' + @var0 + ']')",
		genOne(t, op))
}

func TestGenerateCreateTable(t *testing.T) {
	op := &migrate.CreateTableOp{
		Name: schema.QualifiedName{Schema: "dbo", Name: "MyTable"},
		Columns: []migrate.ColumnDef{
			{Name: "Foo", StoreType: "int", Default: 5},
			{Name: "Bar", StoreType: "int", Nullable: true},
		},
		PrimaryKey: &migrate.PrimaryKeyDef{
			Name:    "MyPK",
			Columns: []string{"Foo", "Bar"},
		},
	}
	require.Equal(t,
		"CREATE TABLE [dbo].[MyTable] (\n"+
			"    [Foo] int NOT NULL DEFAULT 5,\n"+
			"    [Bar] int,\n"+
			"    CONSTRAINT [MyPK] PRIMARY KEY NONCLUSTERED ([Foo], [Bar])\n"+
			")",
		genOne(t, op))
}

func TestGenerateTableOperations(t *testing.T) {
	table := schema.QualifiedName{Schema: "dbo", Name: "MyTable"}

	tests := []struct {
		name string
		op   migrate.Operation
		want string
	}{
		{
			"create database",
			&migrate.CreateDatabaseOp{Name: "MyDb"},
			"CREATE DATABASE [MyDb]",
		},
		{
			"drop database",
			&migrate.DropDatabaseOp{Name: "MyDb"},
			"DROP DATABASE [MyDb]",
		},
		{
			"drop table",
			&migrate.DropTableOp{Name: table},
			"DROP TABLE [dbo].[MyTable]",
		},
		{
			"move table",
			&migrate.MoveTableOp{Name: table, NewSchema: "bro"},
			"ALTER SCHEMA [bro] TRANSFER [dbo].[MyTable]",
		},
		{
			"add column",
			&migrate.AddColumnOp{Table: table, Column: migrate.ColumnDef{Name: "Foo", StoreType: "int", Default: 5}},
			"ALTER TABLE [dbo].[MyTable] ADD [Foo] int NOT NULL DEFAULT 5",
		},
		{
			"add identity column",
			&migrate.AddColumnOp{Table: table, Column: migrate.ColumnDef{Name: "Id", StoreType: "int", Kind: schema.KindInt32, Identity: true}},
			"ALTER TABLE [dbo].[MyTable] ADD [Id] int NOT NULL IDENTITY",
		},
		{
			"drop column",
			&migrate.DropColumnOp{Table: table, Name: "Foo"},
			"ALTER TABLE [dbo].[MyTable] DROP COLUMN [Foo]",
		},
		{
			"alter column",
			&migrate.AlterColumnOp{Table: table, Column: migrate.ColumnDef{Name: "Foo", StoreType: "int"}},
			"ALTER TABLE [dbo].[MyTable] ALTER COLUMN [Foo] int NOT NULL",
		},
		{
			"add default constraint",
			&migrate.AddDefaultConstraintOp{Table: table, Column: "Foo", Default: 5},
			"ALTER TABLE [dbo].[MyTable] ADD DEFAULT 5 FOR [Foo]",
		},
		{
			"add default constraint with expression",
			&migrate.AddDefaultConstraintOp{Table: table, Column: "Foo", DefaultSQL: "GETDATE()"},
			"ALTER TABLE [dbo].[MyTable] ADD DEFAULT GETDATE() FOR [Foo]",
		},
		{
			"add primary key",
			&migrate.AddPrimaryKeyOp{Table: table, PrimaryKey: migrate.PrimaryKeyDef{Name: "MyPK", Columns: []string{"Foo"}}},
			"ALTER TABLE [dbo].[MyTable] ADD CONSTRAINT [MyPK] PRIMARY KEY NONCLUSTERED ([Foo])",
		},
		{
			"add clustered primary key",
			&migrate.AddPrimaryKeyOp{Table: table, PrimaryKey: migrate.PrimaryKeyDef{Name: "MyPK", Columns: []string{"Foo"}, Clustered: true}},
			"ALTER TABLE [dbo].[MyTable] ADD CONSTRAINT [MyPK] PRIMARY KEY ([Foo])",
		},
		{
			"drop primary key",
			&migrate.DropPrimaryKeyOp{Table: table, Name: "MyPK"},
			"ALTER TABLE [dbo].[MyTable] DROP CONSTRAINT [MyPK]",
		},
		{
			"add unique constraint",
			&migrate.AddUniqueConstraintOp{Table: table, Unique: migrate.UniqueDef{Name: "AK_Foo", Columns: []string{"Foo"}}},
			"ALTER TABLE [dbo].[MyTable] ADD CONSTRAINT [AK_Foo] UNIQUE ([Foo])",
		},
		{
			"drop foreign key",
			&migrate.DropForeignKeyOp{Table: table, Name: "MyFK"},
			"ALTER TABLE [dbo].[MyTable] DROP CONSTRAINT [MyFK]",
		},
		{
			"create index",
			&migrate.CreateIndexOp{Table: table, Index: migrate.IndexDef{Name: "IX_Foo", Columns: []string{"Foo", "Bar"}, Unique: true, Clustered: true}},
			"CREATE UNIQUE CLUSTERED INDEX [IX_Foo] ON [dbo].[MyTable] ([Foo], [Bar])",
		},
		{
			"drop index",
			&migrate.DropIndexOp{Table: table, Name: "IX_Foo"},
			"DROP INDEX [IX_Foo] ON [dbo].[MyTable]",
		},
		{
			"rename sequence",
			&migrate.RenameSequenceOp{Name: schema.QualifiedName{Schema: "dbo", Name: "MySequence"}, NewName: "MySequence2"},
			"EXECUTE sp_rename @objname = N'dbo.MySequence', @newname = N'MySequence2', @objtype = N'OBJECT'",
		},
		{
			"move sequence",
			&migrate.MoveSequenceOp{Name: schema.QualifiedName{Schema: "dbo", Name: "MySequence"}, NewSchema: "bro"},
			"ALTER SCHEMA [bro] TRANSFER [dbo].[MySequence]",
		},
		{
			"alter sequence",
			&migrate.AlterSequenceOp{Name: schema.QualifiedName{Schema: "dbo", Name: "MySequence"}, IncrementBy: 5},
			"ALTER SEQUENCE [dbo].[MySequence] INCREMENT BY 5",
		},
		{
			"copy data",
			&migrate.CopyDataOp{
				Source:        schema.QualifiedName{Schema: "dbo", Name: "Old"},
				SourceColumns: []string{"A"},
				Target:        schema.QualifiedName{Schema: "dbo", Name: "New"},
				TargetColumns: []string{"B"},
			},
			"INSERT INTO [dbo].[New] ([B]) SELECT [A] FROM [dbo].[Old]",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.want, genOne(t, test.op))
		})
	}
}

func TestGenerateWithoutFeature(t *testing.T) {
	d := New(WithoutFeature(feature.Sequences))
	_, err := d.Generator().Generate([]migrate.Operation{
		&migrate.CreateSequenceOp{Sequence: migrate.SequenceDef{
			Name:      schema.QualifiedName{Schema: "dbo", Name: "MySequence"},
			StoreType: "bigint",
		}},
	})
	require.Error(t, err)

	var notSupported *migrate.OperationNotSupportedError
	require.ErrorAs(t, err, &notSupported)
	require.Equal(t, migrate.KindCreateSequence, notSupported.Operation)
}

func TestGenerateDelimitedIdentifiers(t *testing.T) {
	op := &migrate.DropTableOp{Name: schema.QualifiedName{Schema: "dbo", Name: "foo[]bar"}}
	require.Equal(t, "DROP TABLE [dbo].[foo[]]bar]", genOne(t, op))
}
