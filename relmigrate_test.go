package relmigrate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/easydom/relmigrate"
	"github.com/easydom/relmigrate/dialect/mssqldialect"
	"github.com/easydom/relmigrate/dialect/sqlitedialect"
	"github.com/easydom/relmigrate/migrate"
	"github.com/easydom/relmigrate/schema"
)

func fkModel(withFK bool) *schema.Model {
	b := schema.NewBuilder()
	t1 := b.Entity("T1")
	t1.Table("T1", "")
	t1.Property("Id", schema.KindInt32)
	t1.Key("PK_T1", "Id")
	t2 := b.Entity("T2")
	t2.Table("T2", "")
	t2.Property("Id", schema.KindInt32)
	t2.Property("C", schema.KindInt32).Nullable()
	t2.Key("PK_T2", "Id")
	if withFK {
		t2.ForeignKey("FK1", []string{"C"}, "T1", []string{"Id"})
	}
	return b.MustBuild()
}

func TestGenerateSqliteRebuild(t *testing.T) {
	statements, err := relmigrate.Generate(fkModel(false), fkModel(true), sqlitedialect.New())
	require.NoError(t, err)

	require.Equal(t, []string{
		`ALTER TABLE "T2" RENAME TO "__mig_tmp__T2"`,
		"CREATE TABLE \"T2\" (\n" +
			"    \"Id\" INTEGER NOT NULL,\n" +
			"    \"C\" INTEGER,\n" +
			"    CONSTRAINT \"PK_T2\" PRIMARY KEY (\"Id\"),\n" +
			"    CONSTRAINT \"FK1\" FOREIGN KEY (\"C\") REFERENCES \"T1\" (\"Id\")\n" +
			")",
		`INSERT INTO "T2" ("Id", "C") SELECT "Id", "C" FROM "__mig_tmp__T2"`,
		`DROP TABLE "__mig_tmp__T2"`,
	}, statements)
}

func TestGenerateSqlServerAddForeignKey(t *testing.T) {
	b := schema.NewBuilder()
	t1 := b.Entity("T1")
	t1.Table("T1", "dbo")
	t1.Property("Id", schema.KindInt32)
	t1.Key("PK_T1", "Id")
	t2 := b.Entity("T2")
	t2.Table("T2", "dbo")
	t2.Property("Id", schema.KindInt32)
	t2.Property("C", schema.KindInt32).Nullable()
	t2.Key("PK_T2", "Id")
	source := b.MustBuild()

	b = schema.NewBuilder()
	t1 = b.Entity("T1")
	t1.Table("T1", "dbo")
	t1.Property("Id", schema.KindInt32)
	t1.Key("PK_T1", "Id")
	t2 = b.Entity("T2")
	t2.Table("T2", "dbo")
	t2.Property("Id", schema.KindInt32)
	t2.Property("C", schema.KindInt32).Nullable()
	t2.Key("PK_T2", "Id")
	t2.ForeignKey("FK1", []string{"C"}, "T1", []string{"Id"}).OnDeleteCascade()
	target := b.MustBuild()

	statements, err := relmigrate.Generate(source, target, mssqldialect.New())
	require.NoError(t, err)
	require.Equal(t, []string{
		"ALTER TABLE [dbo].[T2] ADD CONSTRAINT [FK1] FOREIGN KEY ([C]) REFERENCES [dbo].[T1] ([Id]) ON DELETE CASCADE",
	}, statements)
}

func TestGenerateEmptyDiff(t *testing.T) {
	for _, d := range []migrate.Dialect{mssqldialect.New(), sqlitedialect.New()} {
		statements, err := relmigrate.Generate(fkModel(true), fkModel(true), d)
		require.NoError(t, err)
		require.Empty(t, statements)
	}
}

func TestGeneratePlanChecksum(t *testing.T) {
	plan, err := relmigrate.GeneratePlan(fkModel(false), fkModel(true), sqlitedialect.New())
	require.NoError(t, err)
	require.Len(t, plan.Statements, 4)
	require.NotEmpty(t, plan.Checksum)

	again, err := relmigrate.GeneratePlan(fkModel(false), fkModel(true), sqlitedialect.New())
	require.NoError(t, err)
	require.Equal(t, plan.Checksum, again.Checksum)

	other, err := relmigrate.GeneratePlan(fkModel(true), fkModel(false), sqlitedialect.New())
	require.NoError(t, err)
	require.NotEqual(t, plan.Checksum, other.Checksum)
}

func TestGenerateContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := relmigrate.GenerateContext(ctx, fkModel(false), fkModel(true), sqlitedialect.New())
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateRoundTrip(t *testing.T) {
	// Forward and reverse diffs must mirror each other: what one adds the
	// other drops.
	d := mssqldialect.New()

	b := schema.NewBuilder()
	e := b.Entity("Pony")
	e.Table("Pony", "dbo")
	e.Property("Id", schema.KindInt32)
	source := b.MustBuild()

	b = schema.NewBuilder()
	e = b.Entity("Pony")
	e.Table("Pony", "dbo")
	e.Property("Id", schema.KindInt32)
	e.Property("Name", schema.KindString).Nullable()
	target := b.MustBuild()

	forward := migrate.NewDiffer(d).Diff(source, target)
	require.Len(t, forward, 1)
	require.Equal(t, migrate.KindAddColumn, forward[0].Kind())

	reverse := migrate.NewDiffer(d).Diff(target, source)
	require.Len(t, reverse, 1)
	require.Equal(t, migrate.KindDropColumn, reverse[0].Kind())
}
