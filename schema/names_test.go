package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameGenerator(t *testing.T) {
	names := NameGenerator{DefaultSchema: "dbo"}

	model := NewBuilder()
	pony := model.Entity("Pony")
	pony.Property("Id", KindInt32)
	pony.Property("RiderId", KindInt32)
	pony.Key("", "Id")
	pony.Index("", false, "RiderId")
	rider := model.Entity("Rider")
	rider.Property("Id", KindInt32)
	pony.ForeignKey("", []string{"RiderId"}, "Rider", []string{"Id"})
	m := model.MustBuild()

	e := m.EntityType("Pony")

	t.Run("conventions", func(t *testing.T) {
		require.Equal(t, "ponies", names.TableName(e))
		require.Equal(t, "dbo", names.TableSchema(e))
		require.Equal(t, QualifiedName{Schema: "dbo", Name: "ponies"}, names.FullTableName(e))
		require.Equal(t, "Id", names.ColumnName(e.Property("Id")))
		require.Equal(t, "PK_ponies", names.KeyName(e.PrimaryKey))
		require.Equal(t, "FK_ponies_riders_RiderId", names.ForeignKeyName(e.ForeignKeys[0]))
		require.Equal(t, "IX_ponies_RiderId", names.IndexName(e.Indexes[0]))
	})

	t.Run("explicit names win", func(t *testing.T) {
		model := NewBuilder()
		eb := model.Entity("Pony")
		eb.Table("MyTable", "my")
		eb.Property("Id", KindInt32).Column("id")
		eb.Key("MyPK", "Id")
		m := model.MustBuild()
		e := m.EntityType("Pony")

		require.Equal(t, QualifiedName{Schema: "my", Name: "MyTable"}, names.FullTableName(e))
		require.Equal(t, "id", names.ColumnName(e.Property("Id")))
		require.Equal(t, "MyPK", names.KeyName(e.PrimaryKey))
	})

	t.Run("no default schema", func(t *testing.T) {
		bare := NameGenerator{}
		require.Equal(t, QualifiedName{Name: "ponies"}, bare.FullTableName(e))
	})
}

func TestQualifiedName(t *testing.T) {
	require.Equal(t, "dbo.MyTable", QualifiedName{Schema: "dbo", Name: "MyTable"}.String())
	require.Equal(t, "MyTable", QualifiedName{Name: "MyTable"}.String())
	require.NotEqual(t, QualifiedName{Schema: "a", Name: "b"}, QualifiedName{Schema: "A", Name: "b"})
}

func TestBuilderForeignKeyResolution(t *testing.T) {
	model := NewBuilder()
	child := model.Entity("Child")
	child.Property("ParentId", KindInt32)
	child.ForeignKey("FK", []string{"ParentId"}, "Parent", []string{"Id"})

	_, err := model.Build()
	require.Error(t, err)

	parent := model.Entity("Parent")
	parent.Property("Id", KindInt32)
	m, err := model.Build()
	require.NoError(t, err)

	fk := m.EntityType("Child").ForeignKeys[0]
	require.Equal(t, "Parent", fk.ReferencedEntityType().Name)
	require.Len(t, fk.ReferencedProperties(), 1)
	require.Equal(t, "Id", fk.ReferencedProperties()[0].Name)
	require.True(t, m.EntityType("Child").Property("ParentId").IsKeyPart())
}
