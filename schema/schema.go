// Package schema holds the relational schema model that migrations are
// computed from. A Model is an immutable bundle of entity types; foreign
// keys reference other entities through arena indices, never through raw
// pointers, so a Model can be copied and compared safely.
package schema

// QualifiedName is a (schema, name) pair. Equality is case-sensitive and
// component-wise.
type QualifiedName struct {
	Schema string
	Name   string
}

func (n QualifiedName) String() string {
	if n.Schema == "" {
		return n.Name
	}
	return n.Schema + "." + n.Name
}

func (n QualifiedName) IsZero() bool {
	return n.Schema == "" && n.Name == ""
}

// Model is an arena of entity types plus the sequences defined alongside
// them. It must not be mutated after Build.
type Model struct {
	entities  []*EntityType
	sequences []*Sequence
	byName    map[string]int
}

func (m *Model) EntityTypes() []*EntityType {
	return m.entities
}

// EntityType returns the entity with the given logical name, or nil.
func (m *Model) EntityType(name string) *EntityType {
	if i, ok := m.byName[name]; ok {
		return m.entities[i]
	}
	return nil
}

func (m *Model) Sequences() []*Sequence {
	return m.sequences
}

// EntityType describes one mapped type: its properties in declaration order,
// its primary and alternate keys, foreign keys, and indexes.
type EntityType struct {
	Name   string
	Table  string // explicit table name, may be empty
	Schema string // explicit table schema, may be empty

	Properties  []*Property
	PrimaryKey  *Key
	Keys        []*Key // alternate keys
	ForeignKeys []*ForeignKey
	Indexes     []*Index

	model *Model
	index int
}

func (e *EntityType) Model() *Model { return e.model }

// Property returns the property with the given logical name, or nil.
func (e *EntityType) Property(name string) *Property {
	for _, p := range e.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Property describes a scalar member of an entity type together with its
// relational extensions.
type Property struct {
	Name             string
	Kind             Kind
	Nullable         bool
	MaxLength        int // 0 means unbounded
	ConcurrencyToken bool
	GeneratedOnAdd   bool
	Computed         bool

	Column     string // explicit column name, may be empty
	ColumnType string // explicit store type override, may be empty
	Default    any
	DefaultSQL string

	entity *EntityType
}

func (p *Property) EntityType() *EntityType { return p.entity }

// IsKeyPart reports whether the property participates in the primary key,
// an alternate key, or a foreign key of its entity. Type mappers use it to
// pick bounded storage types for key columns.
func (p *Property) IsKeyPart() bool {
	e := p.entity
	if e == nil {
		return false
	}
	if e.PrimaryKey != nil && containsProperty(e.PrimaryKey.Properties, p) {
		return true
	}
	for _, k := range e.Keys {
		if containsProperty(k.Properties, p) {
			return true
		}
	}
	for _, fk := range e.ForeignKeys {
		if containsProperty(fk.Properties, p) {
			return true
		}
	}
	return false
}

func containsProperty(props []*Property, p *Property) bool {
	for _, pp := range props {
		if pp == p {
			return true
		}
	}
	return false
}

// Key is a primary or alternate key.
type Key struct {
	Name       string // explicit name, may be empty
	Properties []*Property

	entity *EntityType
}

func (k *Key) EntityType() *EntityType { return k.entity }

// IsPrimary reports whether the key is its entity's primary key.
func (k *Key) IsPrimary() bool {
	return k.entity != nil && k.entity.PrimaryKey == k
}

// ForeignKey references another entity type's properties. The referenced
// entity is held as an index into the model arena.
type ForeignKey struct {
	Name            string // explicit name, may be empty
	Properties      []*Property
	OnDeleteCascade bool

	entity        *EntityType
	referenced    int
	referencedIxs []int
}

func (fk *ForeignKey) EntityType() *EntityType { return fk.entity }

func (fk *ForeignKey) ReferencedEntityType() *EntityType {
	return fk.entity.model.entities[fk.referenced]
}

func (fk *ForeignKey) ReferencedProperties() []*Property {
	ref := fk.ReferencedEntityType()
	props := make([]*Property, len(fk.referencedIxs))
	for i, ix := range fk.referencedIxs {
		props[i] = ref.Properties[ix]
	}
	return props
}

// Index is a secondary index with an ordered property list.
type Index struct {
	Name       string // explicit name, may be empty
	Properties []*Property
	Unique     bool

	entity *EntityType
}

func (ix *Index) EntityType() *EntityType { return ix.entity }

// Sequence is a database sequence. Not every dialect can represent one.
type Sequence struct {
	Name        string
	Schema      string
	StartValue  int64
	IncrementBy int64
	MinValue    *int64
	MaxValue    *int64
	Kind        Kind
}

func (s *Sequence) QualifiedName() QualifiedName {
	return QualifiedName{Schema: s.Schema, Name: s.Name}
}
