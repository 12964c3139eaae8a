package schema

import (
	"fmt"

	"github.com/pkg/errors"
)

// Builder assembles a Model. It is the only place where schema metadata is
// mutable; Build links the declared entity types into a Model and resolves
// foreign-key references into arena indices. The Model shares its entity
// types and sequences with the builder rather than copying them, so
// declarations made after Build also show up in models already built.
type Builder struct {
	entities  []*entityBuilder
	sequences []*Sequence
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Entity declares an entity type with the given logical name and returns a
// builder for its members. Declaring the same name twice returns the
// existing builder.
func (b *Builder) Entity(name string) *EntityBuilder {
	for _, eb := range b.entities {
		if eb.entity.Name == name {
			return &EntityBuilder{b: b, eb: eb}
		}
	}
	eb := &entityBuilder{entity: &EntityType{Name: name}}
	b.entities = append(b.entities, eb)
	return &EntityBuilder{b: b, eb: eb}
}

// Sequence declares a sequence. Increment defaults to 1 and the numeric
// type to int64.
func (b *Builder) Sequence(name, schemaName string) *SequenceBuilder {
	seq := &Sequence{
		Name:        name,
		Schema:      schemaName,
		IncrementBy: 1,
		Kind:        KindInt64,
	}
	b.sequences = append(b.sequences, seq)
	return &SequenceBuilder{seq: seq}
}

// Build resolves all references and returns the finished model.
func (b *Builder) Build() (*Model, error) {
	m := &Model{byName: make(map[string]int, len(b.entities))}
	for i, eb := range b.entities {
		e := eb.entity
		e.model = m
		e.index = i
		m.entities = append(m.entities, e)
		m.byName[e.Name] = i
	}
	for _, eb := range b.entities {
		for _, pfk := range eb.pendingFKs {
			if err := pfk.resolve(m, eb.entity); err != nil {
				return nil, err
			}
		}
	}
	m.sequences = b.sequences
	return m, nil
}

// MustBuild is Build for model literals in tests and examples.
func (b *Builder) MustBuild() *Model {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

type entityBuilder struct {
	entity     *EntityType
	pendingFKs []*pendingFK
}

type pendingFK struct {
	fk         *ForeignKey
	refEntity  string
	refProps   []string
	ownProps   []string
}

func (p *pendingFK) resolve(m *Model, e *EntityType) error {
	props, err := lookupProperties(e, p.ownProps)
	if err != nil {
		return errors.Wrapf(err, "foreign key %q on %q", p.fk.Name, e.Name)
	}
	p.fk.Properties = props

	ix, ok := m.byName[p.refEntity]
	if !ok {
		return errors.Errorf("foreign key %q on %q references unknown entity %q", p.fk.Name, e.Name, p.refEntity)
	}
	ref := m.entities[ix]
	p.fk.referenced = ix
	p.fk.referencedIxs = make([]int, len(p.refProps))
	for i, name := range p.refProps {
		found := -1
		for j, rp := range ref.Properties {
			if rp.Name == name {
				found = j
				break
			}
		}
		if found < 0 {
			return errors.Errorf("foreign key %q on %q references unknown property %s.%s", p.fk.Name, e.Name, p.refEntity, name)
		}
		p.fk.referencedIxs[i] = found
	}
	return nil
}

func lookupProperties(e *EntityType, names []string) ([]*Property, error) {
	props := make([]*Property, len(names))
	for i, name := range names {
		p := e.Property(name)
		if p == nil {
			return nil, fmt.Errorf("unknown property %q", name)
		}
		props[i] = p
	}
	return props, nil
}

// EntityBuilder builds one entity type.
type EntityBuilder struct {
	b  *Builder
	eb *entityBuilder
}

// Table sets the explicit table name and schema.
func (e *EntityBuilder) Table(name, schemaName string) *EntityBuilder {
	e.eb.entity.Table = name
	e.eb.entity.Schema = schemaName
	return e
}

// Property declares a property and returns its builder. Declaration order
// is preserved and drives column order in emitted DDL.
func (e *EntityBuilder) Property(name string, kind Kind) *PropertyBuilder {
	p := &Property{Name: name, Kind: kind, entity: e.eb.entity}
	e.eb.entity.Properties = append(e.eb.entity.Properties, p)
	return &PropertyBuilder{p: p}
}

// Key sets the primary key over the named properties. The name may be empty
// to use the convention-based one.
func (e *EntityBuilder) Key(name string, properties ...string) *EntityBuilder {
	props, err := lookupProperties(e.eb.entity, properties)
	if err != nil {
		panic(fmt.Sprintf("primary key on %q: %s", e.eb.entity.Name, err))
	}
	e.eb.entity.PrimaryKey = &Key{Name: name, Properties: props, entity: e.eb.entity}
	return e
}

// AlternateKey adds an alternate (unique) key over the named properties.
func (e *EntityBuilder) AlternateKey(name string, properties ...string) *EntityBuilder {
	props, err := lookupProperties(e.eb.entity, properties)
	if err != nil {
		panic(fmt.Sprintf("alternate key on %q: %s", e.eb.entity.Name, err))
	}
	e.eb.entity.Keys = append(e.eb.entity.Keys, &Key{Name: name, Properties: props, entity: e.eb.entity})
	return e
}

// ForeignKey adds a foreign key from the named properties to properties of
// another entity, resolved when the model is built.
func (e *EntityBuilder) ForeignKey(name string, properties []string, refEntity string, refProperties []string) *ForeignKeyBuilder {
	fk := &ForeignKey{Name: name, entity: e.eb.entity}
	e.eb.entity.ForeignKeys = append(e.eb.entity.ForeignKeys, fk)
	e.eb.pendingFKs = append(e.eb.pendingFKs, &pendingFK{
		fk:        fk,
		refEntity: refEntity,
		refProps:  refProperties,
		ownProps:  properties,
	})
	return &ForeignKeyBuilder{fk: fk}
}

// Index adds a secondary index over the named properties.
func (e *EntityBuilder) Index(name string, unique bool, properties ...string) *EntityBuilder {
	props, err := lookupProperties(e.eb.entity, properties)
	if err != nil {
		panic(fmt.Sprintf("index on %q: %s", e.eb.entity.Name, err))
	}
	e.eb.entity.Indexes = append(e.eb.entity.Indexes, &Index{
		Name:       name,
		Properties: props,
		Unique:     unique,
		entity:     e.eb.entity,
	})
	return e
}

// PropertyBuilder refines one property.
type PropertyBuilder struct {
	p *Property
}

func (p *PropertyBuilder) Nullable() *PropertyBuilder {
	p.p.Nullable = true
	return p
}

func (p *PropertyBuilder) MaxLength(n int) *PropertyBuilder {
	p.p.MaxLength = n
	return p
}

func (p *PropertyBuilder) ConcurrencyToken() *PropertyBuilder {
	p.p.ConcurrencyToken = true
	return p
}

func (p *PropertyBuilder) GeneratedOnAdd() *PropertyBuilder {
	p.p.GeneratedOnAdd = true
	return p
}

func (p *PropertyBuilder) Computed() *PropertyBuilder {
	p.p.Computed = true
	return p
}

// Column sets the explicit column name.
func (p *PropertyBuilder) Column(name string) *PropertyBuilder {
	p.p.Column = name
	return p
}

// ColumnType sets the explicit store type, bypassing the type mapper.
func (p *PropertyBuilder) ColumnType(t string) *PropertyBuilder {
	p.p.ColumnType = t
	return p
}

func (p *PropertyBuilder) Default(v any) *PropertyBuilder {
	p.p.Default = v
	return p
}

func (p *PropertyBuilder) DefaultSQL(expr string) *PropertyBuilder {
	p.p.DefaultSQL = expr
	return p
}

// ForeignKeyBuilder refines one foreign key.
type ForeignKeyBuilder struct {
	fk *ForeignKey
}

func (f *ForeignKeyBuilder) OnDeleteCascade() *ForeignKeyBuilder {
	f.fk.OnDeleteCascade = true
	return f
}

// SequenceBuilder refines one sequence.
type SequenceBuilder struct {
	seq *Sequence
}

func (s *SequenceBuilder) StartsAt(v int64) *SequenceBuilder {
	s.seq.StartValue = v
	return s
}

func (s *SequenceBuilder) IncrementsBy(v int64) *SequenceBuilder {
	s.seq.IncrementBy = v
	return s
}

func (s *SequenceBuilder) Min(v int64) *SequenceBuilder {
	s.seq.MinValue = &v
	return s
}

func (s *SequenceBuilder) Max(v int64) *SequenceBuilder {
	s.seq.MaxValue = &v
	return s
}

func (s *SequenceBuilder) Type(k Kind) *SequenceBuilder {
	s.seq.Kind = k
	return s
}
