package migrate

import (
	"reflect"

	"github.com/rs/zerolog"

	"github.com/easydom/relmigrate/schema"
)

// FuzzyMatchThreshold is the minimum property-set overlap at which two
// entity types with different names are considered the same renamed entity.
const FuzzyMatchThreshold = 0.8

// TempNamePrefix marks intermediate objects created while breaking rename
// cycles and rebuilding tables. The prefix is reserved: a database object
// carrying it belongs to an unfinished migration.
const TempNamePrefix = "__mig_tmp__"

// Differ compares two schema models and emits the operations that evolve
// the first into the second. Diff is deterministic and never fails; unknown
// constructs simply produce no operation.
type Differ struct {
	dialect   Dialect
	factory   *OperationFactory
	names     schema.NameGenerator
	types     TypeMapper
	threshold float64
	log       zerolog.Logger
}

type DifferOption func(*Differ)

// WithFuzzyThreshold overrides FuzzyMatchThreshold for this differ.
func WithFuzzyThreshold(t float64) DifferOption {
	return func(d *Differ) { d.threshold = t }
}

// WithLogger installs a logger for debug tracing of pairing decisions.
// Logging only observes; it never influences the emitted operations.
func WithLogger(log zerolog.Logger) DifferOption {
	return func(d *Differ) { d.log = log }
}

func NewDiffer(d Dialect, opts ...DifferOption) *Differ {
	differ := &Differ{
		dialect:   d,
		factory:   NewOperationFactory(d),
		names:     d.NameGenerator(),
		types:     d.TypeMapper(),
		threshold: FuzzyMatchThreshold,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(differ)
	}
	return differ
}

// diffState is the per-call scratch space: the operation collection under
// construction, the global property map, and the temp-name counter. It
// lives only for the duration of one Diff call.
type diffState struct {
	ops         *operationCollection
	propertyMap map[*schema.Property]*schema.Property
	tmp         tempNamer
}

type entityPair struct {
	source *schema.EntityType
	target *schema.EntityType
}

// Diff returns the ordered operations whose sequential application to a
// database matching source yields a database matching target.
func (d *Differ) Diff(source, target *schema.Model) []Operation {
	st := &diffState{
		ops:         newOperationCollection(),
		propertyMap: make(map[*schema.Property]*schema.Property),
	}

	pairs := d.pairEntityTypes(source, target)
	for _, p := range pairs {
		d.pairProperties(p, st)
	}

	d.diffSequences(source, target, st)
	d.diffTables(source, target, pairs, st)

	d.resolveRenameCycles(st)

	return st.ops.drain()
}

//------------------------------------------------------------------------------
// Pairing.

func (d *Differ) pairEntityTypes(source, target *schema.Model) []entityPair {
	var pairs []entityPair
	pairedTargets := make(map[*schema.EntityType]bool)
	var remainder []*schema.EntityType

	// First pass: simple match on the logical name.
	for _, se := range source.EntityTypes() {
		if te := target.EntityType(se.Name); te != nil {
			pairs = append(pairs, entityPair{source: se, target: te})
			pairedTargets[te] = true
		} else {
			remainder = append(remainder, se)
		}
	}

	// Second pass: fuzzy match the remainders. Ties break by first-found in
	// source order, and an entity appears in at most one pair.
	for _, se := range remainder {
		for _, te := range target.EntityTypes() {
			if pairedTargets[te] || source.EntityType(te.Name) != nil {
				continue
			}
			if d.fuzzyMatch(se, te) {
				d.log.Debug().
					Str("source", se.Name).
					Str("target", te.Name).
					Msg("fuzzy-matched entity types")
				pairs = append(pairs, entityPair{source: se, target: te})
				pairedTargets[te] = true
				break
			}
		}
	}
	return pairs
}

// fuzzyMatch reports whether the property sets of two entity types overlap
// by at least the configured threshold. Two properties count as equivalent
// when their names and primitive kinds agree.
func (d *Differ) fuzzyMatch(se, te *schema.EntityType) bool {
	matches := 0
	for _, sp := range se.Properties {
		for _, tp := range te.Properties {
			if sp.Name == tp.Name && sp.Kind == tp.Kind {
				matches++
				break
			}
		}
	}
	denom := float64(len(se.Properties)+len(te.Properties)) / 2
	return denom > 0 && float64(matches) >= d.threshold*denom
}

// pairProperties matches properties within one entity pair, first by
// property name, then, among the unmatched, by column name. Matches feed
// the global source-property -> target-property map.
func (d *Differ) pairProperties(p entityPair, st *diffState) {
	matchedTargets := make(map[*schema.Property]bool)

	var unmatched []*schema.Property
	for _, sp := range p.source.Properties {
		if tp := p.target.Property(sp.Name); tp != nil {
			st.propertyMap[sp] = tp
			matchedTargets[tp] = true
		} else {
			unmatched = append(unmatched, sp)
		}
	}

	for _, sp := range unmatched {
		scol := d.names.ColumnName(sp)
		for _, tp := range p.target.Properties {
			if matchedTargets[tp] || p.source.Property(tp.Name) != nil {
				continue
			}
			if d.names.ColumnName(tp) == scol {
				st.propertyMap[sp] = tp
				matchedTargets[tp] = true
				break
			}
		}
	}
}

//------------------------------------------------------------------------------
// Sequences.

func (d *Differ) diffSequences(source, target *schema.Model, st *diffState) {
	targetByName := make(map[schema.QualifiedName]*schema.Sequence)
	for _, ts := range target.Sequences() {
		targetByName[ts.QualifiedName()] = ts
	}

	paired := make(map[*schema.Sequence]bool)
	for _, ss := range source.Sequences() {
		ts, ok := targetByName[ss.QualifiedName()]
		if !ok {
			st.ops.add(d.factory.DropSequence(ss))
			continue
		}
		paired[ts] = true
		if ss.IncrementBy != ts.IncrementBy {
			st.ops.add(d.factory.AlterSequence(ts))
		}
	}
	for _, ts := range target.Sequences() {
		if !paired[ts] {
			st.ops.add(d.factory.CreateSequence(ts))
		}
	}
}

//------------------------------------------------------------------------------
// Tables.

func (d *Differ) diffTables(source, target *schema.Model, pairs []entityPair, st *diffState) {
	pairedSources := make(map[*schema.EntityType]bool)
	pairedTargets := make(map[*schema.EntityType]bool)
	for _, p := range pairs {
		pairedSources[p.source] = true
		pairedTargets[p.target] = true
	}

	// Moves and renames of surviving tables.
	for _, p := range pairs {
		sName := d.names.FullTableName(p.source)
		tName := d.names.FullTableName(p.target)
		cur := sName
		if cur.Schema != tName.Schema {
			st.ops.add(d.factory.MoveTable(cur, tName.Schema))
			cur.Schema = tName.Schema
		}
		if cur.Name != tName.Name {
			st.ops.add(d.factory.RenameTable(cur, tName.Name))
		}
	}

	// New tables, with their foreign keys and indexes alongside.
	for _, te := range target.EntityTypes() {
		if pairedTargets[te] {
			continue
		}
		st.ops.add(d.factory.CreateTable(te))
		for _, fk := range te.ForeignKeys {
			st.ops.add(d.factory.AddForeignKey(fk))
		}
		for _, ix := range te.Indexes {
			st.ops.add(d.factory.CreateIndex(ix))
		}
	}

	// Dropped tables.
	for _, se := range source.EntityTypes() {
		if !pairedSources[se] {
			st.ops.add(d.factory.DropTable(se))
		}
	}

	// Subordinate changes per surviving pair.
	for _, p := range pairs {
		d.diffEntityPair(p, st)
	}
}

func (d *Differ) diffEntityPair(p entityPair, st *diffState) {
	// Subordinate operations run after table moves and renames, so they
	// target the table's final name.
	table := d.names.FullTableName(p.target)

	// Columns.
	matchedTargets := make(map[*schema.Property]bool)
	for _, sp := range p.source.Properties {
		tp := st.propertyMap[sp]
		if tp == nil {
			st.ops.add(&DropColumnOp{Table: table, Name: d.names.ColumnName(sp)})
			continue
		}
		matchedTargets[tp] = true
		scol, tcol := d.names.ColumnName(sp), d.names.ColumnName(tp)
		if scol != tcol {
			st.ops.add(d.factory.RenameColumn(table, scol, tcol))
		}
		if !d.columnsEquivalent(sp, tp) {
			st.ops.add(d.factory.AlterColumn(p.target, tp))
		}
	}
	for _, tp := range p.target.Properties {
		if !matchedTargets[tp] {
			st.ops.add(d.factory.AddColumn(p.target, tp))
		}
	}

	// Primary key.
	spk, tpk := p.source.PrimaryKey, p.target.PrimaryKey
	if !d.keysEquivalent(spk, tpk, st) {
		if spk != nil {
			st.ops.add(&DropPrimaryKeyOp{Table: table, Name: d.names.KeyName(spk)})
		}
		if tpk != nil {
			st.ops.add(d.factory.AddPrimaryKey(tpk))
		}
	}

	// Unique constraints (alternate keys).
	for _, tk := range p.target.Keys {
		if d.findEquivalentKey(p.source.Keys, tk, st) == nil {
			st.ops.add(d.factory.AddUniqueConstraint(tk))
		}
	}
	for _, sk := range p.source.Keys {
		if d.findEquivalentKeyReverse(sk, p.target.Keys, st) == nil {
			st.ops.add(&DropUniqueConstraintOp{Table: table, Name: d.names.KeyName(sk)})
		}
	}

	// Foreign keys.
	for _, tfk := range p.target.ForeignKeys {
		if d.findEquivalentForeignKey(p.source.ForeignKeys, tfk, st) == nil {
			st.ops.add(d.factory.AddForeignKey(tfk))
		}
	}
	for _, sfk := range p.source.ForeignKeys {
		if !d.hasEquivalentForeignKey(sfk, p.target.ForeignKeys, st) {
			st.ops.add(&DropForeignKeyOp{Table: table, Name: d.names.ForeignKeyName(sfk)})
		}
	}

	// Indexes. Equivalence ignores the name, so a name mismatch among
	// equivalents is a rename.
	matchedTargetIxs := make(map[*schema.Index]bool)
	matchedSourceIxs := make(map[*schema.Index]bool)
	for _, six := range p.source.Indexes {
		tix := d.findEquivalentIndex(six, p.target.Indexes, matchedTargetIxs, st)
		if tix == nil {
			continue
		}
		matchedTargetIxs[tix] = true
		matchedSourceIxs[six] = true
		sName, tName := d.names.IndexName(six), d.names.IndexName(tix)
		if sName != tName {
			st.ops.add(d.factory.RenameIndex(table, sName, tName))
		}
	}
	for _, tix := range p.target.Indexes {
		if !matchedTargetIxs[tix] {
			st.ops.add(d.factory.CreateIndex(tix))
		}
	}
	for _, six := range p.source.Indexes {
		if !matchedSourceIxs[six] {
			st.ops.add(&DropIndexOp{Table: table, Name: d.names.IndexName(six)})
		}
	}
}

//------------------------------------------------------------------------------
// Equivalence predicates.

func (d *Differ) columnsEquivalent(sp, tp *schema.Property) bool {
	return sp.Kind == tp.Kind &&
		d.types.StoreType(sp) == d.types.StoreType(tp) &&
		reflect.DeepEqual(sp.Default, tp.Default) &&
		sp.DefaultSQL == tp.DefaultSQL &&
		sp.Nullable == tp.Nullable &&
		sp.GeneratedOnAdd == tp.GeneratedOnAdd &&
		sp.Computed == tp.Computed &&
		sp.ConcurrencyToken == tp.ConcurrencyToken &&
		sp.MaxLength == tp.MaxLength
}

// keysEquivalent reports whether two keys carry the same name and their
// property lists map pairwise through the property map.
func (d *Differ) keysEquivalent(sk, tk *schema.Key, st *diffState) bool {
	if sk == nil || tk == nil {
		return sk == tk
	}
	if d.names.KeyName(sk) != d.names.KeyName(tk) {
		return false
	}
	return d.propertiesMap(sk.Properties, tk.Properties, st)
}

func (d *Differ) findEquivalentKey(source []*schema.Key, tk *schema.Key, st *diffState) *schema.Key {
	for _, sk := range source {
		if d.keysEquivalent(sk, tk, st) {
			return sk
		}
	}
	return nil
}

func (d *Differ) findEquivalentKeyReverse(sk *schema.Key, target []*schema.Key, st *diffState) *schema.Key {
	for _, tk := range target {
		if d.keysEquivalent(sk, tk, st) {
			return tk
		}
	}
	return nil
}

func (d *Differ) foreignKeysEquivalent(sfk, tfk *schema.ForeignKey, st *diffState) bool {
	if d.names.ForeignKeyName(sfk) != d.names.ForeignKeyName(tfk) {
		return false
	}
	return d.propertiesMap(sfk.Properties, tfk.Properties, st) &&
		d.propertiesMap(sfk.ReferencedProperties(), tfk.ReferencedProperties(), st)
}

func (d *Differ) findEquivalentForeignKey(source []*schema.ForeignKey, tfk *schema.ForeignKey, st *diffState) *schema.ForeignKey {
	for _, sfk := range source {
		if d.foreignKeysEquivalent(sfk, tfk, st) {
			return sfk
		}
	}
	return nil
}

func (d *Differ) hasEquivalentForeignKey(sfk *schema.ForeignKey, target []*schema.ForeignKey, st *diffState) bool {
	for _, tfk := range target {
		if d.foreignKeysEquivalent(sfk, tfk, st) {
			return true
		}
	}
	return false
}

// findEquivalentIndex returns the first target index with the same
// uniqueness whose property list maps from the source index's, skipping
// entries already claimed in matched.
func (d *Differ) findEquivalentIndex(six *schema.Index, target []*schema.Index, matched map[*schema.Index]bool, st *diffState) *schema.Index {
	for _, tix := range target {
		if matched != nil && matched[tix] {
			continue
		}
		if six.Unique == tix.Unique && d.propertiesMap(six.Properties, tix.Properties, st) {
			return tix
		}
	}
	return nil
}

func (d *Differ) propertiesMap(source, target []*schema.Property, st *diffState) bool {
	if len(source) != len(target) {
		return false
	}
	for i, sp := range source {
		if st.propertyMap[sp] != target[i] {
			return false
		}
	}
	return true
}
