package sqlitedialect

import (
	"fmt"

	"github.com/easydom/relmigrate/migrate"
	"github.com/easydom/relmigrate/schema"
)

// preprocessor rewrites a logical operation stream into one SQLite can
// execute. Per-table handlers accumulate pending changes and are flushed at
// the end of the stream (or earlier, when a globally ordered operation
// forces it). A handler upgrades one way: create or alter, then rebuild.
type preprocessor struct {
	dialect *Dialect
}

var _ migrate.Preprocessor = (*preprocessor)(nil)

func (p *preprocessor) Process(ops []migrate.Operation, source, target *schema.Model) ([]migrate.Operation, error) {
	run := &preprocessRun{
		factory: migrate.NewOperationFactory(p.dialect),
		names:   p.dialect.NameGenerator(),
		source:  source,
		target:  target,
		byName:  make(map[string]*handlerEntry),
	}
	return run.process(ops)
}

type preprocessRun struct {
	factory *migrate.OperationFactory
	names   schema.NameGenerator
	source  *schema.Model
	target  *schema.Model

	entries []*handlerEntry
	byName  map[string]*handlerEntry

	out      []migrate.Operation
	deferred []migrate.Operation
}

type handlerEntry struct {
	name    string
	handler tableHandler
}

// tableHandler accumulates operations for one table. handle may return an
// upgraded handler that replaces the current one.
type tableHandler interface {
	handle(run *preprocessRun, op migrate.Operation) (tableHandler, error)
	flush(run *preprocessRun) ([]migrate.Operation, error)
}

func (run *preprocessRun) process(ops []migrate.Operation) ([]migrate.Operation, error) {
	for _, op := range ops {
		switch op := op.(type) {
		case *migrate.CreateTableOp:
			// A new create for a pending table flushes the old handler and
			// starts a fresh one.
			if err := run.flushTable(op.Name); err != nil {
				return nil, err
			}
			run.install(op.Name, &createTableHandler{create: op})

		case *migrate.DropTableOp:
			if err := run.flushTable(op.Name); err != nil {
				return nil, err
			}
			run.out = append(run.out, op)

		case *migrate.RenameIndexOp:
			// Renaming an index is globally ordered: every pending handler
			// must flush first, then the rename expands to drop + create.
			if err := run.flushAll(); err != nil {
				return nil, err
			}
			expanded, err := run.expandRenameIndex(op)
			if err != nil {
				return nil, err
			}
			run.out = append(run.out, expanded...)

		default:
			table, subordinate := tableOf(op)
			if !subordinate {
				run.out = append(run.out, op)
				continue
			}
			if err := run.dispatch(table, op); err != nil {
				return nil, err
			}
		}
	}

	if err := run.flushAll(); err != nil {
		return nil, err
	}
	run.out = append(run.out, run.deferred...)
	return run.out, nil
}

// tableOf returns the table a subordinate operation targets. Operations
// that are not table subordinates report false and pass through.
func tableOf(op migrate.Operation) (schema.QualifiedName, bool) {
	switch op := op.(type) {
	case *migrate.RenameTableOp:
		return op.Name, true
	case *migrate.MoveTableOp:
		return op.Name, true
	case *migrate.AddColumnOp:
		return op.Table, true
	case *migrate.DropColumnOp:
		return op.Table, true
	case *migrate.AlterColumnOp:
		return op.Table, true
	case *migrate.RenameColumnOp:
		return op.Table, true
	case *migrate.AddDefaultConstraintOp:
		return op.Table, true
	case *migrate.DropDefaultConstraintOp:
		return op.Table, true
	case *migrate.AddPrimaryKeyOp:
		return op.Table, true
	case *migrate.DropPrimaryKeyOp:
		return op.Table, true
	case *migrate.AddUniqueConstraintOp:
		return op.Table, true
	case *migrate.DropUniqueConstraintOp:
		return op.Table, true
	case *migrate.AddForeignKeyOp:
		return op.Table, true
	case *migrate.DropForeignKeyOp:
		return op.Table, true
	case *migrate.CreateIndexOp:
		return op.Table, true
	case *migrate.DropIndexOp:
		return op.Table, true
	}
	return schema.QualifiedName{}, false
}

func (run *preprocessRun) dispatch(table schema.QualifiedName, op migrate.Operation) error {
	entry := run.byName[table.String()]
	if entry == nil {
		entry = run.install(table, &alterTableHandler{
			installedName: table,
			currentName:   table,
		})
	}
	next, err := entry.handler.handle(run, op)
	if err != nil {
		return err
	}
	entry.handler = next

	// Renames and moves change the key under which later operations will
	// find the handler.
	switch op := op.(type) {
	case *migrate.RenameTableOp:
		run.rekey(entry, schema.QualifiedName{Schema: op.Name.Schema, Name: op.NewName})
	case *migrate.MoveTableOp:
		run.rekey(entry, schema.QualifiedName{Schema: op.NewSchema, Name: op.Name.Name})
	}
	return nil
}

func (run *preprocessRun) install(name schema.QualifiedName, h tableHandler) *handlerEntry {
	entry := &handlerEntry{name: name.String(), handler: h}
	run.entries = append(run.entries, entry)
	run.byName[entry.name] = entry
	return entry
}

func (run *preprocessRun) rekey(entry *handlerEntry, newName schema.QualifiedName) {
	delete(run.byName, entry.name)
	entry.name = newName.String()
	run.byName[entry.name] = entry
}

func (run *preprocessRun) flushTable(name schema.QualifiedName) error {
	entry := run.byName[name.String()]
	if entry == nil {
		return nil
	}
	ops, err := entry.handler.flush(run)
	if err != nil {
		return err
	}
	run.out = append(run.out, ops...)
	delete(run.byName, entry.name)
	for i, e := range run.entries {
		if e == entry {
			run.entries = append(run.entries[:i], run.entries[i+1:]...)
			break
		}
	}
	return nil
}

func (run *preprocessRun) flushAll() error {
	for _, entry := range run.entries {
		ops, err := entry.handler.flush(run)
		if err != nil {
			return err
		}
		run.out = append(run.out, ops...)
	}
	run.entries = nil
	run.byName = make(map[string]*handlerEntry)
	return nil
}

func (run *preprocessRun) expandRenameIndex(op *migrate.RenameIndexOp) ([]migrate.Operation, error) {
	te := findEntity(run.target, run.names, op.Table)
	if te == nil {
		return nil, &migrate.InvalidOperationSequenceError{
			Table:  op.Table,
			Reason: fmt.Sprintf("rename of index %q targets a table missing from the target model", op.Name),
		}
	}
	for _, ix := range te.Indexes {
		if run.names.IndexName(ix) == op.NewName {
			return []migrate.Operation{
				&migrate.DropIndexOp{Table: op.Table, Name: op.Name},
				run.factory.CreateIndex(ix),
			}, nil
		}
	}
	return nil, &migrate.InvalidOperationSequenceError{
		Table:  op.Table,
		Reason: fmt.Sprintf("index %q is missing from the target model", op.NewName),
	}
}

func findEntity(m *schema.Model, names schema.NameGenerator, table schema.QualifiedName) *schema.EntityType {
	for _, e := range m.EntityTypes() {
		if names.FullTableName(e) == table {
			return e
		}
	}
	return nil
}

//------------------------------------------------------------------------------
// CreateTable handler.

// createTableHandler swallows foreign keys already inlined in the create
// and holds index operations back until the table exists.
type createTableHandler struct {
	create   *migrate.CreateTableOp
	indexOps []migrate.Operation
}

func (h *createTableHandler) handle(run *preprocessRun, op migrate.Operation) (tableHandler, error) {
	switch op := op.(type) {
	case *migrate.AddForeignKeyOp:
		for _, fk := range h.create.ForeignKeys {
			if fk.Name == op.ForeignKey.Name {
				return h, nil
			}
		}
		return nil, &migrate.InvalidOperationSequenceError{
			Table:  h.create.Name,
			Reason: fmt.Sprintf("foreign key %q is not declared on the created table", op.ForeignKey.Name),
		}
	case *migrate.CreateIndexOp, *migrate.DropIndexOp:
		h.indexOps = append(h.indexOps, op)
		return h, nil
	default:
		return nil, &migrate.InvalidOperationSequenceError{
			Table:  h.create.Name,
			Reason: fmt.Sprintf("%s arrived for a table created in this migration", op.Kind()),
		}
	}
}

func (h *createTableHandler) flush(run *preprocessRun) ([]migrate.Operation, error) {
	return append([]migrate.Operation{h.create}, h.indexOps...), nil
}

//------------------------------------------------------------------------------
// AlterTable handler.

// alterTableHandler accumulates operations SQLite supports in place and
// emits them verbatim. The first unsupported operation upgrades it to a
// rebuildTableHandler.
type alterTableHandler struct {
	installedName schema.QualifiedName
	currentName   schema.QualifiedName
	pending       []migrate.Operation
}

func (h *alterTableHandler) handle(run *preprocessRun, op migrate.Operation) (tableHandler, error) {
	switch op := op.(type) {
	case *migrate.AddColumnOp, *migrate.CreateIndexOp, *migrate.DropIndexOp:
		h.pending = append(h.pending, op)
		return h, nil
	case *migrate.RenameTableOp:
		h.pending = append(h.pending, op)
		h.currentName = schema.QualifiedName{Schema: op.Name.Schema, Name: op.NewName}
		return h, nil
	case *migrate.MoveTableOp:
		h.pending = append(h.pending, op)
		h.currentName = schema.QualifiedName{Schema: op.NewSchema, Name: op.Name.Name}
		return h, nil
	default:
		rebuild, err := newRebuildTableHandler(run, h.installedName, h.currentName)
		if err != nil {
			return nil, err
		}
		// Pending supported operations fold into the rebuild: renames and
		// added columns are reflected by the target-model create, and index
		// operations run after it.
		for _, pending := range h.pending {
			if _, err := rebuild.handle(run, pending); err != nil {
				return nil, err
			}
		}
		return rebuild.handle(run, op)
	}
}

func (h *alterTableHandler) flush(run *preprocessRun) ([]migrate.Operation, error) {
	return h.pending, nil
}

//------------------------------------------------------------------------------
// RebuildTable handler.

// rebuildTableHandler implements the rebuild protocol: rename the existing
// table out of the way when needed, create the target table, copy the
// surviving columns, and drop the leftover once every other handler has
// flushed. columnNamePairs maps each current target column name to its
// original source column name.
type rebuildTableHandler struct {
	sourceName      schema.QualifiedName
	currentName     schema.QualifiedName
	columnNamePairs map[string]string
	indexOps        []migrate.Operation
}

func newRebuildTableHandler(run *preprocessRun, sourceName, currentName schema.QualifiedName) (*rebuildTableHandler, error) {
	se := findEntity(run.source, run.names, sourceName)
	if se == nil {
		return nil, &migrate.InvalidOperationSequenceError{
			Table:  sourceName,
			Reason: "table requires a rebuild but is missing from the source model",
		}
	}
	pairs := make(map[string]string, len(se.Properties))
	for _, p := range se.Properties {
		col := run.names.ColumnName(p)
		pairs[col] = col
	}
	return &rebuildTableHandler{
		sourceName:      sourceName,
		currentName:     currentName,
		columnNamePairs: pairs,
	}, nil
}

func (h *rebuildTableHandler) handle(run *preprocessRun, op migrate.Operation) (tableHandler, error) {
	switch op := op.(type) {
	case *migrate.RenameTableOp:
		h.currentName = schema.QualifiedName{Schema: op.Name.Schema, Name: op.NewName}
	case *migrate.MoveTableOp:
		h.currentName = schema.QualifiedName{Schema: op.NewSchema, Name: op.Name.Name}
	case *migrate.AddColumnOp:
		// Added columns have no source data and stay out of the pair map.
	case *migrate.DropColumnOp:
		delete(h.columnNamePairs, op.Name)
	case *migrate.RenameColumnOp:
		if orig, ok := h.columnNamePairs[op.Name]; ok {
			delete(h.columnNamePairs, op.Name)
			h.columnNamePairs[op.NewName] = orig
		}
	case *migrate.CreateIndexOp, *migrate.DropIndexOp:
		h.indexOps = append(h.indexOps, op)
	case *migrate.AlterColumnOp,
		*migrate.AddDefaultConstraintOp, *migrate.DropDefaultConstraintOp,
		*migrate.AddPrimaryKeyOp, *migrate.DropPrimaryKeyOp,
		*migrate.AddUniqueConstraintOp, *migrate.DropUniqueConstraintOp,
		*migrate.AddForeignKeyOp, *migrate.DropForeignKeyOp:
		// Reflected by the target-model create.
	default:
		return nil, &migrate.InvalidOperationSequenceError{
			Table:  h.currentName,
			Reason: fmt.Sprintf("%s cannot be folded into a table rebuild", op.Kind()),
		}
	}
	return h, nil
}

func (h *rebuildTableHandler) flush(run *preprocessRun) ([]migrate.Operation, error) {
	te := findEntity(run.target, run.names, h.currentName)
	if te == nil {
		return nil, &migrate.InvalidOperationSequenceError{
			Table:  h.currentName,
			Reason: "table requires a rebuild but is missing from the target model",
		}
	}
	create := run.factory.CreateTable(te)

	var out []migrate.Operation
	copySource := h.sourceName
	if h.currentName == h.sourceName {
		// The rebuilt table keeps its name, so the existing one must move
		// out of the way first.
		tmp := migrate.TempNamePrefix + h.sourceName.Name
		out = append(out, &migrate.RenameTableOp{Name: h.sourceName, NewName: tmp})
		copySource = schema.QualifiedName{Schema: h.sourceName.Schema, Name: tmp}
	}
	out = append(out, create)

	var sourceCols, targetCols []string
	for _, col := range create.Columns {
		if orig, ok := h.columnNamePairs[col.Name]; ok {
			targetCols = append(targetCols, col.Name)
			sourceCols = append(sourceCols, orig)
		}
	}
	if len(targetCols) > 0 {
		out = append(out, &migrate.CopyDataOp{
			Source:        copySource,
			SourceColumns: sourceCols,
			Target:        h.currentName,
			TargetColumns: targetCols,
		})
	}
	out = append(out, h.indexOps...)

	run.deferred = append(run.deferred, &migrate.DropTableOp{Name: copySource})
	return out, nil
}
