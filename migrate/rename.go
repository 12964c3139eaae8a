package migrate

import (
	"strconv"

	"github.com/easydom/relmigrate/schema"
)

// tempNamer hands out fresh __mig_tmp__<n> names within one Diff call.
type tempNamer struct {
	n int
}

func (t *tempNamer) next() string {
	name := TempNamePrefix + strconv.Itoa(t.n)
	t.n++
	return name
}

// resolveRenameCycles breaks transitive renames within each rename category.
// A conflict exists when a later rename's source equals an earlier rename's
// new name: applied in order, the earlier rename would collide with an
// object that still exists. The earlier rename is rewritten to a fresh temp
// name and a trailing rename moves the temp to the intended name, so at
// every prefix of the plan all names are unique.
func (d *Differ) resolveRenameCycles(st *diffState) {
	d.resolveTableRenames(st)
	d.resolveSequenceRenames(st)
	d.resolveColumnRenames(st)
	d.resolveIndexRenames(st)
}

func (d *Differ) resolveTableRenames(st *diffState) {
	ops := st.ops.get(KindRenameTable)
	var tail []Operation
	for i := 0; i < len(ops); i++ {
		ri := ops[i].(*RenameTableOp)
		intended := schema.QualifiedName{Schema: ri.Name.Schema, Name: ri.NewName}
		for j := i + 1; j < len(ops); j++ {
			if ops[j].(*RenameTableOp).Name == intended {
				tmp := st.tmp.next()
				d.log.Debug().
					Str("table", ri.Name.String()).
					Str("temp", tmp).
					Msg("breaking table rename cycle")
				tail = append(tail, &RenameTableOp{
					Name:    schema.QualifiedName{Schema: ri.Name.Schema, Name: tmp},
					NewName: ri.NewName,
				})
				ops[i] = &RenameTableOp{Name: ri.Name, NewName: tmp}
				break
			}
		}
	}
	if tail != nil {
		st.ops.replace(KindRenameTable, append(ops, tail...))
	}
}

func (d *Differ) resolveSequenceRenames(st *diffState) {
	ops := st.ops.get(KindRenameSequence)
	var tail []Operation
	for i := 0; i < len(ops); i++ {
		ri := ops[i].(*RenameSequenceOp)
		intended := schema.QualifiedName{Schema: ri.Name.Schema, Name: ri.NewName}
		for j := i + 1; j < len(ops); j++ {
			if ops[j].(*RenameSequenceOp).Name == intended {
				tmp := st.tmp.next()
				tail = append(tail, &RenameSequenceOp{
					Name:    schema.QualifiedName{Schema: ri.Name.Schema, Name: tmp},
					NewName: ri.NewName,
				})
				ops[i] = &RenameSequenceOp{Name: ri.Name, NewName: tmp}
				break
			}
		}
	}
	if tail != nil {
		st.ops.replace(KindRenameSequence, append(ops, tail...))
	}
}

func (d *Differ) resolveColumnRenames(st *diffState) {
	ops := st.ops.get(KindRenameColumn)
	var tail []Operation
	for i := 0; i < len(ops); i++ {
		ri := ops[i].(*RenameColumnOp)
		for j := i + 1; j < len(ops); j++ {
			rj := ops[j].(*RenameColumnOp)
			if rj.Table == ri.Table && rj.Name == ri.NewName {
				tmp := st.tmp.next()
				tail = append(tail, &RenameColumnOp{Table: ri.Table, Name: tmp, NewName: ri.NewName})
				ops[i] = &RenameColumnOp{Table: ri.Table, Name: ri.Name, NewName: tmp}
				break
			}
		}
	}
	if tail != nil {
		st.ops.replace(KindRenameColumn, append(ops, tail...))
	}
}

func (d *Differ) resolveIndexRenames(st *diffState) {
	ops := st.ops.get(KindRenameIndex)
	var tail []Operation
	for i := 0; i < len(ops); i++ {
		ri := ops[i].(*RenameIndexOp)
		for j := i + 1; j < len(ops); j++ {
			rj := ops[j].(*RenameIndexOp)
			if rj.Table == ri.Table && rj.Name == ri.NewName {
				tmp := st.tmp.next()
				tail = append(tail, &RenameIndexOp{Table: ri.Table, Name: tmp, NewName: ri.NewName})
				ops[i] = &RenameIndexOp{Table: ri.Table, Name: ri.Name, NewName: tmp}
				break
			}
		}
	}
	if tail != nil {
		st.ops.replace(KindRenameIndex, append(ops, tail...))
	}
}
