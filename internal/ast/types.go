// Package ast defines the schema model and the operations a migration is
// built from. Planners produce Operations; renderers turn them into code or SQL.
package ast

// OpType identifies an Operation variant.
type OpType int

const (
	OpCreateTable OpType = iota
	OpDropTable
	OpAddColumn
	OpChangeColumn
	OpRemoveColumn
	OpRawSQL // backfills and truncations
)

var opNames = [...]string{
	OpCreateTable:  "CreateTable",
	OpDropTable:    "DropTable",
	OpAddColumn:    "AddColumn",
	OpChangeColumn: "ChangeColumn",
	OpRemoveColumn: "RemoveColumn",
	OpRawSQL:       "RawSQL",
}

func (o OpType) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "Unknown"
	}
	return opNames[o]
}

// Effect classifies what an operation does to the schema.
type Effect int

const (
	EffectData   Effect = iota // rewrites rows, schema unchanged
	EffectCreate               // adds a table or column
	EffectAlter                // redefines a column
	EffectDrop                 // removes a table or column, losing its data
)

// Effect returns the schema effect of the operation type.
func (o OpType) Effect() Effect {
	switch o {
	case OpCreateTable, OpAddColumn:
		return EffectCreate
	case OpChangeColumn:
		return EffectAlter
	case OpDropTable, OpRemoveColumn:
		return EffectDrop
	}
	return EffectData
}
