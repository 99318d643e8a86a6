// Package mir implements the mid-level IR: HIR lowers into a per-function
// control-flow graph of typed instructions, which the passes subpackage
// then analyses and converts to SSA form.
package mir

// ValueKind closes the set of shapes a Value can take.
type ValueKind int

const (
	Temporary ValueKind = iota
	ParameterValue
	Constant
	Global
)

// Value identifies a datum flowing through MIR instructions. A
// temporary's ID is unique within its function pre-SSA and remains
// stable through rename as Instruction.OriginalTemporaryID.
type Value struct {
	Kind ValueKind
	ID   int
	Name string
}

// Operand is a use of a Value; PredecessorBlockID is set only on a Phi
// instruction's operands, naming the incoming edge's source block.
type Operand struct {
	Value              Value
	PredecessorBlockID *int
}

// InstructionKind closes the set of instruction shapes. Ordinal values
// (used by the canonical print form) follow this declaration order
// exactly: Nop=0 .. Phi=9.
type InstructionKind int

const (
	Nop InstructionKind = iota
	Return
	Call
	Branch
	CondBranch
	Load
	Store
	Unary
	Binary
	Phi
)

var instructionKindNames = [...]string{
	"Nop", "Return", "Call", "Branch", "CondBranch", "Load", "Store", "Unary", "Binary", "Phi",
}

func (k InstructionKind) String() string {
	if int(k) >= 0 && int(k) < len(instructionKindNames) {
		return instructionKindNames[k]
	}

	return "Unknown"
}

// Instruction is one step within a basic block. Detail is a human- and
// canonical-print-facing annotation string; its exact contents are
// produced by lowering (see lowering.go) and never reinterpreted by any
// pass.
type Instruction struct {
	Kind                InstructionKind
	Operands            []Operand
	Result              *Value
	Detail              string
	Successors          []int
	OriginalTemporaryID *int
}

// IsTerminator reports whether this instruction is a legal block
// terminator: Return, Branch, or CondBranch.
func (i Instruction) IsTerminator() bool {
	return i.Kind == Return || i.Kind == Branch || i.Kind == CondBranch
}

// BasicBlock is a straight-line instruction sequence. Its terminator is
// its last instruction.
type BasicBlock struct {
	ID           int
	Name         string
	Instructions []Instruction
}

// Parameter is a function parameter's MIR-level shape: just enough to
// reproduce the lowering's detail strings and to drive Live enforcement.
type Parameter struct {
	Name                  string
	Type                  string
	IsLiveValue           bool
	HasDefaultValue       bool
	DefaultValue          string
	RequiresExplicitValue bool
}

// Function is a lowered function or synthetic blueprint function. The
// first block is the entry and must be named "entry".
type Function struct {
	Name                   string
	Parameters             []Parameter
	HasReturnType          bool
	ReturnType             string
	ReturnIsLive           bool
	Blocks                 []*BasicBlock
	NextBlockID            int
	NextValueID            int
	IsBlueprintConstructor bool
	IsBlueprintDestructor  bool
	BlueprintName          string
}

// Module is the MIR for one compilation unit.
type Module struct {
	PackageName        string
	ModuleName         string
	CanonicalModulePath string
	Imports            []string
	ResolvedImports    []string
	Functions          []*Function
}
