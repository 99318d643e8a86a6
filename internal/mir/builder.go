package mir

import "strconv"

// Builder assembles a Function incrementally: blocks and temporaries draw
// their ids from the function's own counters, exactly as
// original_source/compiler/middle_ir/builder.cpp does.
type Builder struct {
	fn *Function
}

// NewBuilder starts building a fresh function named name.
func NewBuilder(name string) *Builder {
	return &Builder{fn: &Function{Name: name}}
}

// Function returns the function built so far.
func (b *Builder) Function() *Function {
	return b.fn
}

// AppendBlock creates and appends a new block, auto-assigning its id.
func (b *Builder) AppendBlock(name string) *BasicBlock {
	block := &BasicBlock{ID: b.fn.NextBlockID, Name: name}
	b.fn.NextBlockID++
	b.fn.Blocks = append(b.fn.Blocks, block)

	return block
}

// AppendInstruction appends an instruction of kind to block.
func (b *Builder) AppendInstruction(block *BasicBlock, kind InstructionKind) *Instruction {
	block.Instructions = append(block.Instructions, Instruction{Kind: kind})

	return &block.Instructions[len(block.Instructions)-1]
}

// MakeTemporary allocates a fresh temporary Value, auto-assigning its id
// and deriving its default name ("t<id>") when name is empty.
func (b *Builder) MakeTemporary(name string) Value {
	id := b.fn.NextValueID
	b.fn.NextValueID++

	if name == "" {
		name = "t" + strconv.Itoa(id)
	}

	return Value{Kind: Temporary, ID: id, Name: name}
}
