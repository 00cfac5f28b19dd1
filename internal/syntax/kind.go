// Package syntax holds the language neutral syntax tree the instrumentor
// walks. Front ends convert their native trees into an arena of immutable
// node records addressed by NodeID.
package syntax

// Kind is the syntactic category of a node.
type Kind uint8

// Node kinds.
const (
	KindInvalid Kind = iota
	KindFile
	KindFunction    // function definition, Body is its Compound
	KindLambda      // function literal, Body is its Compound
	KindCompound    // brace-delimited statement block
	KindStmtList    // statement sequence without braces (case body)
	KindStatement   // any other statement
	KindExpression  // any other expression
	KindIf          // Then, optional Else
	KindConditional // ternary expression, Then and Else arms
	KindLogical     // short-circuit operator, Then is the guarded operand
	KindLoop        // Body
	KindSwitch      // switch or select, Body holds the cases
	KindCase        // case or default clause, Body is a StmtList
	KindLabel       // goto target, Body is the labeled statement
	KindTry         // Body plus Handler children
	KindHandler     // catch clause, Body
	KindJump        // see JumpKind
	KindCall        // call expression, Name is the callee
	KindInclude     // textual inclusion, Target is the resolved path
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindFile:        "file",
	KindFunction:    "function",
	KindLambda:      "lambda",
	KindCompound:    "compound",
	KindStmtList:    "stmt-list",
	KindStatement:   "statement",
	KindExpression:  "expression",
	KindIf:          "if",
	KindConditional: "conditional",
	KindLogical:     "logical",
	KindLoop:        "loop",
	KindSwitch:      "switch",
	KindCase:        "case",
	KindLabel:       "label",
	KindTry:         "try",
	KindHandler:     "handler",
	KindJump:        "jump",
	KindCall:        "call",
	KindInclude:     "include",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "kind(?)"
}

// JumpKind distinguishes jump statements.
type JumpKind uint8

// Jump kinds.
const (
	JumpNone JumpKind = iota
	JumpReturn
	JumpBreak
	JumpContinue
	JumpGoto
	JumpThrow
	JumpCall // call that may not return normally
)

func (j JumpKind) String() string {
	switch j {
	case JumpReturn:
		return "return"
	case JumpBreak:
		return "break"
	case JumpContinue:
		return "continue"
	case JumpGoto:
		return "goto"
	case JumpThrow:
		return "throw"
	case JumpCall:
		return "call"
	}

	return "none"
}

// Flags carry front end facts about a node.
type Flags uint16

// Node flags.
const (
	// Excluded nodes and their subtrees are never instrumented.
	Excluded Flags = 1 << iota
	// Generated marks compiler or tool generated code.
	Generated
	// Definition marks a function declaration that has a body.
	Definition
	// Implicit marks implicitly declared functions.
	Implicit
	// ConstEval marks functions evaluated at compile time.
	ConstEval
	// Main marks the program entry point.
	Main
	// SafeCall marks calls that always return normally.
	SafeCall
)

// Has reports whether all of f's bits are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}
