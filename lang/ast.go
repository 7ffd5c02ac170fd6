package lang

// Node is a statement or function value in a [Program].
//
// The set of node types is closed: [FunctionDecl], [HigherOrderFunction],
// [AnonymousFunction], [Call], [Return], [Print], [VarDecl], and
// [IfCondition].
type Node interface {
	// NodeType returns the name of the concrete node type.
	NodeType() string
	// Position returns the location of the node's first token.
	Position() Position

	node()
}

// Program is an ordered sequence of top-level statements.
type Program struct {
	Statements []Node
}

// VarType is the declared type of a variable.
type VarType int

const (
	TypeInteger VarType = iota // Integer
	TypeText                   // Text
)

func (t VarType) String() string {
	if t == TypeInteger {
		return "Integer"
	}

	return "Text"
}

// FunctionDecl declares a named function.
type FunctionDecl struct {
	Name       string
	Parameters []string
	Body       []Node
	Pos        Position
}

// Param is a parameter of a [HigherOrderFunction]. A Callable parameter
// receives a function value.
type Param struct {
	Name     string
	Callable bool
}

// HigherOrderFunction declares a named function that has at least one
// callable parameter.
type HigherOrderFunction struct {
	Name       string
	Parameters []Param
	Body       []Node
	Pos        Position
}

// AnonymousFunction is a function value with no bound name. It appears as a
// call argument.
type AnonymousFunction struct {
	Parameters []string
	Body       []Node
	Pos        Position
}

// Argument is one argument of a [Call]. Raw holds the argument text as
// written; Function is set when the argument is a function literal.
type Argument struct {
	Raw      string
	Function *AnonymousFunction
}

// Call invokes a function by name.
type Call struct {
	Name      string
	Arguments []Argument
	Pos       Position
}

// Return yields its raw value text as a result. It does not leave the
// enclosing body.
type Return struct {
	Value string
	Pos   Position
}

// Print writes a value to the program output. Exactly one of Expression,
// a variable reference (IsVariable with Value holding the name), or a literal
// Value applies, in that order.
type Print struct {
	Expression string
	IsVariable bool
	Value      string
	Pos        Position
}

// VarDecl declares a variable with raw value text.
type VarDecl struct {
	Type  VarType
	Name  string
	Value string
	Pos   Position
}

// IfCondition runs Body when Condition holds and Else otherwise. Else is nil
// when the statement has no else branch.
type IfCondition struct {
	Condition string
	Body      []Node
	Else      []Node
	Pos       Position
}

// HasElse reports whether the statement has an else branch.
func (n *IfCondition) HasElse() bool { return n.Else != nil }

func (*FunctionDecl) NodeType() string        { return "FunctionDecl" }
func (*HigherOrderFunction) NodeType() string { return "HigherOrderFunction" }
func (*AnonymousFunction) NodeType() string   { return "AnonymousFunction" }
func (*Call) NodeType() string                { return "Call" }
func (*Return) NodeType() string              { return "Return" }
func (*Print) NodeType() string               { return "Print" }
func (*VarDecl) NodeType() string             { return "VarDecl" }
func (*IfCondition) NodeType() string         { return "IfCondition" }

func (n *FunctionDecl) Position() Position        { return n.Pos }
func (n *HigherOrderFunction) Position() Position { return n.Pos }
func (n *AnonymousFunction) Position() Position   { return n.Pos }
func (n *Call) Position() Position                { return n.Pos }
func (n *Return) Position() Position              { return n.Pos }
func (n *Print) Position() Position               { return n.Pos }
func (n *VarDecl) Position() Position             { return n.Pos }
func (n *IfCondition) Position() Position         { return n.Pos }

func (*FunctionDecl) node()        {}
func (*HigherOrderFunction) node() {}
func (*AnonymousFunction) node()   {}
func (*Call) node()                {}
func (*Return) node()              {}
func (*Print) node()               {}
func (*VarDecl) node()             {}
func (*IfCondition) node()         {}
