package ast

import "github.com/softfault/loom/internal/interner"

// ---- Literals ----

type IntLit struct {
	Base
	Value int64
}

func (n *IntLit) Accept(v Visitor) { v.VisitIntLit(n) }
func (n *IntLit) expressionNode()  {}

type FloatLit struct {
	Base
	Value float64
}

func (n *FloatLit) Accept(v Visitor) { v.VisitFloatLit(n) }
func (n *FloatLit) expressionNode()  {}

type BoolLit struct {
	Base
	Value bool
}

func (n *BoolLit) Accept(v Visitor) { v.VisitBoolLit(n) }
func (n *BoolLit) expressionNode()  {}

type StringLit struct {
	Base
	Value string
}

func (n *StringLit) Accept(v Visitor) { v.VisitStringLit(n) }
func (n *StringLit) expressionNode()  {}

type CharLit struct {
	Base
	Value rune
}

func (n *CharLit) Accept(v Visitor) { v.VisitCharLit(n) }
func (n *CharLit) expressionNode()  {}

type NilLit struct{ Base }

func (n *NilLit) Accept(v Visitor) { v.VisitNilLit(n) }
func (n *NilLit) expressionNode()  {}

// Identifier is a bare name reference.
type Identifier struct {
	Base
	Name interner.Symbol
}

func (n *Identifier) Accept(v Visitor) { v.VisitIdentifier(n) }
func (n *Identifier) expressionNode()  {}

// FieldAccess is `target.name`.
type FieldAccess struct {
	Base
	Target Expression
	Name   interner.Symbol
}

func (n *FieldAccess) Accept(v Visitor) { v.VisitFieldAccess(n) }
func (n *FieldAccess) expressionNode()  {}

// IndexExpr is `target[index]`.
type IndexExpr struct {
	Base
	Target Expression
	Index  Expression
}

func (n *IndexExpr) Accept(v Visitor) { v.VisitIndexExpr(n) }
func (n *IndexExpr) expressionNode()  {}

// CallExpr is `callee<GenericArgs>(Args...)`.
type CallExpr struct {
	Base
	Callee       Expression
	GenericArgs  []*TypeExpr
	Args         []Expression
}

func (n *CallExpr) Accept(v Visitor) { v.VisitCallExpr(n) }
func (n *CallExpr) expressionNode()  {}

// BinaryExpr is `Left Op Right`.
type BinaryExpr struct {
	Base
	Op    string
	Left  Expression
	Right Expression
}

func (n *BinaryExpr) Accept(v Visitor) { v.VisitBinaryExpr(n) }
func (n *BinaryExpr) expressionNode()  {}

// UnaryExpr is `Op Right` (prefix only: `-`, `!`).
type UnaryExpr struct {
	Base
	Op    string
	Right Expression
}

func (n *UnaryExpr) Accept(v Visitor) { v.VisitUnaryExpr(n) }
func (n *UnaryExpr) expressionNode()  {}

// RangeExpr is `Low..High`.
type RangeExpr struct {
	Base
	Low, High Expression
}

func (n *RangeExpr) Accept(v Visitor) { v.VisitRangeExpr(n) }
func (n *RangeExpr) expressionNode()  {}

// CastExpr is `Value as Type`.
type CastExpr struct {
	Base
	Value Expression
	Type  *TypeExpr
}

func (n *CastExpr) Accept(v Visitor) { v.VisitCastExpr(n) }
func (n *CastExpr) expressionNode()  {}

// BlockExpr is an indented sequence of statement-expressions; its value is
// the value of its last statement (or Unit if empty).
type BlockExpr struct {
	Base
	Statements []Statement
}

func (n *BlockExpr) Accept(v Visitor) { v.VisitBlockExpr(n) }
func (n *BlockExpr) expressionNode()  {}
func (n *BlockExpr) statementNode()   {}

// IfExpr is `if Cond Then (else Else)?`.
type IfExpr struct {
	Base
	Cond Expression
	Then *BlockExpr
	Else *BlockExpr // nil if absent; Else may itself be a single-statement
	// block wrapping a nested IfExpr for `else if` chains.
}

func (n *IfExpr) Accept(v Visitor) { v.VisitIfExpr(n) }
func (n *IfExpr) expressionNode()  {}
func (n *IfExpr) statementNode()   {}

// WhileExpr is `while Cond Body`.
type WhileExpr struct {
	Base
	Cond Expression
	Body *BlockExpr
}

func (n *WhileExpr) Accept(v Visitor) { v.VisitWhileExpr(n) }
func (n *WhileExpr) expressionNode()  {}
func (n *WhileExpr) statementNode()   {}

// ForExpr is `for Name in Iter Body`.
type ForExpr struct {
	Base
	Name interner.Symbol
	Iter Expression
	Body *BlockExpr
}

func (n *ForExpr) Accept(v Visitor) { v.VisitForExpr(n) }
func (n *ForExpr) expressionNode()  {}
func (n *ForExpr) statementNode()   {}

// ReturnExpr is `return Value?`.
type ReturnExpr struct {
	Base
	Value Expression // nil means implicit Unit
}

func (n *ReturnExpr) Accept(v Visitor) { v.VisitReturnExpr(n) }
func (n *ReturnExpr) expressionNode()  {}
func (n *ReturnExpr) statementNode()   {}

type BreakExpr struct{ Base }

func (n *BreakExpr) Accept(v Visitor) { v.VisitBreakExpr(n) }
func (n *BreakExpr) expressionNode()  {}
func (n *BreakExpr) statementNode()   {}

type ContinueExpr struct{ Base }

func (n *ContinueExpr) Accept(v Visitor) { v.VisitContinueExpr(n) }
func (n *ContinueExpr) expressionNode()  {}
func (n *ContinueExpr) statementNode()   {}

// ArrayLit is `[Elements...]`.
type ArrayLit struct {
	Base
	Elements []Expression
}

func (n *ArrayLit) Accept(v Visitor) { v.VisitArrayLit(n) }
func (n *ArrayLit) expressionNode()  {}

// TupleLit is `(Elements...)` with at least two elements.
type TupleLit struct {
	Base
	Elements []Expression
}

func (n *TupleLit) Accept(v Visitor) { v.VisitTupleLit(n) }
func (n *TupleLit) expressionNode()  {}

// VarDef is `name : Type = Expr`, keyword-free variable definition.
type VarDef struct {
	Base
	Name interner.Symbol
	Type *TypeExpr
	Init Expression
}

func (n *VarDef) Accept(v Visitor) { v.VisitVarDef(n) }
func (n *VarDef) expressionNode()  {}
func (n *VarDef) statementNode()   {}

// AssignExpr is `Target Op Value`; Op is "=" or a compound ("+=", ...).
type AssignExpr struct {
	Base
	Target Expression
	Op     string
	Value  Expression
}

func (n *AssignExpr) Accept(v Visitor) { v.VisitAssignExpr(n) }
func (n *AssignExpr) expressionNode()  {}
func (n *AssignExpr) statementNode()   {}

// ExprStatement wraps an Expression used at statement position so it
// satisfies Statement without every Expression type implementing
// statementNode(). Constructs that the parser already marks as
// statement-capable (Block/If/While/For/Return/Break/Continue/VarDef/
// Assign) implement statementNode() directly instead of being wrapped, to
// avoid double representation; everything else gets wrapped here.
type ExprStatement struct {
	Base
	X Expression
}

func (n *ExprStatement) Accept(v Visitor) { v.VisitExprStatement(n) }
func (n *ExprStatement) statementNode()   {}
