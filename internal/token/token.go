// Package token defines the token kinds produced by the lexer and consumed
// by the parser.
package token

import "fmt"

// Type identifies a lexical category.
type Type int

const (
	ILLEGAL Type = iota
	EOF

	// Layout, synthesised by the lexer from indentation (spec.md §4.3).
	NEWLINE
	INDENT
	DEDENT

	// Literals and names.
	IDENT
	INT
	FLOAT
	STRING
	CHAR

	// Keywords.
	CLASS
	FN
	USE
	AS
	RETURN
	IF
	ELSE
	WHILE
	FOR
	IN
	BREAK
	CONTINUE
	SELF
	TRUE
	FALSE
	NIL_KW
	AND
	OR

	// Punctuation.
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	DOT_DOT
	COLON
	ARROW // =>
	QUESTION

	// Operators.
	ASSIGN
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG
	LT
	GT
	LE
	GE
	EQ
	NOT_EQ
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
)

var names = map[Type]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	NEWLINE: "NEWLINE", INDENT: "INDENT", DEDENT: "DEDENT",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING", CHAR: "CHAR",
	CLASS: "class", FN: "fn", USE: "use", AS: "as", RETURN: "return",
	IF: "if", ELSE: "else", WHILE: "while", FOR: "for", IN: "in",
	BREAK: "break", CONTINUE: "continue", SELF: "self",
	TRUE: "true", FALSE: "false", NIL_KW: "nil", AND: "and", OR: "or",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", DOT: ".", DOT_DOT: "..",
	COLON: ":", ARROW: "=>", QUESTION: "?",
	ASSIGN: "=", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	BANG: "!", LT: "<", GT: ">", LE: "<=", GE: ">=", EQ: "==", NOT_EQ: "!=",
	PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=",
	SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

var keywords = map[string]Type{
	"class": CLASS, "fn": FN, "use": USE, "as": AS, "return": RETURN,
	"if": IF, "else": ELSE, "while": WHILE, "for": FOR, "in": IN,
	"break": BREAK, "continue": CONTINUE, "self": SELF,
	"true": TRUE, "false": FALSE, "nil": NIL_KW, "and": AND, "or": OR,
}

// LookupIdent classifies an identifier-shaped lexeme as a keyword Type, or
// IDENT if it names none.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Token is one lexeme with its source position, expressed as a byte offset
// range so the parser and analyzer can hand it to source.Manager for
// human-readable location lookups without the lexer importing source.
type Token struct {
	Type    Type
	Lexeme  string
	Literal any // string/int64/float64/rune for literal tokens; the name string for identifiers and keywords; nil otherwise
	Start   int // byte offset of Lexeme[0] in the file
	End     int // byte offset just past Lexeme
	Line    int
	Column  int
}
