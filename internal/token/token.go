package token

import "fmt"

// Token is the source anchor the parser attaches to every AST node.
// Only the position is consumed by the semantic passes; Lexeme is kept for messages.
type Token struct {
	Lexeme    string
	Line      int
	Column    int
	Offset    int // Byte offset of the token start
	LineStart int // Byte offset of the first byte of Line
}

// IsZero reports whether the token carries no position.
func (t Token) IsZero() bool {
	return t.Line == 0 && t.Column == 0 && t.Offset == 0
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// At builds a token for the given position. Offsets are left at zero.
func At(line, column int) Token {
	return Token{Line: line, Column: column}
}
