package barkml

import "fmt"

// TokenKind enumerates every lexical category the lexer emits.
type TokenKind int

const (
	TokLBrace TokenKind = iota
	TokRBrace
	TokLBracket
	TokRBracket
	TokLParen
	TokRParen
	TokComma
	TokEquals
	TokColon

	TokKeyword // true, false, null, and type-name keywords
	TokIdent
	TokSymbol   // :foo
	TokLabel    // [identifier]; not emitted by the lexer, which yields "[", ident, "]"
	TokInteger
	TokFloat
	TokString
	TokBytes
	TokVersion
	TokRequire
	TokMacroRef // m!path.to.value
	TokComment

	TokEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokLBrace:
		return "{"
	case TokRBrace:
		return "}"
	case TokLBracket:
		return "["
	case TokRBracket:
		return "]"
	case TokLParen:
		return "("
	case TokRParen:
		return ")"
	case TokComma:
		return ","
	case TokEquals:
		return "="
	case TokColon:
		return ":"
	case TokKeyword:
		return "keyword"
	case TokIdent:
		return "identifier"
	case TokSymbol:
		return "symbol"
	case TokLabel:
		return "label"
	case TokInteger:
		return "integer"
	case TokFloat:
		return "float"
	case TokString:
		return "string"
	case TokBytes:
		return "bytes"
	case TokVersion:
		return "version"
	case TokRequire:
		return "require"
	case TokMacroRef:
		return "macro reference"
	case TokComment:
		return "comment"
	case TokEOF:
		return "end of file"
	default:
		return "unknown"
	}
}

// Token is a single lexeme: its kind, the raw (already-unescaped where
// applicable) text, an optional type suffix for numeric literals, and
// its source Location.
type Token struct {
	Kind   TokenKind
	Text   string
	Suffix string // numeric literal suffix, e.g. "u32", "f32"; empty otherwise
	Loc    Location
}

func (t Token) String() string {
	if t.Kind == TokEOF {
		return "<eof>"
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

// keywords is the reserved, case-sensitive keyword table: boolean/null
// literals plus every simple type name. Compound type names (array,
// table) are also reserved words but are handled by the parser once it
// sees the following "[" or "{".
var keywords = map[string]bool{
	"true":  true,
	"false": true,
	"null":  true,
	"array": true,
	"table": true,
}

func init() {
	for name := range keywordTypes {
		keywords[name] = true
	}
}

func isKeyword(ident string) bool {
	return keywords[ident]
}
