package expr

// Kind identifies the class of a scanned token.
type Kind int

const (
	EOF Kind = iota
	LParen
	RParen
	Comma
	Colon
	Ellipsis
	Add
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
	NotKeyword
	Important
	Flag
	Number
	Color
	VariableToken
	Function
	RawCall
	Word
	String
)

var kindNames = [...]string{
	EOF:           "end of input",
	LParen:        "(",
	RParen:        ")",
	Comma:         ",",
	Colon:         ":",
	Ellipsis:      "...",
	Add:           "+",
	Sub:           "-",
	Mul:           "*",
	Div:           "/",
	Mod:           "%",
	Eq:            "==",
	Ne:            "!=",
	Lt:            "<",
	Le:            "<=",
	Gt:            ">",
	Ge:            ">=",
	And:           "and",
	Or:            "or",
	NotKeyword:    "not",
	Important:     "!important",
	Flag:          "flag",
	Number:        "number",
	Color:         "color",
	VariableToken: "variable",
	Function:      "function",
	RawCall:       "function",
	Word:          "identifier",
	String:        "string",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}

	return kindNames[k]
}

// Token is one lexeme of an expression.
type Token struct {
	Kind Kind
	Text string
	// Pos is the byte offset of the token in the scanned text.
	Pos int
	// Space reports whether whitespace precedes the token.
	Space bool
}

// startsOperand reports whether a token of kind k can begin an operand of a
// space-separated list.
func (k Kind) startsOperand() bool {
	switch k {
	case LParen, Number, Color, VariableToken, Function, RawCall, Word, String,
		Important, Sub, Add, NotKeyword:
		return true
	default:
		return false
	}
}
