package curl

import (
	"reflect"
	"testing"
)

func lexAll(s string) []Token {
	l := NewLexer(s)
	var out []Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == EOF {
			return out
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty string",
			input: "",
			want:  []Token{{Kind: EOF}},
		},
		{
			name:  "keyword and url",
			input: "curl https://example.com",
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Text, Value: "https://example.com", Pos: 5},
				{Kind: EOF, Pos: 24},
			},
		},
		{
			name:  "flags",
			input: "curl -H x --compressed",
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: FlagToken, Value: "-H", Pos: 5},
				{Kind: Text, Value: "x", Pos: 8},
				{Kind: FlagToken, Value: "--compressed", Pos: 10},
				{Kind: EOF, Pos: 22},
			},
		},
		{
			name:  "single quotes are literal",
			input: `curl 'a\"b c'`,
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Text, Value: `a\"b c`, Pos: 5},
				{Kind: EOF, Pos: 13},
			},
		},
		{
			name:  "double quote escapes",
			input: `curl "say \"hi\""`,
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Text, Value: `say "hi"`, Pos: 5},
				{Kind: EOF, Pos: 17},
			},
		},
		{
			name:  "adjacent runs concatenate",
			input: `curl a'b c'"d"`,
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Text, Value: "ab cd", Pos: 5},
				{Kind: EOF, Pos: 14},
			},
		},
		{
			name:  "unquoted escape",
			input: `curl a\ b`,
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Text, Value: "a b", Pos: 5},
				{Kind: EOF, Pos: 9},
			},
		},
		{
			name:  "line continuation",
			input: "curl \\\n  -X POST",
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: FlagToken, Value: "-X", Pos: 9},
				{Kind: Text, Value: "POST", Pos: 12},
				{Kind: EOF, Pos: 16},
			},
		},
		{
			name:  "quoted dash is text",
			input: `curl '-H'`,
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Text, Value: "-H", Pos: 5},
				{Kind: EOF, Pos: 9},
			},
		},
		{
			name:  "lone dash is text",
			input: "curl -",
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Text, Value: "-", Pos: 5},
				{Kind: EOF, Pos: 6},
			},
		},
		{
			name:  "empty quotes produce empty text",
			input: "curl ''",
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Text, Value: "", Pos: 5},
				{Kind: EOF, Pos: 7},
			},
		},
		{
			name:  "first word is always the keyword",
			input: "wget http://x",
			want: []Token{
				{Kind: Keyword, Value: "wget"},
				{Kind: Text, Value: "http://x", Pos: 5},
				{Kind: EOF, Pos: 13},
			},
		},
		{
			name:  "unterminated single quote",
			input: "curl 'http://x",
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Error, Value: "unterminated single quote", Pos: 5},
				{Kind: EOF, Pos: 14},
			},
		},
		{
			name:  "unterminated double quote",
			input: `curl "abc\"`,
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Error, Value: "unterminated double quote", Pos: 5},
				{Kind: EOF, Pos: 11},
			},
		},
		{
			name:  "trailing backslash",
			input: `curl abc\`,
			want: []Token{
				{Kind: Keyword, Value: "curl"},
				{Kind: Error, Value: "unterminated escape sequence", Pos: 5},
				{Kind: EOF, Pos: 9},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexAll(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("tokens = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLexerEOFIsAbsorbing(t *testing.T) {
	l := NewLexer("curl")
	if tok := l.Next(); tok.Kind != Keyword {
		t.Fatalf("first token = %v, want keyword", tok)
	}
	for i := range 3 {
		if tok := l.Next(); tok.Kind != EOF {
			t.Fatalf("call %d: token = %v, want EOF", i, tok)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{EOF, "end of input"},
		{Error, "error"},
		{Keyword, "keyword"},
		{FlagToken, "flag"},
		{Text, "text"},
		{Kind(42), "Kind(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}

	// A flag token is lexed separately from the Flag variant it parses into.
	l := NewLexer("curl --compressed")
	l.Next()
	if tok := l.Next(); tok.Kind != FlagToken {
		t.Fatalf("token = %v, want flag", tok)
	}
	var f Flag = Compressed{}
	if _, ok := f.(Compressed); !ok {
		t.Fatal("Compressed does not implement Flag")
	}
}
