package expr

import (
	"slices"
	"testing"
)

func TestScannerKinds(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Kind
	}{
		{
			name: "keywords",
			text: "not $a and $b-c or 1px",
			want: []Kind{NotKeyword, VariableToken, And, VariableToken, Or, Number},
		},
		{
			name: "keyword prefix is a word",
			text: "nothing notable",
			want: []Kind{Word, Word},
		},
		{
			name: "call and color",
			text: "darken(#fff, 10%) !important",
			want: []Kind{Function, LParen, Color, Comma, Number, RParen, Important},
		},
		{
			name: "raw call",
			text: "url(a/b.png)",
			want: []Kind{RawCall},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScanner(tt.text)
			if err != nil {
				t.Fatal(err)
			}

			var got []Kind

			for {
				tok, err := s.Scan()
				if err != nil {
					t.Fatal(err)
				}

				if tok.Kind == EOF {
					break
				}

				got = append(got, tok.Kind)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScannerAccept(t *testing.T) {
	s, err := NewScanner("not $flag")
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Accept(VariableToken); ok {
		t.Fatal("accepted a variable before the keyword")
	}

	if tok, ok := s.Accept(NotKeyword); !ok || tok.Text != "not" {
		t.Fatalf("Accept(not) = %+v, %v", tok, ok)
	}

	tok, err := s.Scan(VariableToken)
	if err != nil {
		t.Fatal(err)
	}

	if tok.Text != "$flag" || !tok.Space {
		t.Errorf("variable token = %+v", tok)
	}

	if NotKeyword.String() != "not" || VariableToken.String() != "variable" {
		t.Errorf("kind names = %q, %q", NotKeyword, VariableToken)
	}
}
