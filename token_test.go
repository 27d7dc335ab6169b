package mathex

import "testing"

func TestLexer(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		{"", nil, 0},
		{" \t \r ", nil, 0},
		{"0", []lexToken{{kind: tokNumber, text: "0", pos: 0}}, 0},
		{"12.5", []lexToken{{kind: tokNumber, text: "12.5", pos: 0}}, 0},
		{".5", []lexToken{{kind: tokNumber, text: ".5", pos: 0}}, 0},
		{"x", []lexToken{{kind: tokIdent, text: "x", pos: 0}}, 0},
		{"foo123", []lexToken{{kind: tokIdent, text: "foo123", pos: 0}}, 0},
		{"(a)", []lexToken{
			{kind: tokOpen, text: "(", pos: 0},
			{kind: tokIdent, text: "a", pos: 1},
			{kind: tokClose, text: ")", pos: 2},
		}, 0},
		{"a+b", []lexToken{
			{kind: tokIdent, text: "a", pos: 0},
			{kind: tokOperator, text: "+", pos: 1},
			{kind: tokIdent, text: "b", pos: 2},
		}, 0},
		{"a<=b", []lexToken{
			{kind: tokIdent, text: "a", pos: 0},
			{kind: tokOperator, text: "<=", pos: 1},
			{kind: tokIdent, text: "b", pos: 3},
		}, 0},
		{"-1", []lexToken{
			{kind: tokOperator, text: "-", pos: 0},
			{kind: tokNumber, text: "1", pos: 1},
		}, 0},
		{"a,b", []lexToken{
			{kind: tokIdent, text: "a", pos: 0},
			{kind: tokOperator, text: ",", pos: 1},
			{kind: tokIdent, text: "b", pos: 2},
		}, 0},
	}

	for _, c := range cases {
		lx := newLexer(c.src)
		errs := 0
		var got []lexToken
		for {
			tok, err := lx.next()
			if err != nil {
				errs++
				break
			}
			if tok.kind == tokEOF {
				break
			}
			got = append(got, tok)
		}
		if len(got) != len(c.tokens) {
			t.Errorf("lexing %q: want %d tokens, got %d (%v)", c.src, len(c.tokens), len(got), got)
			continue
		}
		for i, want := range c.tokens {
			if got[i] != want {
				t.Errorf("lexing %q: token %d want %+v, got %+v", c.src, i, want, got[i])
			}
		}
		if errs != c.errs {
			t.Errorf("lexing %q: want %d errors, got %d", c.src, c.errs, errs)
		}
	}
}

func TestLexerRequiresOperatorBetweenNumbers(t *testing.T) {
	lx := newLexer("1 2")
	if _, err := lx.next(); err != nil {
		t.Fatalf("first token: %v", err)
	}
	if _, err := lx.next(); err == nil {
		t.Fatal("want an error for a bare number where an operator is required")
	}
}

func TestLexerNewlineSeparator(t *testing.T) {
	lx := newLexer("1\n2")
	tok, err := lx.next()
	if err != nil || tok.kind != tokNumber {
		t.Fatalf("first token: %+v, %v", tok, err)
	}
	tok, err = lx.next()
	if err != nil || tok.kind != tokOperator || tok.text != "," {
		t.Fatalf("newline should lex as a comma separator, got %+v, %v", tok, err)
	}
	tok, err = lx.next()
	if err != nil || tok.kind != tokNumber || tok.text != "2" {
		t.Fatalf("third token: %+v, %v", tok, err)
	}
}

func TestParseNumberLiteral(t *testing.T) {
	cases := []struct {
		text string
		want Scalar
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"3.5", 3.5, true},
		{".5", 0.5, true},
		{"1.", 1, true},
		{"1.2.3", 0, false},
		{".", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := parseNumberLiteral(c.text)
		if ok != c.ok {
			t.Errorf("parseNumberLiteral(%q): want ok=%v, got %v", c.text, c.ok, ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("parseNumberLiteral(%q): want %v, got %v", c.text, c.want, got)
		}
	}
}
