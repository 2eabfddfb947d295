package source

import "testing"

func TestTokenizeWordsAndNumbers(t *testing.T) {
	toks, err := Tokenize("<test>", "3 4 + dup-.copy 0x1F 0b101 1_000 -5 1.5e2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		kind TokenKind
		text string
	}{
		{TokenNumber, "3"},
		{TokenNumber, "4"},
		{TokenWord, "+"},
		{TokenWord, "dup-.copy"},
		{TokenNumber, "0x1F"},
		{TokenNumber, "0b101"},
		{TokenNumber, "1_000"},
		{TokenNumber, "-5"},
		{TokenNumber, "1.5e2"},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}

	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d: got {%v %q}, want {%v %q}", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}

	if toks[0].Int != 3 || toks[0].IsFloat {
		t.Errorf("token 0 not parsed as int 3: %+v", toks[0])
	}
	if toks[4].Int != 0x1F {
		t.Errorf("hex literal: got %d, want 31", toks[4].Int)
	}
	if toks[5].Int != 5 {
		t.Errorf("binary literal: got %d, want 5", toks[5].Int)
	}
	if toks[6].Int != 1000 {
		t.Errorf("underscore literal: got %d, want 1000", toks[6].Int)
	}
	if toks[7].Int != -5 {
		t.Errorf("negative literal: got %d, want -5", toks[7].Int)
	}
	if !toks[8].IsFloat || toks[8].Float != 150 {
		t.Errorf("exponent literal: got %+v, want float 150", toks[8])
	}
}

func TestTokenizeSingleLineString(t *testing.T) {
	toks, err := Tokenize("<test>", `"hello\nworld\t\"!\\\0end"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != TokenString {
		t.Fatalf("expected a single string token, got %+v", toks)
	}
	want := "hello\nworld\t\"!\\\x00end"
	if toks[0].Text != want {
		t.Errorf("got %q, want %q", toks[0].Text, want)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize("<test>", `"unterminated`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestTokenizeNewlineInSingleLineString(t *testing.T) {
	_, err := Tokenize("<test>", "\"line one\nline two\"")
	if err == nil {
		t.Fatal("expected an error for a raw newline in a single-line string")
	}
}

func TestTokenizeMultiLineStringStripsIndent(t *testing.T) {
	src := "\"* first\n     second\n     third *\""
	toks, err := Tokenize("<test>", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != TokenString {
		t.Fatalf("expected a single string token, got %+v", toks)
	}
	want := "first\n  second\n  third "
	if toks[0].Text != want {
		t.Errorf("got %q, want %q", toks[0].Text, want)
	}
}

func TestTokenizeLocationTracking(t *testing.T) {
	toks, err := Tokenize("<test>", "one\ntwo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Location.Line != 1 || toks[0].Location.Column != 1 {
		t.Errorf("first token location: %+v", toks[0].Location)
	}
	if toks[1].Location.Line != 2 || toks[1].Location.Column != 1 {
		t.Errorf("second token location: %+v", toks[1].Location)
	}
}

func TestTokenizeWordFallbackOnBadNumber(t *testing.T) {
	toks, err := Tokenize("<test>", "1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != TokenWord {
		t.Fatalf("expected malformed numeric lexeme to fall back to a word, got %+v", toks)
	}
}
