package lexer

import "testing"

func TestLexEmptyInputYieldsSingleEOF(t *testing.T) {
	tokens, diags := Lex("t.bolt", "")

	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}

	if len(tokens) != 1 || tokens[0].Kind != EOF {
		t.Fatalf("expected single EOF token, got %v", tokens)
	}
}

func TestLexModuleHeader(t *testing.T) {
	tokens, diags := Lex("t.bolt", "package demo; module demo;\n")

	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}

	want := []Kind{KeywordPackage, Identifier, Semicolon, KeywordModule, Identifier, Semicolon, EOF}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d (%v)", len(want), len(tokens), tokens)
	}

	for i, k := range want {
		if tokens[i].Kind != k {
			t.Errorf("token %d: expected kind %v, got %v", i, k, tokens[i].Kind)
		}
	}
}

func TestLexIdentifierWithUnderscoreEmitsE2001ButKeepsToken(t *testing.T) {
	tokens, diags := Lex("t.bolt", "my_name")

	if len(diags) != 1 || diags[0].Code != "BOLT-E2001" {
		t.Fatalf("expected one BOLT-E2001 diagnostic, got %v", diags)
	}

	if tokens[0].Kind != Identifier || tokens[0].Text != "my_name" {
		t.Fatalf("expected identifier token 'my_name', got %+v", tokens[0])
	}
}

func TestLexHexAndBinaryIntegers(t *testing.T) {
	tokens, diags := Lex("t.bolt", "0xFF 0b101 42")

	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}

	want := []string{"0xFF", "0b101", "42"}
	for i, text := range want {
		if tokens[i].Kind != IntegerLiteral || tokens[i].Text != text {
			t.Errorf("token %d: expected integer literal %q, got %+v", i, text, tokens[i])
		}
	}
}

func TestLexUnterminatedStringEmitsE2002(t *testing.T) {
	_, diags := Lex("t.bolt", `"unterminated`)

	if len(diags) != 1 || diags[0].Code != "BOLT-E2002" {
		t.Fatalf("expected one BOLT-E2002 diagnostic, got %v", diags)
	}
}

func TestLexUnterminatedBlockCommentEmitsE2003(t *testing.T) {
	_, diags := Lex("t.bolt", "/* never closed")

	if len(diags) != 1 || diags[0].Code != "BOLT-E2003" {
		t.Fatalf("expected one BOLT-E2003 diagnostic, got %v", diags)
	}
}

func TestLexDoubleAngleDoesNotCollapse(t *testing.T) {
	tokens, _ := Lex("t.bolt", "a<b<c>>")

	var angles int

	for _, tok := range tokens {
		if tok.Kind == RAngle {
			angles++
		}
	}

	if angles != 2 {
		t.Fatalf("expected two separate '>' tokens for '>>', got %d", angles)
	}
}

func TestLexTwoCharacterPunctuation(t *testing.T) {
	tokens, diags := Lex("t.bolt", "-> == != <= >= ++ -- += -= &&")

	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}

	want := []Kind{Arrow, EqEq, NotEq, LtEq, GtEq, PlusPlus, MinusMinus, PlusEq, MinusEq, AndAnd}
	for i, k := range want {
		if tokens[i].Kind != k {
			t.Errorf("token %d: expected %v, got %v", i, k, tokens[i].Kind)
		}
	}
}

func TestLexUnknownCharacterEmitsE2000(t *testing.T) {
	_, diags := Lex("t.bolt", "@")

	if len(diags) != 1 || diags[0].Code != "BOLT-E2000" {
		t.Fatalf("expected one BOLT-E2000 diagnostic, got %v", diags)
	}
}
