package repl

import (
	"context"
	"slices"
	"testing"
)

func feed(t *testing.T, s *Session, lines ...string) (outputs []string, ready bool, err error) {
	t.Helper()

	for _, line := range lines {
		results, ok, ferr := s.Feed(context.Background(), line)
		ready, err = ok, ferr

		outputs = append(outputs, slices.Collect(results.Outputs())...)
	}

	return outputs, ready, err
}

func TestSession_Feed(t *testing.T) {
	s := NewSession()

	if _, ready, err := feed(t, s, `integerNamed <x> hasTheValueOf <5>#`); !ready || err != nil {
		t.Fatalf("declaration: ready=%v err=%v", ready, err)
	}

	if v, ok := s.Env().Lookup("x"); !ok || v.String() != "5" {
		t.Fatalf("x = %v, %v", v, ok)
	}

	out, ready, err := feed(t, s, `print <x * 2> toterminal#`)
	if !ready || err != nil {
		t.Fatalf("print: ready=%v err=%v", ready, err)
	}

	if !slices.Equal(out, []string{"10"}) {
		t.Errorf("outputs = %q, want [10]", out)
	}
}

func TestSession_MultiLine(t *testing.T) {
	s := NewSession()

	steps := []struct {
		line  string
		ready bool
	}{
		{`functionNamed <greet> withParameters <name> {`, false},
		{`print <name> toterminal#`, false},
		{`}`, true},
	}

	for _, step := range steps {
		_, ready, err := s.Feed(context.Background(), step.line)
		if err != nil {
			t.Fatalf("Feed(%q): %v", step.line, err)
		}

		if ready != step.ready {
			t.Fatalf("Feed(%q) ready = %v, want %v", step.line, ready, step.ready)
		}

		if s.Pending() == ready {
			t.Fatalf("Feed(%q) pending = %v", step.line, s.Pending())
		}
	}

	out, _, err := feed(t, s, `callFunction <greet> withArguments <"LeBron">#`)
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(out, []string{"LeBron"}) {
		t.Errorf("outputs = %q, want [LeBron]", out)
	}

	if got := slices.Collect(s.Transcript()); len(got) != 2 {
		t.Errorf("transcript has %d chunks, want 2: %q", len(got), got)
	}
}

func TestSession_Else(t *testing.T) {
	const block = `ifCondition <x == 1> isTrue { print <"then"> toterminal# }`

	tests := []struct {
		name  string
		next  string
		want  []string
		chunk int
	}{
		{"else on next line", `elseCondition { print <"else"> toterminal# }`, []string{"else"}, 1},
		{"statement on next line", `print <"next"> toterminal#`, []string{"then", "next"}, 2},
		{"blank line", "", []string{"then"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()

			x := "1"
			if tt.want[0] == "else" {
				x = "2"
			}

			if _, _, err := feed(t, s, "integerNamed <x> hasTheValueOf <"+x+">#"); err != nil {
				t.Fatal(err)
			}

			out, ready, err := feed(t, s, block)
			if ready || err != nil || len(out) != 0 {
				t.Fatalf("block ran early: ready=%v err=%v out=%q", ready, err, out)
			}

			if !s.AwaitingElse() || !s.Pending() {
				t.Fatal("block not held for elseCondition")
			}

			out, ready, err = feed(t, s, tt.next)
			if !ready || err != nil {
				t.Fatalf("ready=%v err=%v", ready, err)
			}

			if !slices.Equal(out, tt.want) {
				t.Errorf("outputs = %q, want %q", out, tt.want)
			}

			if s.Pending() || s.AwaitingElse() {
				t.Error("input left pending")
			}

			if got := slices.Collect(s.Transcript()); len(got) != 1+tt.chunk {
				t.Errorf("transcript has %d chunks, want %d: %q", len(got), 1+tt.chunk, got)
			}
		})
	}
}

func TestSession_Flush(t *testing.T) {
	s := NewSession()

	if results, err := s.Flush(context.Background()); results != nil || err != nil {
		t.Errorf("Flush with nothing held = %v, %v", results, err)
	}

	if _, _, err := feed(t, s, `ifCondition <1 == 1> isTrue { print <"held"> toterminal# }`); err != nil {
		t.Fatal(err)
	}

	results, err := s.Flush(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if out := slices.Collect(results.Outputs()); !slices.Equal(out, []string{"held"}) {
		t.Errorf("outputs = %q, want [held]", out)
	}

	if s.AwaitingElse() {
		t.Error("still held after Flush")
	}
}

func TestAwaitsElse(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{`ifCondition <1 == 1> isTrue { print <1> toterminal# }`, true},
		{`ifCondition <1 == 1> isTrue { } elseCondition { }`, false},
		{"print <1> toterminal#\nifCondition <1 == 1> isTrue {\n}", true},
		{`ifCondition <1 == 1> isTrue { } print <1> toterminal#`, false},
		{`functionNamed <f> withParameters <a> { ifCondition <a == 1> isTrue { } }`, false},
		{`functionNamed <g> withParameters <callFunction f> { }`, false},
	}

	for _, tt := range tests {
		tokens, ok := scan(context.Background(), tt.source)
		if !ok {
			t.Fatalf("scan(%q) incomplete", tt.source)
		}

		if got := awaitsElse(tokens); got != tt.want {
			t.Errorf("awaitsElse(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestSession_Blank(t *testing.T) {
	s := NewSession()

	for _, line := range []string{"", "   ", "% just a comment"} {
		if _, ready, err := s.Feed(context.Background(), line); ready || err != nil {
			t.Errorf("Feed(%q) = ready %v, err %v", line, ready, err)
		}

		if s.Pending() {
			t.Errorf("Feed(%q) left input pending", line)
		}
	}
}

func TestSession_Error(t *testing.T) {
	s := NewSession()

	_, ready, err := feed(t, s, `bogus#`)
	if !ready || err == nil {
		t.Fatalf("ready=%v err=%v, want a parse error", ready, err)
	}

	if s.Pending() {
		t.Error("failed chunk left pending")
	}

	if got := slices.Collect(s.Transcript()); len(got) != 0 {
		t.Errorf("failed chunk recorded in transcript: %q", got)
	}
}

func TestSession_Listings(t *testing.T) {
	s := NewSession()

	_, _, err := feed(t, s,
		`integerNamed <x> hasTheValueOf <5>#`,
		`textValueNamed <greeting> hasTheValueOf <"Hi">#`,
		`functionNamed <add> withParameters <a, b> { return <a + b># }`,
	)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := s.Variables(), []string{"x = 5", "greeting = Hi"}; !slices.Equal(got, want) {
		t.Errorf("Variables() = %q, want %q", got, want)
	}

	if got, want := s.Functions(), []string{"add(a, b)"}; !slices.Equal(got, want) {
		t.Errorf("Functions() = %q, want %q", got, want)
	}

	if got := s.Signature("missing"); got != "" {
		t.Errorf("Signature(missing) = %q", got)
	}
}

func TestSession_Reset(t *testing.T) {
	s := NewSession()

	_, _, _ = feed(t, s, `integerNamed <x> hasTheValueOf <5>#`, `functionNamed <f> withParameters <a> {`)

	s.Reset()

	if s.Pending() {
		t.Error("pending input survived reset")
	}

	if _, ok := s.Env().Lookup("x"); ok {
		t.Error("variable survived reset")
	}

	if len(slices.Collect(s.Transcript())) != 0 {
		t.Error("transcript survived reset")
	}
}

func TestSession_Replace(t *testing.T) {
	s := NewSession()

	_, _, _ = feed(t, s, `integerNamed <x> hasTheValueOf <5>#`)

	results, err := s.Replace(context.Background(),
		"integerNamed <y> hasTheValueOf <2>#\nprint <y> toterminal#")
	if err != nil {
		t.Fatal(err)
	}

	if got := slices.Collect(results.Outputs()); !slices.Equal(got, []string{"2"}) {
		t.Errorf("outputs = %q", got)
	}

	if _, ok := s.Env().Lookup("x"); ok {
		t.Error("replaced variable still declared")
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{`print <1> toterminal#`, true},
		{`print <1> toterminal`, false},
		{`functionNamed <f> withParameters <a> {`, false},
		{"functionNamed <f> withParameters <a> {\n  print <a> toterminal#", false},
		{"functionNamed <f> withParameters <a> {\n}", true},
		{`ifCondition <1 == 1> isTrue { print <1> toterminal# }`, true},
		{`}`, true},
		{`% comment`, false},
		{"print <1> toterminal# % trailing", true},
	}

	for _, tt := range tests {
		if got := complete(context.Background(), tt.source); got != tt.want {
			t.Errorf("complete(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}
