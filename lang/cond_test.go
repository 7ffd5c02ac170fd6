package lang

import (
	"context"
	"errors"
	"testing"
)

func TestCondition(t *testing.T) {
	env := NewEnv()
	env.vars.set("n", Integer(5))
	env.vars.set("m", Integer(10))
	env.vars.set("s", Text("abc"))
	env.vars.set("q", Text(`"abc"`))

	tests := []struct {
		input string
		want  bool
	}{
		{input: "n < 10", want: true},
		{input: "n > 10", want: false},
		{input: "n <= 5", want: true},
		{input: "n >= 6", want: false},
		{input: "n == 5", want: true},
		{input: "n != 5", want: false},
		{input: "n < m", want: true},
		{input: "-1 < n", want: true},
		{input: "  n == 5  ", want: true},
		{input: "s == abc", want: true},
		{input: "s < abd", want: true},
		{input: "q == abc", want: false},
		{input: `q == "abc"`, want: true},
		{input: "s == 5", want: false},
		{input: "s != 5", want: true},
		{input: "n == 5 and m == 10", want: true},
		{input: "n == 5 and m == 11", want: false},
		{input: "n == 4 or m == 10", want: true},
		{input: "n == 4 or m == 11", want: false},
		{input: "not n == 4", want: true},
		{input: "not n == 5", want: false},
		{input: "n == 4 and n == 5 or m == 10", want: false},
		{input: "n == 5 or n == 4 and m == 10", want: true},
		{input: "n == 5 or n == 4 and m == 11", want: false},
		{input: "n", want: false},
		{input: "n ==", want: false},
		{input: "n ~ 5", want: false},
		{input: "n == 5 extra", want: false},
		{input: "", want: false},
	}

	ev := NewEvaluator()

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ev.Condition(context.Background(), env, tt.input)
			if err != nil {
				t.Fatalf("condition error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Condition(%q) = %t, want %t", tt.input, got, tt.want)
			}
		})
	}
}

func TestCondition_Incomparable(t *testing.T) {
	env := NewEnv()
	env.vars.set("s", Text("abc"))

	for _, input := range []string{"s < 5", "5 >= s", "not s > 1", "1 == 1 and s <= 2"} {
		t.Run(input, func(t *testing.T) {
			_, err := NewEvaluator().Condition(context.Background(), env, input)
			if !errors.Is(err, ErrIncomparable) {
				t.Errorf("expected ErrIncomparable, got %v", err)
			}
		})
	}
}

func TestCondition_ShortCircuit(t *testing.T) {
	env := NewEnv()
	env.vars.set("s", Text("abc"))

	ev := NewEvaluator()

	// the incomparable part is never reached
	for _, input := range []string{"1 == 2 and s < 5", "1 == 1 or s < 5"} {
		if _, err := ev.Condition(context.Background(), env, input); err != nil {
			t.Errorf("Condition(%q): %v", input, err)
		}
	}
}
