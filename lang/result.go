package lang

import (
	"iter"
	"strings"
)

// OutputPrefix tags output records in their string form.
const OutputPrefix = "Output: "

// ResultKind classifies a [Result].
type ResultKind int

const (
	ResultNotice ResultKind = iota // notice
	ResultOutput                   // output
	ResultReturn                   // return
	ResultGroup                    // group
)

func (k ResultKind) String() string {
	switch k {
	case ResultOutput:
		return "output"
	case ResultReturn:
		return "return"
	case ResultGroup:
		return "group"
	default:
		return "notice"
	}
}

// Result is the item a statement produces. Notices acknowledge declarations,
// outputs carry printed text, returns carry raw return text, and groups
// collect the results of a function body or a taken branch.
type Result struct {
	Kind  ResultKind
	Text  string
	Items Results
}

// Results is an ordered sequence of results.
type Results []Result

// String returns the tagged form of r: output records carry [OutputPrefix],
// groups list their items in brackets.
func (r Result) String() string {
	switch r.Kind {
	case ResultOutput:
		return OutputPrefix + r.Text
	case ResultGroup:
		parts := make([]string, len(r.Items))
		for i, item := range r.Items {
			parts[i] = item.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return r.Text
	}
}

// All yields every non-group result depth-first, in execution order.
func (rs Results) All() iter.Seq[Result] {
	return func(yield func(Result) bool) {
		rs.walk(yield)
	}
}

func (rs Results) walk(yield func(Result) bool) bool {
	for _, r := range rs {
		if r.Kind == ResultGroup {
			if !r.Items.walk(yield) {
				return false
			}

			continue
		}

		if !yield(r) {
			return false
		}
	}

	return true
}

// Outputs yields the text of every output record in execution order.
func (rs Results) Outputs() iter.Seq[string] {
	return func(yield func(string) bool) {
		for r := range rs.All() {
			if r.Kind == ResultOutput && !yield(r.Text) {
				return
			}
		}
	}
}

// StripOutput removes [OutputPrefix] from a tagged output record.
func StripOutput(s string) (string, bool) {
	return strings.CutPrefix(s, OutputPrefix)
}
