package repo

import (
	"context"
	"encoding/json"
)

// fakeStorefront answers every call with a canned JSON data object and
// records what was sent.
type fakeStorefront struct {
	response string
	err      error

	document  string
	variables map[string]any
	mutated   bool
}

func (f *fakeStorefront) Query(_ context.Context, document string, variables map[string]any, out any) error {
	return f.answer(document, variables, out)
}

func (f *fakeStorefront) Mutate(_ context.Context, document string, variables map[string]any, out any) error {
	f.mutated = true
	return f.answer(document, variables, out)
}

func (f *fakeStorefront) answer(document string, variables map[string]any, out any) error {
	f.document, f.variables = document, variables
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), out)
}
