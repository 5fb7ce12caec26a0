package graphql

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var (
	// ErrNoOperation is returned for documents without an operation definition.
	ErrNoOperation = errors.New("document has no operation")
	// ErrAnonymousOperation is returned when an operation has no name.
	ErrAnonymousOperation = errors.New("operation must be named")
)

var operationNames sync.Map // document -> operation name

// Parse parses a GraphQL executable document without a schema.
func Parse(document string) (*ast.QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "document", Input: document})
	if err != nil {
		return nil, fmt.Errorf("invalid graphql document: %w", err)
	}
	return doc, nil
}

// OperationName returns the name of the first operation in document, or ""
// when the document cannot be parsed.
func OperationName(document string) string {
	if v, ok := operationNames.Load(document); ok {
		return v.(string)
	}
	name := ""
	if doc, err := Parse(document); err == nil && len(doc.Operations) > 0 {
		name = doc.Operations[0].Name
	}
	operationNames.Store(document, name)
	return name
}

// Validate checks that a document parses, holds exactly one named operation,
// and that every fragment it defines is spread and every spread is defined.
func Validate(document string) error {
	doc, err := Parse(document)
	if err != nil {
		return err
	}
	if len(doc.Operations) == 0 {
		return ErrNoOperation
	}
	if len(doc.Operations) > 1 {
		return fmt.Errorf("document defines %d operations, want 1", len(doc.Operations))
	}
	if doc.Operations[0].Name == "" {
		return ErrAnonymousOperation
	}

	defined := make(map[string]bool, len(doc.Fragments))
	for _, f := range doc.Fragments {
		if defined[f.Name] {
			return fmt.Errorf("fragment %q defined twice", f.Name)
		}
		defined[f.Name] = true
	}

	used := map[string]bool{}
	for _, op := range doc.Operations {
		collectSpreads(op.SelectionSet, used)
	}
	for _, f := range doc.Fragments {
		collectSpreads(f.SelectionSet, used)
	}

	var missing, unused []string
	for name := range used {
		if !defined[name] {
			missing = append(missing, name)
		}
	}
	for name := range defined {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(missing)
	sort.Strings(unused)

	if len(missing) > 0 {
		return fmt.Errorf("undefined fragments: %v", missing)
	}
	if len(unused) > 0 {
		return fmt.Errorf("unused fragments: %v", unused)
	}
	return nil
}

func collectSpreads(set ast.SelectionSet, into map[string]bool) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			collectSpreads(s.SelectionSet, into)
		case *ast.InlineFragment:
			collectSpreads(s.SelectionSet, into)
		case *ast.FragmentSpread:
			into[s.Name] = true
		}
	}
}
