package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/repo"
	"github.com/light-bringer/feliz-storefront/internal/pkg/graphql"
)

var errInvalidDocuments = errors.New("invalid GraphQL documents")

func newQueriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Inspect the Storefront API documents",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Parse and validate every GraphQL document the storefront sends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return checkDocuments(cmd, repo.Documents())
		},
	})
	return cmd
}

func checkDocuments(cmd *cobra.Command, docs map[string]string) error {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	failed := 0
	for _, name := range names {
		doc := docs[name]
		err := graphql.Validate(doc)
		if err == nil {
			if op := graphql.OperationName(doc); op != name {
				err = fmt.Errorf("operation is named %q", op)
			}
		}
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(out, "ok   %s\n", name)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errInvalidDocuments, failed, len(names))
	}
	return nil
}
