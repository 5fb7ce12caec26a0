package m_outbox

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var schema string

// DDL returns the statements creating the analytics_outbox table.
func DDL() []string {
	var stmts []string
	for _, s := range strings.Split(schema, ";") {
		if s = strings.TrimSpace(s); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
