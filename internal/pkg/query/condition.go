package query

import (
	"fmt"
	"strings"
)

// Condition is a WHERE clause fragment using Spanner named parameters.
type Condition interface {
	// SQL returns the fragment and its parameters. paramIndex is the index of
	// the first generated parameter name (@p<paramIndex>).
	SQL(paramIndex int) (string, map[string]interface{})
}

// compareCondition implements "field <op> value".
type compareCondition struct {
	field string
	op    string
	value interface{}
}

// Eq creates an equality condition: Eq("status", "pending") -> "status = @p0".
func Eq(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "=", value: value}
}

// Lt creates a less-than condition: Lt("published_at", t) -> "published_at < @p0".
func Lt(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "<", value: value}
}

func (c *compareCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	name := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, name), map[string]interface{}{name: c.value}
}

// nullCondition implements IS [NOT] NULL.
type nullCondition struct {
	field string
	not   bool
}

// IsNull creates "field IS NULL".
func IsNull(field string) Condition {
	return &nullCondition{field: field}
}

// IsNotNull creates "field IS NOT NULL".
func IsNotNull(field string) Condition {
	return &nullCondition{field: field, not: true}
}

func (c *nullCondition) SQL(int) (string, map[string]interface{}) {
	if c.not {
		return c.field + " IS NOT NULL", map[string]interface{}{}
	}
	return c.field + " IS NULL", map[string]interface{}{}
}

// groupCondition joins children with AND or OR, in parentheses.
type groupCondition struct {
	op       string
	children []Condition
}

// And groups conditions with AND.
func And(conditions ...Condition) Condition {
	return &groupCondition{op: " AND ", children: conditions}
}

// Or groups conditions with OR.
func Or(conditions ...Condition) Condition {
	return &groupCondition{op: " OR ", children: conditions}
}

// SQL numbers parameters continuously across children.
func (c *groupCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	parts := make([]string, 0, len(c.children))
	params := make(map[string]interface{})
	for _, child := range c.children {
		fragment, childParams := child.SQL(paramIndex)
		parts = append(parts, fragment)
		for k, v := range childParams {
			params[k] = v
		}
		paramIndex += len(childParams)
	}
	return "(" + strings.Join(parts, c.op) + ")", params
}
