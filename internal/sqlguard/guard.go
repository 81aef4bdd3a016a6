// Package sqlguard decides whether generated SQL is read-only before it reaches
// a database. The only way to obtain an executable Query is Accept.
package sqlguard

import (
	"fmt"
	"regexp"
	"strings"
)

// Rejection and acceptance reasons.
const (
	ReasonNotSelect = "Validation failed: Query must be a SELECT statement."
	ReasonNonSelect = "Validation failed: Non-SELECT SQL detected."
	ReasonSafe      = "Query is safe."
)

// ForbiddenKeywords are rejected anywhere in the query as whole words, in this order.
var ForbiddenKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "TRUNCATE", "ALTER",
	"CREATE", "RENAME", "GRANT", "REVOKE", "COMMIT", "ROLLBACK",
}

// T-SQL lets these follow a SELECT without a statement separator.
var writeWords = map[string]bool{"INTO": true, "EXEC": true, "EXECUTE": true}

var forbiddenPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(ForbiddenKeywords))
	for i, keyword := range ForbiddenKeywords {
		patterns[i] = regexp.MustCompile(`\b` + keyword + `\b`)
	}
	return patterns
}()

// Outcome is the result of validating one query. Reason is always set.
type Outcome struct {
	Safe   bool
	Reason string
}

// Query is SQL text that passed validation. The zero value is not executable.
type Query struct {
	text string
}

// String returns the SQL text exactly as it was generated.
func (q Query) String() string {
	return q.text
}

// IsZero reports whether q was not produced by Accept.
func (q Query) IsZero() bool {
	return q.text == ""
}

// RejectedError is returned by Accept for unsafe SQL.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

// Validate applies the read-only policy to sql. Checks run in order and the
// first failing one decides the reason.
func Validate(sql string) Outcome {
	upper := strings.ToUpper(strings.TrimSpace(sql))

	if !strings.HasPrefix(upper, "SELECT") {
		return Outcome{Safe: false, Reason: ReasonNotSelect}
	}

	for i, pattern := range forbiddenPatterns {
		if pattern.MatchString(upper) {
			return Outcome{
				Safe:   false,
				Reason: fmt.Sprintf("Validation failed: Query contains forbidden keyword '%s'.", ForbiddenKeywords[i]),
			}
		}
	}

	statements, err := splitStatements(sql)
	if err != nil || len(statements) != 1 {
		return Outcome{Safe: false, Reason: ReasonNonSelect}
	}
	for _, word := range statements[0].words {
		if writeWords[word] {
			return Outcome{Safe: false, Reason: ReasonNonSelect}
		}
	}

	return Outcome{Safe: true, Reason: ReasonSafe}
}

// Accept validates sql and wraps it as an executable Query.
func Accept(sql string) (Query, Outcome, error) {
	outcome := Validate(sql)
	if !outcome.Safe {
		return Query{}, outcome, &RejectedError{Reason: outcome.Reason}
	}
	return Query{text: sql}, outcome, nil
}
