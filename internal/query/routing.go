package query

import "strings"

// Target names the database a query runs against.
type Target string

const (
	TargetTMS   Target = "tms"
	TargetAudit Target = "audit"
)

// Router picks the database for a query by looking for the audit schema marker
// anywhere in its text. Matching is case-sensitive.
type Router struct {
	AuditMarker string
}

// RouteFor returns TargetAudit when sql mentions the audit marker, TargetTMS otherwise.
func (r Router) RouteFor(sql string) Target {
	if r.AuditMarker != "" && strings.Contains(sql, r.AuditMarker) {
		return TargetAudit
	}
	return TargetTMS
}
