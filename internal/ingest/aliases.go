package ingest

import (
	"strings"
	"unicode"
)

// Logical field keys of the alias table.
const (
	KeyID                  = "id"
	KeyTitle               = "title"
	KeyDescription         = "description"
	KeyOpenedDate          = "openedDate"
	KeyResolvedDate        = "resolvedDate"
	KeyStatus              = "status"
	KeySeverity            = "severity"
	KeyPriority            = "priority"
	KeyCategory            = "category"
	KeySubcategory         = "subcategory"
	KeySource              = "source"
	KeyRootCause           = "rootCause"
	KeyLineOfBusiness      = "lineOfBusiness"
	KeyAssignmentGroup     = "assignmentGroup"
	KeySLAMet              = "slaMet"
	KeyReopenCount         = "reopenCount"
	KeyResolutionTimeHours = "resolutionTimeHours"
)

// AliasTable maps each logical field to the ordered list of source column
// names it may appear under. Earlier aliases take precedence.
type AliasTable map[string][]string

// DefaultAliases returns the built-in alias table covering the ServiceNow,
// Jira, Remedy and hand-made spreadsheet exports seen in the wild.
func DefaultAliases() AliasTable {
	return AliasTable{
		KeyID:          {"Number", "ID", "Incident ID", "Incident Number", "Ticket ID", "Ticket Number", "Issue Key", "Key", "Defect ID", "Record ID"},
		KeyTitle:       {"Short Description", "Title", "Summary", "Subject", "Name"},
		KeyDescription: {"Description", "Long Description", "Details", "Notes"},
		KeyOpenedDate:  {"Opened Date", "openedDate", "Opened", "Opened At", "Open Date", "Created", "Created Date", "Created At", "Reported Date", "Submit Date", "date"},
		KeyResolvedDate: {"Resolved Date", "resolvedDate", "Resolved", "Resolved At", "Resolution Date", "Closed Date", "Closed At",
			"Completed Date"},
		KeyStatus:          {"Status", "State", "Incident State", "Ticket Status"},
		KeySeverity:        {"Severity", "Sev", "Severity Level", "Impact"},
		KeyPriority:        {"Priority", "Priority Level", "Prio"},
		KeyCategory:        {"Category", "categoryId", "Incident Type", "Issue Type", "Type"},
		KeySubcategory:     {"Subcategory", "Sub Category", "Component", "Service"},
		KeySource:          {"Source", "Source System", "System", "Origin", "Channel", "Contact Type"},
		KeyRootCause:       {"Root Cause", "rootCause", "Cause", "Cause Code", "RCA", "Root Cause Category"},
		KeyLineOfBusiness:  {"Line of Business", "LOB", "Business Unit", "Business Line"},
		KeyAssignmentGroup: {"Assignment Group", "Assigned Group", "Resolver Group", "Team"},
		KeySLAMet:          {"SLA Met", "slaMet", "Made SLA", "Within SLA", "SLA Status", "SLA"},
		KeyReopenCount:     {"Reopen Count", "reopenCount", "Reopens", "Times Reopened", "Reopened"},
		KeyResolutionTimeHours: {"Resolution Time (Hours)", "resolutionTimeHours", "Resolution Time", "Resolution Hours",
			"Time to Resolve", "Hours to Resolve", "MTTR"},
	}
}

// Merge returns a new table where the aliases in extra are tried before the
// existing ones. Unknown field keys in extra are kept as-is.
func (t AliasTable) Merge(extra map[string][]string) AliasTable {
	out := make(AliasTable, len(t))
	for k, v := range t {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range extra {
		merged := make([]string, 0, len(v)+len(out[k]))
		merged = append(merged, v...)
		merged = append(merged, out[k]...)
		out[k] = merged
	}
	return out
}

// normalizeKey folds a column name so "Opened Date", "opened_date" and
// "openedDate" compare equal.
func normalizeKey(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
