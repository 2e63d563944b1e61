package orchestrator

// #region imports
import "strings"

// #endregion

// #region keywords

var queryKeywords = []string{
	"find", "search", "look up", "lookup", "query", "list", "show me",
	"what is", "where is", "which", "how many", "fetch", "retrieve",
}

var createKeywords = []string{
	"create", "generate", "write", "compose", "build", "make a",
	"draft", "add a", "new", "scaffold",
}

var updateKeywords = []string{
	"update", "modify", "change", "edit", "rename", "refactor",
	"adjust", "tune", "rework", "replace",
}

var deleteKeywords = []string{
	"delete", "remove", "drop", "clear", "purge", "discard",
}

var recordDomainKeywords = []string{
	"record", "row", "table", "database", "entry", "pattern", "catalog",
}

var documentDomainKeywords = []string{
	"document", "file", "note", "draft", "report", "page", "text",
}

var systemDomainKeywords = []string{
	"config", "deploy", "service", "pipeline", "server", "system",
	"index", "cache", "graph",
}

// #endregion

// #region classify

// ClassifyIntent tags an intent with a classification (the action family,
// which also keys the loop guard's pivot suggestions) and a rough domain.
// Keyword heuristics only; no model call.
func ClassifyIntent(intent string) (classification, domain string) {
	lower := strings.ToLower(strings.TrimSpace(intent))

	classification = "general"
	// Removal before mutation so "remove the stale config" is a delete.
	switch {
	case containsAny(lower, deleteKeywords):
		classification = "delete"
	case containsAny(lower, updateKeywords):
		classification = "update"
	case containsAny(lower, createKeywords):
		classification = "create"
	case containsAny(lower, queryKeywords):
		classification = "query"
	}

	domain = "general"
	switch {
	case containsAny(lower, recordDomainKeywords):
		domain = "records"
	case containsAny(lower, documentDomainKeywords):
		domain = "documents"
	case containsAny(lower, systemDomainKeywords):
		domain = "system"
	}

	return classification, domain
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// #endregion
