package model

// ClassificationRequest is the input handed to a remote classifier.
// Labels are the allowed category names, in the user's listing order.
type ClassificationRequest struct {
	Note   string
	Labels []string
}

// ResolutionPath records which tier of the fallback chain produced a result.
type ResolutionPath string

// Resolution paths.
const (
	PathRemote       ResolutionPath = "remote"
	PathLexical      ResolutionPath = "lexical"
	PathDefault      ResolutionPath = "default"
	PathNone         ResolutionPath = "none"
	PathRetryLexical ResolutionPath = "retry_lexical"
	PathRetryDefault ResolutionPath = "retry_default"
)

// Resolution is the outcome of assigning a category to a note.
type Resolution struct {
	CategoryID string
	Path       ResolutionPath
}

// Found reports whether a category was assigned.
func (r Resolution) Found() bool {
	return r.CategoryID != ""
}

// Preview is a resolved category plus ranked alternatives for a note.
type Preview struct {
	CategoryID   string
	CategoryName string
	Emoji        string
	Suggestions  Suggestions
	AIPowered    bool
}
