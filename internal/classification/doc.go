// Package classification provides the deterministic half of category
// assignment: text normalization, the keyword table, and a lexical scorer
// that ranks category names by keyword overlap with an expense note.
package classification
