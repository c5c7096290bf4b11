// Package changelog classifies commits into change categories and renders
// the categorized CHANGELOG.md document.
//
// This package implements:
//   - The closed Category taxonomy with its fixed display order
//   - Conventional-commit classification with a keyword fallback, both
//     expressed as ordered rule tables
//   - Markdown rendering of an "Unreleased" section grouped by category
//   - A colored terminal preview of the same grouping
package changelog
