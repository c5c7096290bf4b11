package changelog

// Category is a kind of change. The numeric order of the constants is the
// display order used when rendering.
type Category int

const (
	BreakingChanges Category = iota
	Added
	Changed
	Fixed
	Security
	Deprecated
	Removed
	Documentation
	Performance
	Testing
	Maintenance

	numCategories
)

var categoryNames = [numCategories]string{
	BreakingChanges: "Breaking Changes",
	Added:           "Added",
	Changed:         "Changed",
	Fixed:           "Fixed",
	Security:        "Security",
	Deprecated:      "Deprecated",
	Removed:         "Removed",
	Documentation:   "Documentation",
	Performance:     "Performance",
	Testing:         "Testing",
	Maintenance:     "Maintenance",
}

// String returns the section heading for the category.
func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return "Unknown"
	}
	return categoryNames[c]
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// ClassifiedCommit is a commit paired with its category and the
// description shown in the changelog.
type ClassifiedCommit struct {
	Category    Category
	Description string
	Hash        string
	Date        string
}

// Section is one rendered category with its commits in input order.
type Section struct {
	Category Category
	Items    []ClassifiedCommit
}
