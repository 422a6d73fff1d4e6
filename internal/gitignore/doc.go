// Package gitignore compiles gitignore-style rule files into ordered rules.
//
// It implements the subset of the gitignore pattern syntax documented at
// https://git-scm.com/docs/gitignore that matters for vault traversal:
//
// Features:
//   - Wildcard patterns (*, ?, **)
//   - Rooted patterns (/build) and patterns with an internal slash (doc/frotz)
//   - Negation patterns (!important.log)
//   - Directory-only patterns (build/)
//   - Per-directory scoping for nested .gitignore, .ignore and .rgignore files
//   - Last matching rule wins
//
// Usage:
//
//	rules := gitignore.Parse("*.log\n!keep.log\n", "")
//	if rules.Ignored("logs/error.log", false) {
//	    // File is ignored
//	}
//
// While walking, each directory extends the inherited rules with its own:
//
//	child := inherited.Extend(gitignore.LoadDir(absDir, relDir))
//
// Rules values are never mutated after construction, so a parent's list can be
// shared by any number of sibling subtrees.
package gitignore
