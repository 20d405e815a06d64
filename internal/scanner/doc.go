// Package scanner walks each workspace member's source files, extracts
// import specifiers with tree-sitter, and resolves them against workspace
// package identities. Exclusion is glob-based and segment-aware; .gitignore
// entries are honored when a matcher is supplied.
package scanner
