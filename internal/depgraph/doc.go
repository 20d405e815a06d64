// Package depgraph builds the dependency graph over workspace package
// identities from the merged scan edges, rejects cycles, and computes the
// deterministic topological order used for the build-reference file.
package depgraph
