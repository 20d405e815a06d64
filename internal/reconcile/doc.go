// Package reconcile diffs the computed dependency graph against the declared
// manifest dependencies and the workspace reference file, producing the
// minimal reconciliation plan applied by the write planner.
package reconcile
