// Package manifest handles parsing, validation, and rewriting of the
// workspace.yaml and per-package package.yaml files. Package manifests are
// edited through their YAML node tree so unrelated content is never clobbered.
package manifest
