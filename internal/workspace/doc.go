// Package workspace integrates workspace and package manifest loading with
// path resolution. It provides the Context type that holds the loaded member
// set and the specifier index used to resolve imports to members.
package workspace
