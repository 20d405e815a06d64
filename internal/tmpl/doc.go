// Package tmpl applies per-kind default manifest shapes to package
// documents without disturbing anything the manifest already declares.
package tmpl
