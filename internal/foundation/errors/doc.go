// Package errors provides the classified error taxonomy shared by the export
// pipeline and its command line.
//
// Every failure the pipeline can raise maps to a category:
//   - config: missing or invalid settings (including an empty output folder)
//   - permission: a non-empty output folder that cannot be written
//   - unsafe_overwrite: a non-empty output folder lacking the marker file
//   - render: a node failed to render; carries file, line, page key and language
//   - copy: a best-effort copy failure, logged as a warning
//
// Example:
//
//	err := errors.UnsafeOverwriteError("output folder was not produced by sitefreeze").
//		WithContext("folder", dir).
//		Build()
package errors
