// Package content is a file-tree content host for the generator.
//
// A content directory holds one directory per page. A directory becomes a
// page when it contains index.md or a translation index.<lang>.md; nested
// page directories are its children and every other file is attached to it.
// A numeric prefix ("01_about") marks a page as listed and orders it among
// its siblings; the prefix is not part of the page key.
//
// Pages render through html/template layouts found in the templates
// directory. A Site is not safe for concurrent use; the generator drives it
// from a single goroutine.
package content
