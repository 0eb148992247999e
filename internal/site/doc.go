// Package site declares the contracts between the export pipeline and the
// host that owns the content tree: nodes, their render operation, the router
// used by custom routes and the plugin asset registry.
//
// The host keeps process-wide render state (current language, visited node,
// cached collections). The pipeline drives it through Host before every
// render and passes a RenderContext into Node.Render so renders can record
// media without touching globals.
package site
