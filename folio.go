// Package folio scrapes an architecture firm's project portfolio into a
// tabular dataset. It discovers every project detail page from the
// portfolio listing and extracts one structured record per page.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package folio
