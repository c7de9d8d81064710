// Package pagecrawl provides a depth-bounded, same-origin web crawler that
// renders pages through a browser backend, extracts each page's primary
// content region as Markdown, and mirrors the URL path tree on disk.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package pagecrawl
