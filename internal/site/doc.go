// Package site renders the public portfolio pages.
//
// Every page is a server-rendered html/template embedded in the binary and
// read live from the store, so admin edits appear on the next request.
// Unknown slugs and unknown paths render the not-found page with a 404.
//
// Article bodies are stored as HTML (rendered from markdown on write by
// package content) and are emitted unescaped. Only signed-in admins can
// write them.
package site
