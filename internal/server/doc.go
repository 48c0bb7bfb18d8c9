// Package server assembles the portfolio HTTP surface and runs it.
//
// # Request pipeline
//
// Every request passes, outermost first, through request ID assignment,
// access logging, security headers and the auth request gate before it
// reaches the route table:
//
//	requestID -> accessLog -> securityHeaders -> auth.Gate -> ServeMux
//
// The gate sits in front of every route, so no admin page or admin API
// handler runs for an unauthenticated request.
//
// # Routes
//
//   - GET /health, GET /health/ready: liveness and database readiness
//   - GET /static/...: embedded stylesheets
//   - GET /api/integrations/vercel: latest deployment
//   - POST /api/contact: public contact form
//   - /api/admin/...: admin content API (package admin)
//   - /login, /api/auth/...: sign-in (package webadmin)
//   - /admin/...: admin pages (package webadmin)
//   - everything else: public pages (package site)
//
// # Listeners
//
// By default the server listens on server.http_addr. With tailscale.enabled
// it joins the tailnet through tsnet and serves plain HTTP on :80, tailnet
// HTTPS with Tailscale certificates, or public HTTPS through Funnel.
package server
