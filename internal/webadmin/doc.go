// Package webadmin provides the browser back office for the portfolio.
//
// # Overview
//
// The admin UI is server-rendered from templates embedded in the binary:
//
//   - Dashboard: record counts, the latest deployment and recent activity
//   - Content: one page each for projects, articles, services and testimonials
//   - Messages: contact form submissions, newest first
//   - Activity: the audit log of admin mutations and sign-ins
//
// The content pages list records and edit them through the JSON admin API
// (package admin). Page scripts call /api/admin/* with the session cookie.
//
// # Authentication
//
// POST /api/auth/login checks an email and password against the admin_users
// table and sets the session cookie. POST /api/auth/logout clears it. The
// login page honours a redirectTo query parameter, restricted to local
// paths.
//
// Page handlers do not verify sessions themselves. The request gate in
// package auth runs in front of every /admin path and places the verified
// identity on the request context.
//
// Bootstrap the first account with:
//
//	portfolio bootstrap --email owner@example.com --password '...'
//
// # Usage
//
//	admin := webadmin.New(store, tokens, deploys, webadmin.Config{SiteTitle: "Jane Doe"}, logger)
//	admin.RegisterRoutes(mux)
package webadmin
