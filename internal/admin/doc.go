// Package admin serves the JSON API behind the back office.
//
// # Endpoints
//
// Each resource (projects, articles, services, testimonials) gets the same
// four routes:
//
//   - GET    /api/admin/{resource}       list, newest first (articles by publishedAt)
//   - POST   /api/admin/{resource}       create, 201 with the stored record
//   - PUT    /api/admin/{resource}/{id}  replace, 200 with the stored record
//   - DELETE /api/admin/{resource}/{id}  delete, 200 {"success":true}
//
// # Authorization
//
// The request gate already rejects unauthenticated calls to /api/admin, but
// every handler is also registered through auth.Guard.Require so a route
// mounted without the gate still refuses anonymous callers.
//
// # Errors
//
// Bodies that fail to decode or validate return 400 "Invalid <resource> data".
// Unknown ids return 404, duplicate slugs 409 and store failures 500 with a
// generic message. Details go to the log only.
//
// # Audit
//
// Successful mutations are logged and appended to the store's audit log with
// the acting admin's id.
package admin
