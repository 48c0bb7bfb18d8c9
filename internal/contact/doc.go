// Package contact accepts messages from the public contact form.
//
// POST /api/contact validates the body, stores it as a contact submission and
// then announces it through every configured Notifier: a Slack incoming
// webhook, a Matrix room (mautrix) and Postmark email. Notifiers are
// best-effort; their errors are logged and the visitor still gets a 201.
//
// A second identical message (same email and text) within ResubmitWindow gets
// the same 201 without being stored or announced again.
package contact
