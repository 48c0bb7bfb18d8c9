// Package deploy reads the latest deployment of the site from the Vercel
// REST API and exposes it at GET /api/integrations/vercel.
//
// The integration is optional. Without an access token and a project id or
// name, Client.Latest returns ErrNotConfigured and the endpoint answers 503.
package deploy
