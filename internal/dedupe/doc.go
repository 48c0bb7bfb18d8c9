// Package dedupe remembers recently seen keys for a fixed window so repeated
// work (a double-clicked form, a retried request) can be recognized and
// acknowledged without being processed twice.
package dedupe
