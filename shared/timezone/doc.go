// Package timezone pins every timestamp the service produces to one location.
//
// The location comes from APP_TIMEZONE (an IANA name such as "UTC" or
// "Asia/Jakarta") and is loaded when the package is imported. Unknown names
// fall back to UTC.
//
//	now := timezone.Now()
//	due, err := timezone.Parse("2024-01-01", time.RFC3339, time.DateOnly)
//	out := timezone.Format(due, time.RFC3339)
package timezone
