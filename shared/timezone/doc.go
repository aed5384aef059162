// Package timezone keeps every timestamp the service produces in one location.
//
// The location comes from APP_TIMEZONE and is resolved lazily on first use, so
// tests and tools that never load configuration still get a usable zone (UTC).
// Call Init explicitly to pin a location during startup:
//
//	if err := timezone.Init(cfg.App.Timezone); err != nil { ... }
//	now := timezone.Now()
//	formatted := timezone.Format(account.CreatedAt, time.RFC3339)
//
// Calendar dates such as trip start and end are not instants and stay in UTC; use
// ParseDate and FormatDate for them.
//
// Only IANA names are accepted ("UTC", "Asia/Jakarta", "Europe/Rome").
package timezone
