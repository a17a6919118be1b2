// Package reporting renders run summaries, fleet status and run history
// as terminal tables. It is purely presentational: callers gather the data
// (RunReport, status snapshot, journal records) and hand it over; nothing
// here talks to Docker or the filesystem.
package reporting
