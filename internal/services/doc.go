// Package services implements the operations behind the HTTP API and the
// CLI. Handlers decode and validate requests, services load tables from the
// file store, run the analytics, ml and privacy packages on them and write
// any derived tables back.
//
// Every operation runs inside a tracker that opens a span, logs the outcome
// with the operation name and the file involved, and records the
// analytics_operations metrics:
//
//	ctx, done := s.track.start(ctx, "clean", filename)
//	defer func() { done(rows, err) }()
//
// Errors are returned unchanged from the lower layers so that their kind
// (validation, computation, conflict or parse) decides the response.
package services
