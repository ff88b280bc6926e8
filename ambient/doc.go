// Package ambient reads the process and request metadata that log records
// are enriched with: the HTTP request being served (or the invoking command
// when there is none), trace identifiers, and Kubernetes pod metadata.
//
// Process globals are read through the Environment interface so callers
// and tests can substitute fixed values. Request metadata travels in the
// context.Context, captured by Middleware:
//
//	mux := http.NewServeMux()
//	srv := &http.Server{Handler: ambient.Middleware(ambient.MiddlewareConfig{GenerateRequestID: true}, mux)}
//
// Nothing in this package returns an error; absent values are omitted.
package ambient
