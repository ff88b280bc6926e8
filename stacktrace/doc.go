// Package stacktrace captures the caller's stack for log records.
//
// An Extractor walks a Source (the Go runtime by default), drops frames that
// belong to the logging pipeline itself, and returns at most MaxFrames
// frames with dense indices and shortened file paths:
//
//	ex := stacktrace.New(8)
//	for _, f := range ex.Extract(0) {
//		fmt.Println(f) // #0 internal/orders/service.go:42 example.com/shop/internal/orders.(*Service).Place()
//	}
//
// Extraction is diagnostic only. It never fails; an empty stack yields no
// frames.
package stacktrace
