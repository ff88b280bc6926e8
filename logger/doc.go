// Package logger assembles the formatting and routing pipeline and puts a
// small logging API in front of it. Most users only need to import this
// package.
//
// A Logger is immutable after construction. The Builder picks one
// formatter and shares it between two sinks: standard output takes
// [min, INFO] and standard error takes [WARNING, EMERGENCY]. The minimum
// level falls back to INFO when it is not a canonical level at or below
// INFO.
//
//	log := logger.NewBuilder().
//	    WithFormatter(formatter.NewJSONFormatter(formatter.DefaultJSONConfig())).
//	    WithMinLevel(logger.DebugLevel).
//	    WithChannel("checkout").
//	    Build()
//
// FromConfig builds the same pipeline from a loaded config.Config.
//
// The pipeline also backs the standard and third-party logging APIs:
// Slog returns a *slog.Logger, Zap a *zap.Logger and Logrus a
// *logrus.Logger, all writing through the same sinks.
//
// The package initializes a default Logger (colored lines, InfoLevel)
// in init(). The package-level functions delegate to it.
package logger
