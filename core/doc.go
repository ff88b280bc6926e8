// Package core defines the shared types used across logstream.
//
// It provides the Level type with the eight canonical severity codes
// (DEBUG=100 through EMERGENCY=600), the Record type that represents a
// single log event, and the ordered Fields type used for a record's
// context and extra payloads.
//
// Records reach the rest of the module through one of a few boundary
// adapters. FromMap accepts the loosely-typed map shape older producers
// emit, and ParseJSONLine accepts a line of JSON log output (a single
// object or a batch array). Everything past these adapters works on the
// normalized Record only.
//
// Level codes outside the canonical set are never rejected by the
// pipeline. They keep their numeric value, render as that number, and
// classify through SeverityOf by threshold band.
package core
