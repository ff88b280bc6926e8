package ambient

import "os"

// Environment is the process-level capability the provider reads from.
type Environment interface {
	LookupEnv(key string) (string, bool)
	// Script is the name the process was invoked as.
	Script() string
}

// OSEnvironment reads the real process environment.
type OSEnvironment struct{}

// LookupEnv implements Environment.
func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Script implements Environment.
func (OSEnvironment) Script() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return "unknown"
	}
	return os.Args[0]
}

// StaticEnvironment serves fixed values.
type StaticEnvironment struct {
	Vars       map[string]string
	ScriptName string
}

// LookupEnv implements Environment.
func (e StaticEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := e.Vars[key]
	return v, ok
}

// Script implements Environment.
func (e StaticEnvironment) Script() string {
	if e.ScriptName == "" {
		return "unknown"
	}
	return e.ScriptName
}
