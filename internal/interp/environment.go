package interp

import (
	"runtime"

	"github.com/emberlang/ember/internal/invariant"
	"github.com/emberlang/ember/internal/value"
)

// Environment is a stack of lexical frames, the first of which is the
// global frame seeded with the language's built-in identifiers.
type Environment struct {
	frames []map[string]value.Value
}

// NewEnvironment creates a freshly initialized environment with one
// frame holding the built-ins.
func NewEnvironment() *Environment {
	env := &Environment{}
	env.Push()
	env.frames[0]["OS"] = value.String(hostOS())
	return env
}

func hostOS() string {
	switch runtime.GOOS {
	case "darwin":
		return "macos"
	default:
		return runtime.GOOS
	}
}

// Push creates a new innermost frame, entered on block start.
func (e *Environment) Push() {
	e.frames = append(e.frames, make(map[string]value.Value))
}

// Pop discards the innermost frame, entered on block end. The global
// frame is never popped.
func (e *Environment) Pop() {
	invariant.Invariant(len(e.frames) > 1, "cannot pop the global frame")
	e.frames = e.frames[:len(e.frames)-1]
}

// Depth reports the number of live frames.
func (e *Environment) Depth() int {
	return len(e.frames)
}

// Declare binds name in the current (innermost) frame. It reports false
// without modifying anything if name is already bound in that frame -
// the caller turns that into an AlreadyDeclared error.
func (e *Environment) Declare(name string, v value.Value) bool {
	frame := e.frames[len(e.frames)-1]
	if _, exists := frame[name]; exists {
		return false
	}
	frame[name] = v
	return true
}

// Get looks up name starting from the innermost frame outward.
func (e *Environment) Get(name string) (value.Value, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i][name]; ok {
			return v, true
		}
	}
	return value.Nil(), false
}

// Assign updates name in the innermost frame that currently defines it -
// not blindly the innermost frame - so shadowing is preserved. It
// reports false if name is unbound anywhere.
func (e *Environment) Assign(name string, v value.Value) bool {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if _, ok := e.frames[i][name]; ok {
			e.frames[i][name] = v
			return true
		}
	}
	return false
}

// Names returns every identifier currently visible, innermost frame
// first, for "did you mean" suggestions on unresolved names.
func (e *Environment) Names() []string {
	var names []string
	for i := len(e.frames) - 1; i >= 0; i-- {
		for name := range e.frames[i] {
			names = append(names, name)
		}
	}
	return names
}
