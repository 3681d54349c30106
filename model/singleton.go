package model

import "sync/atomic"

var global atomic.Pointer[Registry]

// Global returns the process wide registry used when callers do not supply one.
// The built-in tables are installed on first use.
func Global() *Registry {
	if r := global.Load(); r != nil {
		return r
	}
	global.CompareAndSwap(nil, NewDefaultRegistry())
	return global.Load()
}

// InitGlobal installs r as the process wide registry.
// Only effective before the first call to Global.
func InitGlobal(r *Registry) {
	global.CompareAndSwap(nil, r)
}

// ResetGlobal clears the process wide registry so the next Global call starts over.
func ResetGlobal() {
	global.Store(nil)
}
