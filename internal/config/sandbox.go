package config

import (
	lua "github.com/yuin/gopher-lua"
)

// removedGlobals are cleared from every config VM. os and io reach the
// host, the loaders pull in outside code and debug can reach past the
// read-only platform table.
var removedGlobals = []string{
	"os",
	"io",
	"debug",
	"require",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"module",
}

func sandboxLuaVM(L *lua.LState) {
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua state for config parsing.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
