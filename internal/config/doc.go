// Package config loads brewform's optional Lua configuration file.
//
// The file runs in a sandboxed gopher-lua VM: os, io, debug and the code
// loading functions are removed, leaving string, table and math. A
// read-only global "platform" table describes the host, so a config can
// branch on it:
//
//	brewform = {
//	    strategy = platform.is_macos and "gh-cli" or "direct",
//	    dist_dir = "target/dist",
//	    repository = "acme/frobber",
//	    aliases = {
//	        ["aarch64-apple-darwin"] = { frobber = { "fb" } },
//	    },
//	}
//
// The file must set a global table named "brewform". Every key is
// optional; values left unset keep their defaults or the command-line
// flags.
package config
