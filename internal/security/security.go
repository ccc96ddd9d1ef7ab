// Package security implements the read-only security-context handle of
// §4.4, §4.5, and §9.1: threaded through the call tree by strong shared
// reference, never a raw pointer, and never mutated after construction.
package security

// Context carries the permission policy builtins consult before
// performing I/O or other sensitive operations. It is immutable once
// built — Grant/Deny-style mutation is a new Context, not a mutation of
// this one — so sharing a single *Context across every frame of a call
// tree (§4.4 "threaded through the call tree") is always safe.
type Context struct {
	allowFileIO bool
	allowNetIO  bool
	moduleRoot  string
}

// New constructs a Context with the given capabilities. moduleRoot scopes
// file-system builtins to a single directory tree.
func New(allowFileIO, allowNetIO bool, moduleRoot string) *Context {
	return &Context{allowFileIO: allowFileIO, allowNetIO: allowNetIO, moduleRoot: moduleRoot}
}

// Unrestricted returns a Context that permits every capability, the
// default for `atlas run` outside a sandboxed host embedding.
func Unrestricted() *Context {
	return &Context{allowFileIO: true, allowNetIO: true, moduleRoot: "."}
}

func (c *Context) AllowFileIO() bool { return c.allowFileIO }
func (c *Context) AllowNetIO() bool  { return c.allowNetIO }
func (c *Context) ModuleRoot() string { return c.moduleRoot }
