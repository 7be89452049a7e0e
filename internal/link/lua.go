package link

import (
	"context"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

const defaultLuaTimeout = 200 * time.Millisecond

// newSandboxState opens only the libraries a link template needs: no io, os
// or package loading.
func newSandboxState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:     true,
		RegistrySize:     256,
		RegistryMaxSize:  1024,
		RegistryGrowStep: 32,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	openLib("base", lua.OpenBase)
	openLib("string", lua.OpenString)
	openLib("table", lua.OpenTable)
	// base opens dofile/loadfile; a template has no business touching files.
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	return L
}

func containsReturn(code string) bool {
	for _, f := range strings.Fields(code) {
		if f == "return" {
			return true
		}
	}
	return false
}

// evalLua runs the configured expression with the parsed reference exposed as
// globals and expects a non-empty string back.
func (g *Generator) evalLua(reference string, p Parts) (string, error) {
	code := g.lua
	if !containsReturn(code) {
		code = "return (" + code + ")"
	}

	L := newSandboxState()
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()
	L.SetContext(ctx)

	L.SetGlobal("reference", lua.LString(reference))
	L.SetGlobal("book", lua.LString(p.Book))
	L.SetGlobal("slug", lua.LString(p.Slug))
	L.SetGlobal("chapter", lua.LString(p.Chapter))
	L.SetGlobal("verse", lua.LString(p.Verse))
	L.SetGlobal("base", lua.LString(g.baseURL))

	if err := L.DoString(code); err != nil {
		if ctx.Err() != nil {
			return "", &LinkFormatError{Reference: reference, Reason: "link template timed out"}
		}
		return "", &LinkFormatError{Reference: reference, Reason: fmt.Sprintf("link template failed: %v", err)}
	}
	ret := L.Get(-1)
	s, ok := ret.(lua.LString)
	if !ok || strings.TrimSpace(string(s)) == "" {
		return "", &LinkFormatError{Reference: reference, Reason: "link template must return a non-empty string"}
	}
	return string(s), nil
}
