package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Lua delivers messages to functions defined by a Lua script. The script
// runs in a sandboxed state owned by a dedicated goroutine; each message
// is executed there at most once.
//
// A command "hint.pipe" calls the function pipe of the global table hint;
// "Tabs.Close" calls Tabs.Close. Arguments are passed as Lua values and
// the first result is returned.
type Lua struct {
	exec *executor
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewLua loads script and starts its executor. The executor stops when ctx
// is cancelled or Close is called; later sends fail with
// ErrDestinationGone.
func NewLua(ctx context.Context, script string) (*Lua, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("transport: load lua script: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Lua{exec: newExecutor(L, 0), stop: cancel}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.exec.run(ctx)
		L.Close()
	}()
	return t, nil
}

// unsafeGlobals are base library functions that load code from files or
// strings.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring"}

// openSafeLibraries opens the base, table, string and math libraries only,
// without the base functions that load code.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// Name implements Transport.
func (t *Lua) Name() string { return "lua" }

// Send implements Transport.
func (t *Lua) Send(ctx context.Context, msg Message) (any, error) {
	var out any
	err := t.exec.execute(ctx, func(L *lua.LState) error {
		fn, err := lookupFunction(L, msg.Qualified())
		if err != nil {
			return err
		}
		args := make([]lua.LValue, len(msg.Args))
		for i, a := range msg.Args {
			args[i] = toLua(L, a)
		}
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return fmt.Errorf("%s: %w", msg.Qualified(), err)
		}
		ret := L.Get(-1)
		L.Pop(1)
		out = toGo(ret)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Has reports whether the script defines a command.
func (t *Lua) Has(ctx context.Context, name string) bool {
	err := t.exec.execute(ctx, func(L *lua.LState) error {
		_, err := lookupFunction(L, name)
		return err
	})
	return err == nil
}

// Close stops the executor and waits for it to release the Lua state.
func (t *Lua) Close() {
	t.exec.close()
	t.stop()
	t.wg.Wait()
}

// lookupFunction walks dotted names from the globals table.
func lookupFunction(L *lua.LState, qualified string) (*lua.LFunction, error) {
	path := strings.Split(qualified, ".")
	v := L.GetGlobal(path[0])
	for _, field := range path[1:] {
		tbl, ok := v.(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, qualified)
		}
		v = tbl.RawGetString(field)
	}
	fn, ok := v.(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, qualified)
	}
	return fn, nil
}
