package script

import (
	"context"
	"errors"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// LuaModule is the name of the global table holding the script API.
const LuaModule = "ks"

// RunLuaFile runs the Lua program at path against r.
func RunLuaFile(ctx context.Context, r *Runner, path string) (Result, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading script: %w", err)
	}
	return RunLua(ctx, r, path, string(code))
}

// RunLua runs a Lua program against r and commits whatever it leaves
// pending. The program drives r through the ks table:
//
//	ks.init(doc [, ranges])     ks.change(from, to, text)
//	ks.replace_selection(text)  ks.select(ranges)
//	ks.meta(key, value)         ks.set_doc(text)
//	ks.commit()  ks.undo()  ks.redo()
//	ks.text()    ks.len()   ks.selection()
//
// Ranges are tables of carets (numbers) or {anchor = a, head = h} tables.
// Errors raised by ks functions carry the underlying Go error when they
// end the program; errors caught with pcall are the caller's to handle.
func RunLua(ctx context.Context, r *Runner, name, code string) (Result, error) {
	L := newLuaState()
	defer L.Close()
	L.SetContext(ctx)

	b := &luaBinding{runner: r}
	b.register(L)

	if err := doWithRecovery(func() error { return L.DoString(code) }); err != nil {
		if goErr := raisedError(err); goErr != nil {
			return r.Result(), fmt.Errorf("%s: %w", name, goErr)
		}
		return r.Result(), fmt.Errorf("%s: %w", name, err)
	}

	r.Commit()
	return r.Result(), nil
}

// newLuaState creates a state with only side-effect free libraries.
func newLuaState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Base opens file loaders; scripts get no file system access.
	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// luaErrorType names the metatable of Go errors raised into Lua.
const luaErrorType = "ks.error"

// luaBinding exposes a Runner to Lua.
type luaBinding struct {
	runner *Runner
}

// raisedError returns the Go error carried by the Lua error that ended
// the program, or nil if it was raised by Lua code.
func raisedError(err error) error {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return nil
	}
	ud, ok := apiErr.Object.(*lua.LUserData)
	if !ok {
		return nil
	}
	goErr, _ := ud.Value.(error)
	return goErr
}

func (b *luaBinding) register(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "init", L.NewFunction(b.init))
	L.SetField(mod, "change", L.NewFunction(b.change))
	L.SetField(mod, "replace_selection", L.NewFunction(b.replaceSelection))
	L.SetField(mod, "select", L.NewFunction(b.selectRanges))
	L.SetField(mod, "meta", L.NewFunction(b.meta))
	L.SetField(mod, "set_doc", L.NewFunction(b.setDoc))
	L.SetField(mod, "commit", L.NewFunction(b.commit))
	L.SetField(mod, "undo", L.NewFunction(b.undo))
	L.SetField(mod, "redo", L.NewFunction(b.redo))
	L.SetField(mod, "text", L.NewFunction(b.text))
	L.SetField(mod, "len", L.NewFunction(b.length))
	L.SetField(mod, "selection", L.NewFunction(b.selection))
	L.SetGlobal(LuaModule, mod)

	mt := L.NewTypeMetatable(luaErrorType)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		if err, ok := ud.Value.(error); ok {
			L.Push(lua.LString(err.Error()))
		} else {
			L.Push(lua.LString(luaErrorType))
		}
		return 1
	}))
}

// raise raises err as a Lua error value wrapping the Go error. It does
// not return.
func (b *luaBinding) raise(L *lua.LState, err error) int {
	ud := L.NewUserData()
	ud.Value = err
	L.SetMetatable(ud, L.GetTypeMetatable(luaErrorType))
	L.Error(ud, 1)
	return 0
}

func (b *luaBinding) exec(L *lua.LState, step Step) int {
	if err := b.runner.Exec(step); err != nil {
		return b.raise(L, err)
	}
	return 0
}

// init(doc [, ranges])
func (b *luaBinding) init(L *lua.LState) int {
	doc := L.CheckString(1)
	var specs []RangeSpec
	if L.GetTop() >= 2 {
		specs = checkRanges(L, 2)
	}
	if err := b.runner.Init(doc, specs); err != nil {
		return b.raise(L, err)
	}
	return 0
}

// change(from, to, text)
func (b *luaBinding) change(L *lua.LState) int {
	from := L.CheckInt(1)
	to := L.CheckInt(2)
	s := L.OptString(3, "")
	return b.exec(L, Step{Op: OpChange, From: from, To: &to, Text: s})
}

func (b *luaBinding) replaceSelection(L *lua.LState) int {
	return b.exec(L, Step{Op: OpReplaceSelection, Text: L.CheckString(1)})
}

func (b *luaBinding) selectRanges(L *lua.LState) int {
	return b.exec(L, Step{Op: OpSelect, Ranges: checkRanges(L, 1)})
}

// meta(key, value)
func (b *luaBinding) meta(L *lua.LState) int {
	key := L.CheckString(1)
	var value any
	switch v := L.Get(2).(type) {
	case lua.LBool:
		value = bool(v)
	case lua.LNumber:
		value = float64(v)
	case lua.LString:
		value = string(v)
	default:
		L.ArgError(2, "boolean, number or string expected")
		return 0
	}
	return b.exec(L, Step{Op: OpMeta, Key: key, Value: value})
}

func (b *luaBinding) setDoc(L *lua.LState) int {
	return b.exec(L, Step{Op: OpSetDoc, Text: L.CheckString(1)})
}

func (b *luaBinding) commit(L *lua.LState) int {
	return b.exec(L, Step{Op: OpCommit})
}

func (b *luaBinding) undo(L *lua.LState) int {
	return b.exec(L, Step{Op: OpUndo})
}

func (b *luaBinding) redo(L *lua.LState) int {
	return b.exec(L, Step{Op: OpRedo})
}

func (b *luaBinding) text(L *lua.LState) int {
	L.Push(lua.LString(b.runner.Text()))
	return 1
}

func (b *luaBinding) length(L *lua.LState) int {
	L.Push(lua.LNumber(b.runner.Len()))
	return 1
}

// selection() returns a list of {anchor, head} tables, primary first.
func (b *luaBinding) selection(L *lua.LState) int {
	result := L.NewTable()
	for _, r := range b.runner.Selection().Ranges() {
		t := L.NewTable()
		t.RawSetString("anchor", lua.LNumber(r.Anchor))
		t.RawSetString("head", lua.LNumber(r.Head))
		result.Append(t)
	}
	L.Push(result)
	return 1
}

// checkRanges reads a list of ranges from argument n.
func checkRanges(L *lua.LState, n int) []RangeSpec {
	tbl := L.CheckTable(n)
	specs := make([]RangeSpec, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		switch v := tbl.RawGetInt(i).(type) {
		case lua.LNumber:
			specs = append(specs, RangeSpec{Anchor: int(v)})
		case *lua.LTable:
			anchor, ok := v.RawGetString("anchor").(lua.LNumber)
			if !ok {
				L.ArgError(n, fmt.Sprintf("range %d: anchor must be a number", i))
			}
			spec := RangeSpec{Anchor: int(anchor)}
			if head, ok := v.RawGetString("head").(lua.LNumber); ok {
				h := int(head)
				spec.Head = &h
			}
			specs = append(specs, spec)
		default:
			L.ArgError(n, fmt.Sprintf("range %d: number or table expected", i))
		}
	}
	return specs
}
