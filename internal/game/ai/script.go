package ai

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/jens-ohlsson/bastion/internal/game/actor"
)

// decideFn is the global Lua function a decider script must define:
//
//	function decide(enemy, foes) return tactic_id, foe_index end
//
// enemy is a table {name, hp, max_hp, block, charge}; foes is a 1-based array
// of the same tables. foe_index indexes into foes; 0 or out of range falls
// back to the weakest foe.
const decideFn = "decide"

// ScriptDecider evaluates a Lua decide() hook loaded from a script
// directory, falling back to another Decider when the hook is missing or
// fails. The LState is sandboxed: only base, table, and math libraries are
// opened, and file/load globals are stripped.
//
// Not safe for concurrent use; a combat drives its decider from one thread.
type ScriptDecider struct {
	state    *lua.LState
	fallback Decider
	logger   *zap.Logger
}

// NewScriptDecider loads every *.lua file in dir, in lexicographic order,
// into one sandboxed VM.
//
// Precondition: fallback and logger must not be nil; dir must be a readable
// directory.
// Postcondition: Returns a decider owning an LState; the caller must call
// Close when done.
func NewScriptDecider(dir string, fallback Decider, logger *zap.Logger) (*ScriptDecider, error) {
	if fallback == nil || logger == nil {
		panic("ai.NewScriptDecider: fallback and logger must not be nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ai: reading script dir %q: %w", dir, err)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Open only safe standard libraries.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenMath(L)

	// Strip dangerous globals left by OpenBase.
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require", "print"} {
		L.SetGlobal(name, lua.LNil)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return nil, fmt.Errorf("ai: loading %q: %w", path, err)
		}
	}

	return &ScriptDecider{state: L, fallback: fallback, logger: logger}, nil
}

// Close releases the Lua VM.
func (d *ScriptDecider) Close() {
	d.state.Close()
}

// Decide implements Decider. Lua failures are never fatal to a combat: any
// error, missing function, or malformed return falls back to the wrapped
// decider.
func (d *ScriptDecider) Decide(enemy *actor.Actor, foes []*actor.Actor) Decision {
	fn := d.state.GetGlobal(decideFn)
	if fn.Type() != lua.LTFunction {
		return d.fallback.Decide(enemy, foes)
	}

	enemyTbl := d.actorTable(enemy)
	foesTbl := d.state.NewTable()
	for _, f := range foes {
		foesTbl.Append(d.actorTable(f))
	}

	if err := d.state.CallByParam(lua.P{Fn: fn, NRet: 2, Protect: true}, enemyTbl, foesTbl); err != nil {
		d.logger.Warn("lua decide failed, using fallback",
			zap.String("enemy", enemy.Name),
			zap.Error(err))
		return d.fallback.Decide(enemy, foes)
	}
	idxVal := d.state.Get(-1)
	tacticVal := d.state.Get(-2)
	d.state.Pop(2)

	tactic, ok := tacticVal.(lua.LString)
	if !ok || string(tactic) == "" {
		d.logger.Warn("lua decide returned no tactic, using fallback",
			zap.String("enemy", enemy.Name))
		return d.fallback.Decide(enemy, foes)
	}

	dec := Decision{Tactic: string(tactic)}
	if foe := d.resolveFoe(idxVal, foes); foe != nil {
		dec.Target = foe.ID
	}
	return dec
}

// resolveFoe maps a 1-based Lua foe index to an actor, falling back to the
// weakest foe for missing or out-of-range indexes.
func (d *ScriptDecider) resolveFoe(v lua.LValue, foes []*actor.Actor) *actor.Actor {
	if n, ok := v.(lua.LNumber); ok {
		idx := int(n)
		if idx >= 1 && idx <= len(foes) {
			return foes[idx-1]
		}
	}
	return weakestFoe(foes)
}

func (d *ScriptDecider) actorTable(a *actor.Actor) *lua.LTable {
	tbl := d.state.NewTable()
	d.state.SetField(tbl, "name", lua.LString(a.Name))
	d.state.SetField(tbl, "hp", lua.LNumber(a.HP))
	d.state.SetField(tbl, "max_hp", lua.LNumber(a.MaxHP))
	d.state.SetField(tbl, "block", lua.LNumber(a.Block))
	d.state.SetField(tbl, "charge", lua.LNumber(a.Charge))
	return tbl
}
