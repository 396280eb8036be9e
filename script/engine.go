package script

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/lixenwraith/bullet-trial/system"
)

//go:embed patterns.lua
var defaultPatterns string

var _ system.Pattern = (*Engine)(nil)

// Params are exposed to scripts as globals before loading
type Params struct {
	Radius    float64
	BaseSpeed float64
	Accel     float64
}

// Engine wraps a single Lua VM evaluating bullet patterns
// Frame loop access only
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a VM and loads the script at path, or the built-in patterns when path is empty
func NewEngine(path string, params Params, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("RADIUS", lua.LNumber(params.Radius))
	vm.SetGlobal("BASE_SPEED", lua.LNumber(params.BaseSpeed))
	vm.SetGlobal("ACCEL", lua.LNumber(params.Accel))

	var err error
	if path == "" {
		err = vm.DoString(defaultPatterns)
	} else {
		err = vm.DoFile(path)
	}
	if err != nil {
		vm.Close()
		return nil, errors.Wrapf(err, "load pattern script %q", path)
	}
	log.Debug("loaded pattern script", zap.String("file", path))
	return &Engine{vm: vm, log: log}, nil
}

// Has reports whether the script defines pattern name
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Next implements system.Pattern by calling the Lua function named after the pattern
func (e *Engine) Next(name string, angle, t, dt float32) (system.Shot, error) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return system.Shot{}, errors.Errorf("pattern %q not defined", name)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(angle), lua.LNumber(t), lua.LNumber(dt)); err != nil {
		return system.Shot{}, errors.Wrapf(err, "pattern %q", name)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	rt, ok := result.(*lua.LTable)
	if !ok {
		return system.Shot{}, errors.Errorf("pattern %q returned %s, want table", name, result.Type())
	}

	num := func(key string) float32 {
		return float32(lua.LVAsNumber(rt.RawGetString(key)))
	}
	return system.Shot{
		Offset:   mgl32.Vec2{num("ox"), num("oy")},
		Velocity: mgl32.Vec2{num("vx"), num("vy")},
		Angle:    num("angle"),
	}, nil
}

// Close releases the VM
func (e *Engine) Close() {
	e.vm.Close()
}
