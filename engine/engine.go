package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
)

// FrameCallback receives the culled result of one active scene each frame. It is the hand-off
// point to an external renderer.
type FrameCallback func(key int, s scene.Scene, visible []object3d.Object3D, deltaTime float32)

// engine implements the Engine interface.
type engine struct {
	mu sync.RWMutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	frameCallback  FrameCallback

	rng    *rand.Rand
	scenes map[int]scene.Scene
}

// Engine drives a set of scenes frame by frame without owning a window or a GPU.
// Each frame it runs the tick callback, then for every active scene in ascending key order
// it advances particle emitters, refreshes world matrices, culls against the scene camera
// and passes the visible nodes to the frame callback.
type Engine interface {
	// EnableProfiler enables periodic profiler output to the log.
	EnableProfiler()

	// DisableProfiler disables periodic profiler output.
	DisableProfiler()

	// Profiler returns the engine's profiler. Pass it to scene.WithProfiler to include a
	// scene's cull and pick passes in the report.
	Profiler() *profiler.Profiler

	// SetTickRate sets the frame rate used by Run.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called at the start of each frame.
	// Use this for game logic and transform updates.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetFrameCallback registers the function that receives each active scene's visible nodes.
	//
	// Parameters:
	//   - callback: the frame callback
	SetFrameCallback(callback FrameCallback)

	// AddScene registers a scene at the given z-index key.
	// Scenes are processed in ascending key order each frame.
	//
	// Parameters:
	//   - key: the z-index determining processing order (lower first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Frame runs a single frame synchronously. A scene whose cull fails is skipped for this
	// frame; the remaining scenes still run.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	//
	// Returns:
	//   - error: the joined errors of every scene that failed to cull, wrapped with its key
	Frame(deltaTime float32) error

	// Run calls Frame at the configured tick rate until ctx is done or Quit is called.
	// Frame errors are logged and do not stop the loop.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx.Err() if the context ended the loop, nil after Quit
	Run(ctx context.Context) error

	// Quit signals Run to return.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// EnableProfiler enables periodic profiler output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables periodic profiler output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

// SetTickRate sets the frame rate used by Run.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
		return
	}

	e.mu.Lock()
	e.engineTickRate = newRate
	e.mu.Unlock()
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetFrameCallback(callback FrameCallback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameCallback = callback
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

func (e *engine) Frame(deltaTime float32) error {
	e.mu.RLock()
	tick := e.tickCallback
	onFrame := e.frameCallback
	keys := make([]int, 0, len(e.scenes))
	for k, s := range e.scenes {
		if s.Active() {
			keys = append(keys, k)
		}
	}
	sort.Ints(keys)
	active := make([]scene.Scene, len(keys))
	for i, k := range keys {
		active[i] = e.scenes[k]
	}
	e.mu.RUnlock()

	if tick != nil {
		tick(deltaTime)
	}

	var errs []error
	for i, s := range active {
		s.Step(deltaTime, e.rng)
		visible, err := s.Cull()
		if err != nil {
			errs = append(errs, fmt.Errorf("engine: scene %d (%s): %w", keys[i], s.Name(), err))
			continue
		}
		if onFrame != nil {
			onFrame(keys[i], s, visible, deltaTime)
		}
	}

	if e.profilingEnabled.Load() && e.profiler != nil {
		e.profiler.Tick()
	}
	return errors.Join(errs...)
}

func (e *engine) Run(ctx context.Context) (err error) {
	e.running.Store(true)
	defer e.running.Store(false)

	// Recover from panics inside a frame so a bad callback does not take the process down.
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("engine: frame loop recovered from panic", "panic", r)
			e.signalQuit()
			err = fmt.Errorf("engine: frame loop panicked: %v", r)
		}
	}()

	e.mu.RLock()
	rate := e.engineTickRate
	e.mu.RUnlock()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastFrame := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		case now := <-ticker.C:
			dt := float32(now.Sub(lastFrame).Seconds())
			lastFrame = now
			if err := e.Frame(dt); err != nil {
				common.Logger().Warn("engine: frame failed", "error", err)
			}
		}
	}
}

// Quit signals Run to return.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal the frame loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}
