package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/mesh"
	"github.com/Carmen-Shannon/oxy-scene/engine/object3d"
	"github.com/Carmen-Shannon/oxy-scene/engine/particle"
	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"github.com/Carmen-Shannon/oxy-scene/engine/raycaster"
	"github.com/go-gl/mathgl/mgl32"
)

// TypeScene is the type tag of a scene's root node.
const TypeScene = "Scene"

// DefaultParallelCullThreshold is the candidate count at which Cull fans out over the worker pool.
const DefaultParallelCullThreshold = 256

// ErrNoCamera is returned by camera-dependent queries on a scene without an active camera.
var ErrNoCamera = errors.New("scene has no camera")

// Scene owns a root node and the nodes attached beneath it, along with the active camera
// used for culling and picking.
// Scenes can be hot-swapped via the Active flag to switch between different views or levels.
// Scene fields are guarded by a lock; the node graph is not, so graph mutation must not
// overlap with Cull, Pick or UpdateWorldMatrices.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Root returns the node every scene object hangs from.
	Root() object3d.Object3D

	// Camera returns the scene's active camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's active camera. The camera does not need to be part of
	// the scene graph.
	//
	// Parameters:
	//   - cam: the new camera, or nil to clear it
	SetCamera(cam camera.Camera)

	// Add attaches nodes to the scene root. A node that already has a parent is re-parented.
	//
	// Parameters:
	//   - objs: the nodes to add
	//
	// Returns:
	//   - error: common.ErrNilNode, common.ErrSelfAttach or common.ErrCycle for the first node
	//     that could not be attached; earlier nodes stay attached
	Add(objs ...object3d.Object3D) error

	// Get retrieves a node anywhere in the scene by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the node's unique ID
	//
	// Returns:
	//   - object3d.Object3D: the node or nil
	Get(id uint64) object3d.Object3D

	// FindByName returns the first node in pre-order with the given name, or nil.
	//
	// Parameters:
	//   - name: the name to look for
	//
	// Returns:
	//   - object3d.Object3D: the node or nil
	FindByName(name string) object3d.Object3D

	// Remove detaches the node with the given ID, along with its subtree.
	//
	// Parameters:
	//   - id: the node's unique ID
	//
	// Returns:
	//   - bool: false if no such node exists below the root
	Remove(id uint64) bool

	// Count returns the number of nodes below the root.
	//
	// Returns:
	//   - int: node count, excluding the root
	Count() int

	// Clear detaches every node from the root.
	Clear()

	// Cameras returns every camera in the scene graph in pre-order.
	Cameras() []camera.Camera

	// Lights returns every light in the scene graph in pre-order.
	Lights() []light.Light

	// Meshes returns every mesh in the scene graph in pre-order.
	Meshes() []mesh.Mesh

	// Emitters returns every particle emitter in the scene graph in pre-order.
	Emitters() []particle.Emitter

	// UpdateWorldMatrices refreshes the world matrix of every node in the scene, and of the
	// active camera when it lives outside the scene graph.
	UpdateWorldMatrices()

	// Step advances every particle emitter by dt and then refreshes world matrices.
	//
	// Parameters:
	//   - dt: elapsed time since the last step in seconds
	//   - rng: the random source for particle emission; nil ages particles without spawning new ones
	Step(dt float32, rng *rand.Rand)

	// CullingDisabled returns whether frustum culling is explicitly disabled for this scene.
	// When true, Cull returns every visible bounded node.
	//
	// Returns:
	//   - bool: true if culling is disabled
	CullingDisabled() bool

	// SetCullingDisabled enables or disables frustum culling for this scene.
	//
	// Parameters:
	//   - disabled: true to disable culling, false to enable it
	SetCullingDisabled(disabled bool)

	// Cull returns the visible bounded nodes whose world bounding volume intersects the
	// active camera's frustum, in pre-order. Invisible nodes hide their subtree. Meshes with
	// frustum culling turned off always pass. World matrices must be current.
	//
	// Returns:
	//   - []object3d.Object3D: the nodes that survive culling (never nil)
	//   - error: ErrNoCamera, or common.ErrSingularMatrix for a degenerate camera
	Cull() ([]object3d.Object3D, error)

	// VisibleLights returns the enabled lights that can affect the active camera's view.
	//
	// Returns:
	//   - []light.Light: the lights that survive culling (never nil)
	//   - error: ErrNoCamera, or common.ErrSingularMatrix for a degenerate camera
	VisibleLights() ([]light.Light, error)

	// AmbientColor returns the scene's ambient light color.
	AmbientColor() mgl32.Vec3

	// SetAmbientColor sets the scene's ambient light color.
	//
	// Parameters:
	//   - color: the ambient RGB color
	SetAmbientColor(color mgl32.Vec3)

	// LightBuffer packs the visible lights and the ambient color for upload to a light
	// storage buffer.
	//
	// Returns:
	//   - []byte: the packed buffer, laid out as light.MarshalLightBuffer describes
	//   - error: ErrNoCamera, or common.ErrSingularMatrix for a degenerate camera
	LightBuffer() ([]byte, error)

	// ShadowData computes the shadow uniform for the first enabled shadow-casting
	// directional light, centered on the active camera (or the origin without one).
	//
	// Parameters:
	//   - resolution: shadow map resolution in texels
	//
	// Returns:
	//   - light.GPUShadowData: the packed shadow data
	//   - bool: false if no light casts shadows
	//   - error: error if the shadow camera is degenerate
	ShadowData(resolution int) (light.GPUShadowData, bool, error)

	// Pick casts a ray from the active camera through a screen point and intersects every
	// visible node in the scene.
	//
	// Parameters:
	//   - ndc: normalized device coordinates, x and y in [-1, 1]
	//   - options: extra raycaster options such as a distance range
	//
	// Returns:
	//   - []raycaster.Intersection: hits sorted by ascending distance (never nil on success)
	//   - error: ErrNoCamera, or an error from raycaster.SetFromCamera
	Pick(ndc mgl32.Vec2, options ...raycaster.RaycasterBuilderOption) ([]raycaster.Intersection, error)

	// Profiler returns the scene's profiler, or nil if none was configured.
	Profiler() *profiler.Profiler
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	root object3d.Object3D
	cam  camera.Camera

	cullingDisabled bool
	ambientColor    mgl32.Vec3
	prof            *profiler.Profiler

	// cullPool runs the per-node frustum tests of large scenes. Workers persist across
	// frames and idle-exit after a second without work.
	cullPool          worker.DynamicWorkerPool
	computeWorkers    int
	parallelThreshold int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// frustumCuller is implemented by nodes that can opt out of frustum culling.
type frustumCuller interface {
	FrustumCulled() bool
}

// NewScene creates a new Scene with an empty root node and the given active camera.
// NewScene panics if cam is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the active camera (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:                &sync.RWMutex{},
		name:              name,
		active:            false,
		root:              object3d.NewObject3D(object3d.WithName(name), object3d.WithType(TypeScene)),
		cam:               cam,
		ambientColor:      mgl32.Vec3{0.1, 0.1, 0.1},
		computeWorkers:    max(runtime.NumCPU()-1, 1),
		parallelThreshold: DefaultParallelCullThreshold,
	}

	for _, option := range options {
		option(s)
	}

	// Queue size of 256 leaves headroom for one chunk per worker on any realistic core count.
	s.cullPool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Root() object3d.Object3D {
	return s.root
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) AmbientColor() mgl32.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ambientColor
}

func (s *scene) SetAmbientColor(color mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambientColor = color
}

func (s *scene) Profiler() *profiler.Profiler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prof
}

func (s *scene) Add(objs ...object3d.Object3D) error {
	for _, obj := range objs {
		if obj == nil {
			return fmt.Errorf("scene: add: %w", common.ErrNilNode)
		}
		if err := s.root.AddChild(obj); err != nil {
			return fmt.Errorf("scene: add %q: %w", obj.Name(), err)
		}
	}
	return nil
}

func (s *scene) Get(id uint64) object3d.Object3D {
	var found object3d.Object3D
	s.root.Traverse(func(o object3d.Object3D) {
		if found == nil && o.ID() == id && o.ID() != s.root.ID() {
			found = o
		}
	})
	return found
}

func (s *scene) FindByName(name string) object3d.Object3D {
	for _, child := range s.root.Children() {
		if found := child.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

func (s *scene) Remove(id uint64) bool {
	obj := s.Get(id)
	if obj == nil {
		return false
	}
	obj.RemoveFromParent()
	common.Logger().Debug("scene: removed node", "scene", s.Name(), "id", id)
	return true
}

func (s *scene) Count() int {
	n := 0
	s.root.Traverse(func(object3d.Object3D) { n++ })
	return n - 1
}

func (s *scene) Clear() {
	for _, child := range s.root.Children() {
		s.root.RemoveChild(child)
	}
}

// collect returns every node below root that implements T, in pre-order.
func collect[T any](root object3d.Object3D) []T {
	out := make([]T, 0)
	root.Traverse(func(o object3d.Object3D) {
		if v, ok := o.(T); ok {
			out = append(out, v)
		}
	})
	return out
}

func (s *scene) Cameras() []camera.Camera {
	return collect[camera.Camera](s.root)
}

func (s *scene) Lights() []light.Light {
	return collect[light.Light](s.root)
}

func (s *scene) Meshes() []mesh.Mesh {
	return collect[mesh.Mesh](s.root)
}

func (s *scene) Emitters() []particle.Emitter {
	return collect[particle.Emitter](s.root)
}

func (s *scene) UpdateWorldMatrices() {
	s.root.UpdateWorldMatrix(false, true)
	if cam := s.Camera(); cam != nil && cam.Root().ID() != s.root.ID() {
		cam.UpdateWorldMatrix(true, true)
	}
}

func (s *scene) Step(dt float32, rng *rand.Rand) {
	for _, e := range s.Emitters() {
		e.Update(dt, rng)
	}
	s.UpdateWorldMatrices()
}

// frustum returns the active camera's frustum.
func (s *scene) frustum() (common.Frustum, error) {
	cam := s.Camera()
	if cam == nil {
		return common.Frustum{}, ErrNoCamera
	}
	f, err := cam.Frustum()
	if err != nil {
		common.Logger().Warn("scene: camera has a degenerate view-projection", "scene", s.Name(), "camera", cam.Name())
		return common.Frustum{}, err
	}
	return f, nil
}

func (s *scene) Cull() ([]object3d.Object3D, error) {
	start := time.Now()

	s.mu.RLock()
	disabled := s.cullingDisabled
	workers := s.computeWorkers
	threshold := s.parallelThreshold
	prof := s.prof
	s.mu.RUnlock()

	candidates := make([]object3d.Bounded, 0)
	s.root.TraverseVisible(func(o object3d.Object3D) {
		if b, ok := o.(object3d.Bounded); ok {
			candidates = append(candidates, b)
		}
	})

	var keep []bool
	if disabled {
		keep = make([]bool, len(candidates))
		for i := range keep {
			keep[i] = true
		}
	} else {
		f, err := s.frustum()
		if err != nil {
			return nil, fmt.Errorf("scene: cull: %w", err)
		}
		if threshold > 0 && workers > 1 && len(candidates) >= threshold {
			keep = s.cullParallel(&f, candidates, workers)
		} else {
			keep = make([]bool, len(candidates))
			for i, b := range candidates {
				keep[i] = inFrustum(&f, b)
			}
		}
	}

	visible := make([]object3d.Object3D, 0, len(candidates))
	for i, b := range candidates {
		if keep[i] {
			visible = append(visible, b)
		}
	}

	elapsed := time.Since(start)
	if prof != nil {
		prof.RecordCull(len(candidates), len(visible), elapsed)
	}
	common.Logger().Debug("scene: cull pass", "scene", s.Name(), "candidates", len(candidates), "visible", len(visible), "elapsed", elapsed)
	return visible, nil
}

// cullParallel splits candidates into one contiguous chunk per worker and tests the chunks
// on the cull pool. Each task writes only its own slots of the result.
// A WaitGroup provides the barrier since pool.Wait() blocks until workers idle-exit.
func (s *scene) cullParallel(f *common.Frustum, candidates []object3d.Bounded, workers int) []bool {
	keep := make([]bool, len(candidates))
	chunk := (len(candidates) + workers - 1) / workers

	var wg sync.WaitGroup
	taskID := 0
	for lo := 0; lo < len(candidates); lo += chunk {
		hi := min(lo+chunk, len(candidates))
		wg.Add(1)
		from, to := lo, hi
		s.cullPool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				for i := from; i < to; i++ {
					keep[i] = inFrustum(f, candidates[i])
				}
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
	return keep
}

// inFrustum tests a node's world bounds, preferring the sphere and falling back to the box.
// Nodes with no bounds are never visible.
func inFrustum(f *common.Frustum, b object3d.Bounded) bool {
	if c, ok := b.(frustumCuller); ok && !c.FrustumCulled() {
		return true
	}
	if sphere, ok := object3d.WorldBoundingSphere(b); ok {
		return f.IntersectsSphereVolume(sphere)
	}
	if box, ok := object3d.WorldBoundingBox(b); ok {
		return f.IntersectsBox3(box)
	}
	return false
}

func (s *scene) VisibleLights() ([]light.Light, error) {
	f, err := s.frustum()
	if err != nil {
		return nil, fmt.Errorf("scene: visible lights: %w", err)
	}
	return light.CullLights(s.Lights(), &f), nil
}

func (s *scene) LightBuffer() ([]byte, error) {
	lights, err := s.VisibleLights()
	if err != nil {
		return nil, err
	}
	return light.MarshalLightBuffer(lights, s.AmbientColor()), nil
}

func (s *scene) ShadowData(resolution int) (light.GPUShadowData, bool, error) {
	var center mgl32.Vec3
	if cam := s.Camera(); cam != nil {
		center = cam.WorldPosition()
	}
	for _, l := range s.Lights() {
		if l.Kind() != light.LightTypeDirectional || !l.Enabled() || !l.CastsShadows() {
			continue
		}
		data, err := light.ComputeShadowData(l, center, resolution)
		if err != nil {
			return light.GPUShadowData{}, false, fmt.Errorf("scene: shadow data for %q: %w", l.Name(), err)
		}
		return data, true, nil
	}
	return light.GPUShadowData{}, false, nil
}

func (s *scene) Pick(ndc mgl32.Vec2, options ...raycaster.RaycasterBuilderOption) ([]raycaster.Intersection, error) {
	start := time.Now()
	cam := s.Camera()
	if cam == nil {
		return nil, fmt.Errorf("scene: pick: %w", ErrNoCamera)
	}

	opts := append([]raycaster.RaycasterBuilderOption{raycaster.WithIgnoreInvisible(true)}, options...)
	rc := raycaster.NewRaycaster(opts...)
	if err := rc.SetFromCamera(ndc, cam); err != nil {
		return nil, fmt.Errorf("scene: pick: %w", err)
	}
	hits := rc.IntersectObjects(s.root.Children(), true)

	if prof := s.Profiler(); prof != nil {
		prof.RecordPick(len(hits), time.Since(start))
	}
	return hits, nil
}
