package controller

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/binding"
	"github.com/markusressel/jointdrive/internal/control_loop"
	"github.com/markusressel/jointdrive/internal/drive"
	"github.com/markusressel/jointdrive/internal/physics"
	"github.com/markusressel/jointdrive/internal/skeleton"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/markusressel/jointdrive/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// joints per goroutine when the per-joint loop runs in parallel
const minJointsPerWorker = 8

var ErrDestroyed = errors.New("joint controller has been destroyed")

type State int

const (
	StateUninitialized State = iota
	StateDirty
	StateBound
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDirty:
		return "dirty"
	case StateBound:
		return "bound"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

type Parameters struct {
	Gravity mgl64.Vec3
	// StrengthMultiplier scales every torque before it is applied
	StrengthMultiplier float64
	Parallelism        int
	TorqueWindowSize   int
	SettleThreshold    float64
}

func DefaultParameters() Parameters {
	return Parameters{
		Gravity:            control_loop.DefaultGravity,
		StrengthMultiplier: 1,
		Parallelism:        1,
		TorqueWindowSize:   60,
		SettleThreshold:    0.01,
	}
}

// JointTelemetry is the state of a single joint after the last tick.
type JointTelemetry struct {
	BodyName   string `json:"bodyName"`
	Resolved   bool   `json:"resolved"`
	Simulating bool   `json:"simulating"`

	Evaluation control_loop.Evaluation `json:"evaluation"`
	// Impulse is the torque after the strength multiplier was applied
	Impulse   mgl64.Vec3 `json:"impulse"`
	TorqueAvg float64    `json:"torqueAvg"`
	Settled   bool       `json:"settled"`

	UpdatedAt time.Time `json:"updatedAt"`
}

type Statistics struct {
	State      State `json:"state"`
	Joints     int   `json:"joints"`
	Unresolved int   `json:"unresolved"`

	Ticks     int64 `json:"ticks"`
	Rebuilds  int64 `json:"rebuilds"`
	Teleports int64 `json:"teleports"`
	// DrivenJoints and SkippedJoints refer to the last tick
	DrivenJoints  int64 `json:"drivenJoints"`
	SkippedJoints int64 `json:"skippedJoints"`
}

type JointController interface {
	// Bind (re)initializes all joints from the bodies of skel.
	Bind(skel skeleton.Skeleton) error
	// Tick runs one update cycle: rebuild if dirty, then drive every joint.
	Tick(dt float64)
	// NotifyTeleport snaps every joint to its target right away.
	NotifyTeleport()
	// RequestTeleport makes the next Tick snap instead of applying torque.
	RequestTeleport()
	Destroy()

	State() State
	Registry() *drive.Registry
	SetStrengthMultiplier(multiplier float64)
	StrengthMultiplier() float64
	Telemetry(bodyName string) (JointTelemetry, bool)
	AllTelemetry() map[string]JointTelemetry
	GetStatistics() Statistics
}

type DefaultJointController struct {
	mu sync.Mutex

	params   Parameters
	backend  physics.Backend
	registry *drive.Registry
	cache    *binding.Cache
	skeleton skeleton.Skeleton

	state State
	// set by registry edits from any goroutine, consumed by the next tick
	dirty             atomic.Bool
	teleportRequested atomic.Bool
	// set by NotifyTeleport, the next tick skips the torque pass
	skipNextTorquePass bool

	boneIndices []int
	windows     []*rolling.PointPolicy
	samples     []int

	strength  atomic.Uint64
	telemetry cmap.ConcurrentMap[string, JointTelemetry]

	ticks     atomic.Int64
	rebuilds  atomic.Int64
	teleports atomic.Int64
	driven    atomic.Int64
	skipped   atomic.Int64
}

func NewJointController(params Parameters, backend physics.Backend) *DefaultJointController {
	if params.Parallelism < 1 {
		params.Parallelism = 1
	}
	if params.TorqueWindowSize < 1 {
		params.TorqueWindowSize = 1
	}

	c := &DefaultJointController{
		params:    params,
		backend:   backend,
		cache:     binding.NewCache(newControllerFactory(params.Gravity)),
		state:     StateUninitialized,
		telemetry: cmap.New[JointTelemetry](),
	}
	c.registry = drive.NewRegistry(backend, c.markDirty)
	c.SetStrengthMultiplier(params.StrengthMultiplier)
	return c
}

func newControllerFactory(gravity mgl64.Vec3) binding.ControllerFactory {
	return func() control_loop.TorqueControlLoop {
		return control_loop.NewAntagonisticController(gravity)
	}
}

func (c *DefaultJointController) Bind(skel skeleton.Skeleton) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDestroyed {
		return ErrDestroyed
	}

	c.skeleton = skel
	count := c.registry.Init(skel)
	c.cache.Invalidate()
	c.boneIndices = nil
	c.windows = nil
	c.samples = nil
	c.telemetry.Clear()
	c.state = StateDirty

	ui.Debug("Bound joint controller to skeleton with %d joints", count)
	return nil
}

// markDirty is called by the registry after every edit.
func (c *DefaultJointController) markDirty() {
	c.dirty.Store(true)
	if c.backend != nil {
		c.backend.WakeAllBodies()
	}
}

func (c *DefaultJointController) Tick(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateUninitialized || c.state == StateDestroyed {
		return
	}
	c.ticks.Add(1)

	teleport := c.teleportRequested.Swap(false)
	skipTorque := c.skipNextTorquePass
	c.skipNextTorquePass = false

	c.backend.ExecuteWrite(func() {
		configs, ok := c.prepare()
		if !ok {
			return
		}

		if teleport {
			c.snapToTargets(configs)
			return
		}
		if skipTorque {
			return
		}
		c.applyTorques(configs, dt)
	})
}

func (c *DefaultJointController) NotifyTeleport() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateUninitialized || c.state == StateDestroyed {
		return
	}

	snapped := false
	c.backend.ExecuteWrite(func() {
		configs, ok := c.prepare()
		if !ok {
			return
		}
		c.snapToTargets(configs)
		snapped = true
	})
	c.skipNextTorquePass = snapped
}

// prepare rebuilds the bindings if needed and re-validates every handle.
// It must be called with c.mu held and inside ExecuteWrite.
func (c *DefaultJointController) prepare() ([]drive.JointDriveConfig, bool) {
	c.rebuildIfDirty()

	configs := c.registry.Snapshot()
	if len(configs) != c.cache.Len() {
		// an edit re-initialized the registry after the rebuild
		c.state = StateDirty
		return nil, false
	}

	if invalidated := c.cache.Validate(c.backend); invalidated > 0 {
		ui.Debug("%d joint bindings no longer resolve", invalidated)
		c.state = StateDirty
	}
	return configs, true
}

func (c *DefaultJointController) RequestTeleport() {
	c.teleportRequested.Store(true)
}

func (c *DefaultJointController) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registry.Init(nil)
	c.cache.Invalidate()
	c.skeleton = nil
	c.boneIndices = nil
	c.windows = nil
	c.samples = nil
	c.telemetry.Clear()
	c.state = StateDestroyed
}

func (c *DefaultJointController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateBound && c.dirty.Load() {
		return StateDirty
	}
	return c.state
}

func (c *DefaultJointController) Registry() *drive.Registry {
	return c.registry
}

func (c *DefaultJointController) SetStrengthMultiplier(multiplier float64) {
	if multiplier < 0 {
		ui.Warning("Strength multiplier must be >= 0, using 0 instead of %v", multiplier)
		multiplier = 0
	}
	c.strength.Store(math.Float64bits(multiplier))
}

func (c *DefaultJointController) StrengthMultiplier() float64 {
	return math.Float64frombits(c.strength.Load())
}

func (c *DefaultJointController) Telemetry(bodyName string) (JointTelemetry, bool) {
	return c.telemetry.Get(bodyName)
}

func (c *DefaultJointController) AllTelemetry() map[string]JointTelemetry {
	return c.telemetry.Items()
}

func (c *DefaultJointController) GetStatistics() Statistics {
	state := c.State()

	c.mu.Lock()
	joints := c.cache.Len()
	unresolved := c.cache.Unresolved()
	c.mu.Unlock()

	return Statistics{
		State:         state,
		Joints:        joints,
		Unresolved:    unresolved,
		Ticks:         c.ticks.Load(),
		Rebuilds:      c.rebuilds.Load(),
		Teleports:     c.teleports.Load(),
		DrivenJoints:  c.driven.Load(),
		SkippedJoints: c.skipped.Load(),
	}
}

// rebuildIfDirty must be called with c.mu held and inside ExecuteWrite.
func (c *DefaultJointController) rebuildIfDirty() {
	if !c.dirty.Swap(false) && c.state != StateDirty {
		return
	}

	configs := c.registry.Snapshot()
	countChanged := len(configs) != c.cache.Len()
	unresolved := c.cache.Rebuild(configs, c.backend)
	c.rebuilds.Add(1)

	if countChanged || len(c.boneIndices) != len(configs) {
		c.windows = make([]*rolling.PointPolicy, len(configs))
		c.samples = make([]int, len(configs))
		for i := range c.windows {
			c.windows[i] = util.CreateRollingWindow(c.params.TorqueWindowSize)
		}
	}

	c.boneIndices = make([]int, len(configs))
	for i, config := range configs {
		c.boneIndices[i] = c.findBone(config.BodyName)
	}

	if unresolved > 0 {
		ui.Debug("%d of %d joints could not be resolved, retrying next tick", unresolved, len(configs))
		c.state = StateDirty
	} else {
		c.state = StateBound
	}
}

func (c *DefaultJointController) findBone(bodyName string) int {
	if c.skeleton == nil {
		return skeleton.IndexNone
	}
	bone := c.skeleton.FindBoneIndex(bodyName)
	if bone == skeleton.IndexNone {
		ui.Warning("Joint %s has no matching bone", bodyName)
		return bone
	}
	if _, ok := skeleton.ComputeTargetTransform(c.skeleton, bone); !ok {
		ui.Warning("Bone hierarchy above joint %s contains a cycle, joint will not be driven", bodyName)
	}
	return bone
}

// eligibleBody returns the body of joint i if it should be driven this tick.
func (c *DefaultJointController) eligibleBody(i int, config drive.JointDriveConfig) (physics.RigidBody, bool) {
	if !config.SimulateEnabled {
		return nil, false
	}
	instance := c.cache.At(i)
	if instance.Binding.Status != binding.Resolved {
		return nil, false
	}
	if i >= len(c.boneIndices) || c.boneIndices[i] == skeleton.IndexNone {
		return nil, false
	}
	return c.backend.Body(instance.Binding.Body)
}

func (c *DefaultJointController) snapToTargets(configs []drive.JointDriveConfig) {
	c.teleports.Add(1)
	for i, config := range configs {
		body, ok := c.eligibleBody(i, config)
		if !ok {
			continue
		}
		target, ok := skeleton.ComputeTargetTransform(c.skeleton, c.boneIndices[i])
		if !ok {
			continue
		}
		body.SetGlobalPose(target)
	}
}

func (c *DefaultJointController) applyTorques(configs []drive.JointDriveConfig, dt float64) {
	var driven, skipped atomic.Int64
	strength := c.StrengthMultiplier()

	util.ParallelFor(len(configs), c.params.Parallelism, minJointsPerWorker, func(start, end int) {
		for i := start; i < end; i++ {
			if c.driveJoint(i, configs[i], strength, dt) {
				driven.Add(1)
			} else {
				c.recordSkipped(i, configs[i])
				skipped.Add(1)
			}
		}
	})

	c.driven.Store(driven.Load())
	c.skipped.Store(skipped.Load())
}

func (c *DefaultJointController) driveJoint(i int, config drive.JointDriveConfig, strength float64, dt float64) bool {
	body, ok := c.eligibleBody(i, config)
	if !ok {
		return false
	}
	target, ok := skeleton.ComputeTargetTransform(c.skeleton, c.boneIndices[i])
	if !ok {
		return false
	}

	instance := c.cache.At(i)
	physical := body.GlobalPose()
	torque := instance.Controller.ComputeRequiredTorque(
		config.MinSoftLimit,
		config.MaxSoftLimit,
		physical.Rotation,
		target.Rotation,
		body,
		dt,
	)
	impulse := torque.Mul(strength)
	body.AddAngularImpulse(impulse)
	ui.Debug("Joint %s: impulse %v", config.BodyName, impulse)

	c.recordTelemetry(i, config, instance, body, impulse)
	return true
}

func (c *DefaultJointController) recordSkipped(i int, config drive.JointDriveConfig) {
	telemetry, _ := c.telemetry.Get(config.BodyName)
	telemetry.BodyName = config.BodyName
	telemetry.Resolved = c.cache.At(i).Binding.Status == binding.Resolved
	telemetry.Simulating = config.SimulateEnabled
	telemetry.Impulse = mgl64.Vec3{}
	telemetry.Settled = false
	telemetry.UpdatedAt = time.Now()
	c.telemetry.Set(config.BodyName, telemetry)
}

type evaluationSource interface {
	LastEvaluation() control_loop.Evaluation
}

func (c *DefaultJointController) recordTelemetry(i int, config drive.JointDriveConfig, instance *binding.Instance, body physics.RigidBody, impulse mgl64.Vec3) {
	window := c.windows[i]
	window.Append(impulse.Len())
	c.samples[i]++

	telemetry := JointTelemetry{
		BodyName:   config.BodyName,
		Resolved:   instance.Binding.Status == binding.Resolved,
		Simulating: body.IsSimulating(),
		Impulse:    impulse,
		TorqueAvg:  util.GetWindowAvg(window),
		Settled: c.samples[i] >= c.params.TorqueWindowSize &&
			util.GetWindowSpread(window) < c.params.SettleThreshold,
		UpdatedAt: time.Now(),
	}
	if source, ok := instance.Controller.(evaluationSource); ok {
		telemetry.Evaluation = source.LastEvaluation()
	}
	c.telemetry.Set(config.BodyName, telemetry)
}
