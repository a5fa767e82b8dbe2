package drive

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/physics"
	"github.com/markusressel/jointdrive/internal/skeleton"
	"github.com/markusressel/jointdrive/internal/ui"
)

// Registry owns the JointDriveConfig of every joint of one skeleton.
// Index i of the registry always refers to the i-th body of the skeleton.
type Registry struct {
	mu sync.RWMutex

	configs  []JointDriveConfig
	index    map[string]int
	skeleton skeleton.Skeleton

	backend physics.Backend
	onDirty func()
}

// NewRegistry creates an empty registry. onDirty is called (without any lock
// held) after every edit that requires bindings or controllers to be refreshed.
func NewRegistry(backend physics.Backend, onDirty func()) *Registry {
	if onDirty == nil {
		onDirty = func() {}
	}
	return &Registry{
		index:   map[string]int{},
		backend: backend,
		onDirty: onDirty,
	}
}

// Init replaces all configs with defaults, one per body of skel.
func (r *Registry) Init(skel skeleton.Skeleton) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.skeleton = skel
	r.configs = nil
	r.index = map[string]int{}
	if skel == nil {
		return 0
	}

	for i, body := range skel.Bodies() {
		r.configs = append(r.configs, NewJointDriveConfig(body))
		r.index[body] = i
	}
	return len(r.configs)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.configs)
}

func (r *Registry) Get(i int) JointDriveConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.configs[i]
}

func (r *Registry) Find(bodyName string) (JointDriveConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[bodyName]
	if !ok {
		return JointDriveConfig{}, false
	}
	return r.configs[i], true
}

// Snapshot returns a copy of all configs, in joint order.
func (r *Registry) Snapshot() []JointDriveConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]JointDriveConfig, len(r.configs))
	copy(result, r.configs)
	return result
}

// Update applies fn to the config of a single joint.
func (r *Registry) Update(bodyName string, fn func(config *JointDriveConfig)) bool {
	r.mu.Lock()
	i, ok := r.index[bodyName]
	if ok {
		fn(&r.configs[i])
	}
	r.mu.Unlock()

	if ok {
		r.onDirty()
	}
	return ok
}

// Restore overwrites the configs of all joints present in configs, matched by body name.
// Entries for unknown bodies are ignored. It returns the number of restored joints.
func (r *Registry) Restore(configs []JointDriveConfig) int {
	r.mu.Lock()
	var restored []JointDriveConfig
	for _, config := range configs {
		if i, ok := r.index[config.BodyName]; ok {
			r.configs[i] = config
			restored = append(restored, config)
		}
	}
	r.mu.Unlock()

	for _, config := range restored {
		r.forwardSimulate(config.BodyName, config.SimulateEnabled)
	}

	count := len(restored)
	if count > 0 {
		r.onDirty()
	}
	return count
}

func (r *Registry) SetGains(bodyName string, integral, derivative, proportional float64) bool {
	return r.Update(bodyName, func(config *JointDriveConfig) {
		setGains(config, integral, derivative, proportional)
	})
}

func (r *Registry) SetGainsForSubtree(bodyName string, integral, derivative, proportional float64, includeRoot bool) int {
	return r.updateSubtree(bodyName, includeRoot, true, func(config *JointDriveConfig) {
		setGains(config, integral, derivative, proportional)
	})
}

func (r *Registry) SetStiffnessMultiplier(bodyName string, multiplier float64) bool {
	multiplier = sanitizeStiffness(multiplier)
	return r.Update(bodyName, func(config *JointDriveConfig) {
		config.StiffnessMultiplier = multiplier
	})
}

func (r *Registry) SetStiffnessMultiplierForSubtree(bodyName string, multiplier float64, includeRoot bool) int {
	multiplier = sanitizeStiffness(multiplier)
	return r.updateSubtree(bodyName, includeRoot, true, func(config *JointDriveConfig) {
		config.StiffnessMultiplier = multiplier
	})
}

// SetSimulateEnabled toggles simulation of a single joint, both in the
// registry and in the physics backend.
func (r *Registry) SetSimulateEnabled(bodyName string, enabled bool) bool {
	r.mu.Lock()
	i, ok := r.index[bodyName]
	if ok {
		r.configs[i].SimulateEnabled = enabled
	}
	r.mu.Unlock()

	if ok {
		r.forwardSimulate(bodyName, enabled)
	}
	return ok
}

// SetSimulateEnabledForSubtree toggles simulation of a subtree, both in the
// registry and in the physics backend.
func (r *Registry) SetSimulateEnabledForSubtree(bodyName string, enabled bool, includeRoot bool) int {
	var affected []string
	count := r.updateSubtree(bodyName, includeRoot, false, func(config *JointDriveConfig) {
		config.SimulateEnabled = enabled
		affected = append(affected, config.BodyName)
	})

	for _, body := range affected {
		r.forwardSimulate(body, enabled)
	}
	return count
}

func (r *Registry) forwardSimulate(bodyName string, enabled bool) {
	if r.backend == nil {
		return
	}
	if !r.backend.SetSimulatePhysics(bodyName, enabled) {
		ui.Debug("Body %s is not known to the physics backend", bodyName)
	}
}

func (r *Registry) SetLimits(bodyName string, minSoft, maxSoft, minHard, maxHard mgl64.Vec3) bool {
	return r.Update(bodyName, func(config *JointDriveConfig) {
		config.MinSoftLimit = minSoft
		config.MaxSoftLimit = maxSoft
		config.MinHardLimit = minHard
		config.MaxHardLimit = maxHard
	})
}

func (r *Registry) updateSubtree(bodyName string, includeRoot bool, markDirty bool, fn func(config *JointDriveConfig)) int {
	r.mu.Lock()
	count := 0
	if r.skeleton != nil {
		r.skeleton.ForEachBodyBelow(bodyName, includeRoot, func(body string) {
			if i, ok := r.index[body]; ok {
				fn(&r.configs[i])
				count++
			}
		})
	}
	r.mu.Unlock()

	if markDirty && count > 0 {
		r.onDirty()
	}
	return count
}

func setGains(config *JointDriveConfig, integral, derivative, proportional float64) {
	config.IntegralGain = integral
	config.DerivativeGain = derivative
	config.ProportionalGain = proportional
}

func sanitizeStiffness(multiplier float64) float64 {
	if multiplier < 0 {
		ui.Warning("Stiffness multiplier must be >= 0, using 0 instead of %v", multiplier)
		return 0
	}
	return multiplier
}
