package binding

import (
	"errors"

	"github.com/markusressel/jointdrive/internal/control_loop"
	"github.com/markusressel/jointdrive/internal/drive"
	"github.com/markusressel/jointdrive/internal/physics"
	"github.com/markusressel/jointdrive/internal/ui"
)

type Status int

const (
	Unresolved Status = iota
	Resolved
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	default:
		return "unresolved"
	}
}

// Binding associates a joint with the physics objects it drives.
type Binding struct {
	Body       physics.BodyHandle
	Constraint physics.ConstraintHandle
	Status     Status
}

func unresolvedBinding() Binding {
	return Binding{
		Body:       physics.InvalidHandle,
		Constraint: physics.InvalidHandle,
		Status:     Unresolved,
	}
}

// Instance is the runtime state of a single joint.
type Instance struct {
	Binding    Binding
	Controller control_loop.TorqueControlLoop
}

type ControllerFactory func() control_loop.TorqueControlLoop

// Cache holds one Instance per joint, index aligned with the drive.Registry.
type Cache struct {
	instances     []Instance
	newController ControllerFactory

	resolveCount int
}

func NewCache(newController ControllerFactory) *Cache {
	return &Cache{
		newController: newController,
	}
}

// Rebuild brings the cache in line with configs. If the number of joints
// changed, all instances are dropped and recreated. Otherwise only unresolved
// bindings are resolved again. Gains of every controller are refreshed.
// It returns the number of joints that are still unresolved.
func (c *Cache) Rebuild(configs []drive.JointDriveConfig, backend physics.Backend) int {
	if len(c.instances) != len(configs) {
		c.Invalidate()
		c.instances = make([]Instance, len(configs))
		for i := range c.instances {
			c.instances[i] = Instance{
				Binding:    unresolvedBinding(),
				Controller: c.newController(),
			}
		}
	}

	unresolved := 0
	for i := range c.instances {
		instance := &c.instances[i]
		config := configs[i]

		if instance.Binding.Status == Unresolved {
			if !c.resolve(instance, config, backend) {
				unresolved++
			}
		} else if instance.Binding.Constraint != physics.InvalidHandle {
			configureConstraint(instance.Binding.Constraint, config, backend)
		}

		instance.Controller.SetGains(config.Gains())
	}

	return unresolved
}

func (c *Cache) resolve(instance *Instance, config drive.JointDriveConfig, backend physics.Backend) bool {
	c.resolveCount++

	body, err := backend.ResolveBody(config.BodyName)
	if err != nil {
		ui.Debug("Unable to resolve body of joint %s: %v", config.BodyName, err)
		instance.Binding = unresolvedBinding()
		return false
	}

	constraint, err := backend.ResolveConstraint(config.BodyName)
	if err != nil {
		if !errors.Is(err, physics.ErrConstraintNotFound) {
			ui.Warning("Unable to resolve constraint of joint %s: %v", config.BodyName, err)
		}
		constraint = physics.InvalidHandle
	} else {
		configureConstraint(constraint, config, backend)
	}

	instance.Binding = Binding{
		Body:       body,
		Constraint: constraint,
		Status:     Resolved,
	}
	return true
}

func configureConstraint(constraint physics.ConstraintHandle, config drive.JointDriveConfig, backend physics.Backend) {
	err := backend.ConfigureConstraint(constraint, config.MinHardLimit, config.MaxHardLimit)
	if err != nil {
		ui.Warning("Unable to configure hard limits of joint %s: %v", config.BodyName, err)
	}
}

// Validate marks every binding whose body no longer resolves as unresolved.
// It must be called inside physics.Backend.ExecuteWrite and returns the number
// of bindings that were invalidated.
func (c *Cache) Validate(backend physics.Backend) int {
	invalidated := 0
	for i := range c.instances {
		binding := &c.instances[i].Binding
		if binding.Status != Resolved {
			continue
		}
		_, bodyOk := backend.Body(binding.Body)
		constraintOk := binding.Constraint == physics.InvalidHandle || backend.HasConstraint(binding.Constraint)
		if !bodyOk || !constraintOk {
			c.unresolve(i)
			invalidated++
		}
	}
	return invalidated
}

// unresolve forces the binding at index i to be resolved again on the next Rebuild.
func (c *Cache) unresolve(i int) {
	c.instances[i].Binding = unresolvedBinding()
}

// Invalidate drops all instances, including controller state.
func (c *Cache) Invalidate() {
	c.instances = nil
}

func (c *Cache) Len() int {
	return len(c.instances)
}

func (c *Cache) At(i int) *Instance {
	return &c.instances[i]
}

// Unresolved returns the number of joints without a resolved binding.
func (c *Cache) Unresolved() int {
	count := 0
	for _, instance := range c.instances {
		if instance.Binding.Status != Resolved {
			count++
		}
	}
	return count
}

// ResolveCount returns how often a binding resolution was attempted.
func (c *Cache) ResolveCount() int {
	return c.resolveCount
}
