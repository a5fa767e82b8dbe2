package physics

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/spatial"
)

const sleepAngularVelocity = 1e-4

// BodyParameters describes a rigid body added to a SimulatedBackend.
type BodyParameters struct {
	Name           string
	Pose           spatial.Transform
	Mass           float64
	CenterOfMass   mgl64.Vec3 // in the body's local frame
	RotationOfMass mgl64.Quat
	Inertia        mgl64.Vec3
	Simulate       bool
}

// ConstraintParameters describes a joint between a body and its parent body.
// An empty Parent constrains the body relative to world space.
type ConstraintParameters struct {
	Name         string
	Parent       string
	MinHardLimit mgl64.Vec3
	MaxHardLimit mgl64.Vec3
}

type simulatedBody struct {
	name            string
	pose            spatial.Transform
	angularVelocity mgl64.Vec3
	mass            float64
	centerOfMass    mgl64.Vec3
	rotationOfMass  mgl64.Quat
	inertia         mgl64.Vec3
	simulate        bool
	awake           bool
}

func (b *simulatedBody) Name() string                         { return b.name }
func (b *simulatedBody) GlobalPose() spatial.Transform        { return b.pose }
func (b *simulatedBody) AngularVelocity() mgl64.Vec3          { return b.angularVelocity }
func (b *simulatedBody) Mass() float64                        { return b.mass }
func (b *simulatedBody) RotationOfMass() mgl64.Quat           { return b.rotationOfMass }
func (b *simulatedBody) LocalInertia() mgl64.Vec3             { return b.inertia }
func (b *simulatedBody) IsSimulating() bool                   { return b.simulate }
func (b *simulatedBody) SetGlobalPose(pose spatial.Transform) { b.pose = pose; b.awake = true }

func (b *simulatedBody) CenterOfMass() mgl64.Vec3 {
	return b.pose.Rotation.Rotate(b.centerOfMass)
}

// AddAngularImpulse changes the angular velocity immediately by impulse / inertia.
func (b *simulatedBody) AddAngularImpulse(impulse mgl64.Vec3) {
	b.angularVelocity = b.angularVelocity.Add(spatial.DivElem(impulse, b.inertia))
	b.awake = true
}

type simulatedConstraint struct {
	name         string
	parent       string
	minHardLimit mgl64.Vec3
	maxHardLimit mgl64.Vec3
}

// SimulatedBackend is a small in-process rigid body integrator.
// It only integrates orientation: bodies rotate about their origin under
// gravity torque, applied impulses and angular damping, and constraints stop
// rotation past their hard limits relative to the parent body.
type SimulatedBackend struct {
	mu sync.Mutex

	gravity        mgl64.Vec3
	angularDamping float64

	bodies          []*simulatedBody
	bodyIndex       map[string]BodyHandle
	constraints     []*simulatedConstraint
	constraintIndex map[string]ConstraintHandle
}

func NewSimulatedBackend(gravity mgl64.Vec3, angularDamping float64) *SimulatedBackend {
	return &SimulatedBackend{
		gravity:         gravity,
		angularDamping:  angularDamping,
		bodyIndex:       map[string]BodyHandle{},
		constraintIndex: map[string]ConstraintHandle{},
	}
}

func (s *SimulatedBackend) AddBody(params BodyParameters) (BodyHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bodyIndex[params.Name]; exists {
		return InvalidHandle, fmt.Errorf("body %s already exists", params.Name)
	}
	if params.Mass <= 0 {
		return InvalidHandle, fmt.Errorf("body %s: mass must be > 0", params.Name)
	}

	rotationOfMass := params.RotationOfMass
	if rotationOfMass.Len() == 0 {
		rotationOfMass = mgl64.QuatIdent()
	}
	pose := params.Pose
	if pose.Rotation.Len() == 0 {
		pose.Rotation = mgl64.QuatIdent()
	}

	handle := BodyHandle(len(s.bodies))
	s.bodies = append(s.bodies, &simulatedBody{
		name:           params.Name,
		pose:           pose,
		mass:           params.Mass,
		centerOfMass:   params.CenterOfMass,
		rotationOfMass: rotationOfMass,
		inertia:        params.Inertia,
		simulate:       params.Simulate,
		awake:          true,
	})
	s.bodyIndex[params.Name] = handle
	return handle, nil
}

// RemoveBody drops the named body. Existing handles to it stop resolving.
func (s *SimulatedBackend) RemoveBody(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.bodyIndex[name]
	if !ok {
		return false
	}
	s.bodies[handle] = nil
	delete(s.bodyIndex, name)
	return true
}

func (s *SimulatedBackend) AddConstraint(params ConstraintParameters) (ConstraintHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.constraintIndex[params.Name]; exists {
		return InvalidHandle, fmt.Errorf("constraint %s already exists", params.Name)
	}

	handle := ConstraintHandle(len(s.constraints))
	s.constraints = append(s.constraints, &simulatedConstraint{
		name:         params.Name,
		parent:       params.Parent,
		minHardLimit: params.MinHardLimit,
		maxHardLimit: params.MaxHardLimit,
	})
	s.constraintIndex[params.Name] = handle
	return handle, nil
}

// ResolveBody does not lock, it is meant to be called inside ExecuteWrite.
func (s *SimulatedBackend) ResolveBody(name string) (BodyHandle, error) {
	handle, ok := s.bodyIndex[name]
	if !ok {
		return InvalidHandle, fmt.Errorf("%w: %s", ErrBodyNotFound, name)
	}
	return handle, nil
}

func (s *SimulatedBackend) ResolveConstraint(name string) (ConstraintHandle, error) {
	handle, ok := s.constraintIndex[name]
	if !ok {
		return InvalidHandle, fmt.Errorf("%w: %s", ErrConstraintNotFound, name)
	}
	return handle, nil
}

// Body does not lock, it is meant to be called inside ExecuteWrite.
func (s *SimulatedBackend) Body(handle BodyHandle) (RigidBody, bool) {
	if handle < 0 || int(handle) >= len(s.bodies) {
		return nil, false
	}
	body := s.bodies[handle]
	if body == nil {
		return nil, false
	}
	return body, true
}

func (s *SimulatedBackend) HasConstraint(handle ConstraintHandle) bool {
	return handle >= 0 && int(handle) < len(s.constraints)
}

func (s *SimulatedBackend) ConfigureConstraint(handle ConstraintHandle, minHardLimit, maxHardLimit mgl64.Vec3) error {
	if !s.HasConstraint(handle) {
		return ErrConstraintNotFound
	}
	constraint := s.constraints[handle]
	constraint.minHardLimit = minHardLimit
	constraint.maxHardLimit = maxHardLimit
	return nil
}

func (s *SimulatedBackend) ExecuteWrite(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *SimulatedBackend) WakeAllBodies() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, body := range s.bodies {
		if body != nil {
			body.awake = true
		}
	}
}

func (s *SimulatedBackend) SetSimulatePhysics(bodyName string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.bodyIndex[bodyName]
	if !ok {
		return false
	}
	body := s.bodies[handle]
	body.simulate = enabled
	body.awake = true
	if !enabled {
		body.angularVelocity = mgl64.Vec3{}
	}
	return true
}

// Step advances all awake, simulating bodies by dt seconds.
func (s *SimulatedBackend) Step(dt float64) {
	if dt <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	damping := math.Max(0, 1-s.angularDamping*dt)

	for _, body := range s.bodies {
		if body == nil || !body.simulate || !body.awake {
			continue
		}

		gravityTorque := body.CenterOfMass().Cross(s.gravity.Mul(body.mass))
		body.angularVelocity = body.angularVelocity.Add(spatial.DivElem(gravityTorque, body.inertia).Mul(dt))
		body.angularVelocity = body.angularVelocity.Mul(damping)

		if constraint := s.constraintFor(body.name); constraint != nil {
			s.applyHardLimits(body, constraint)
		}

		omega := mgl64.Quat{W: 0, V: body.angularVelocity}
		delta := omega.Mul(body.pose.Rotation).Scale(0.5 * dt)
		body.pose.Rotation = body.pose.Rotation.Add(delta).Normalize()

		if body.angularVelocity.Len() < sleepAngularVelocity && gravityTorque.Len() == 0 {
			body.awake = false
		}
	}
}

func (s *SimulatedBackend) constraintFor(bodyName string) *simulatedConstraint {
	handle, ok := s.constraintIndex[bodyName]
	if !ok {
		return nil
	}
	return s.constraints[handle]
}

// applyHardLimits removes angular velocity that would push the body further
// past a hard limit, measured as twist relative to the parent body.
func (s *SimulatedBackend) applyHardLimits(body *simulatedBody, constraint *simulatedConstraint) {
	parentRotation := mgl64.QuatIdent()
	if parentHandle, ok := s.bodyIndex[constraint.parent]; ok && s.bodies[parentHandle] != nil {
		parentRotation = s.bodies[parentHandle].pose.Rotation
	}

	relative := parentRotation.Inverse().Mul(body.pose.Rotation)
	angles := spatial.TwistAnglesDegrees(relative)
	localVelocity := parentRotation.Inverse().Rotate(body.angularVelocity)

	for i := 0; i < 3; i++ {
		if angles[i] >= constraint.maxHardLimit[i] && localVelocity[i] > 0 {
			localVelocity[i] = 0
		}
		if angles[i] <= constraint.minHardLimit[i] && localVelocity[i] < 0 {
			localVelocity[i] = 0
		}
	}

	body.angularVelocity = parentRotation.Rotate(localVelocity)
}
