package control_loop

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/physics"
	"github.com/markusressel/jointdrive/internal/spatial"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/markusressel/jointdrive/internal/util"
)

// MinErrorDenominator is the smallest magnitude (in degrees) used for the
// target's max limit error when deriving the high side gain.
// With the target sitting on its max soft limit the high side gain saturates
// at |gravity torque| / MinErrorDenominator instead of diverging.
const MinErrorDenominator = 1e-3

// Evaluation captures the intermediate values of the last ComputeRequiredTorque call.
type Evaluation struct {
	PhysicalAngle        mgl64.Vec3 `json:"physicalAngle"`
	TargetAngle          mgl64.Vec3 `json:"targetAngle"`
	PhysicalErrorMin     mgl64.Vec3 `json:"physicalErrorMin"`
	PhysicalErrorMax     mgl64.Vec3 `json:"physicalErrorMax"`
	GravityTorque        mgl64.Vec3 `json:"gravityTorque"`
	ProportionalGainHigh mgl64.Vec3 `json:"proportionalGainHigh"`
	IntegralError        mgl64.Vec3 `json:"integralError"`
	Output               mgl64.Vec3 `json:"output"`
	Torque               mgl64.Vec3 `json:"torque"`
}

// AntagonisticController combines a fixed gain pulling towards the min soft limit
// with an adaptive gain pulling towards the max soft limit. The adaptive side is
// chosen so that, at the target orientation, both sides together hold the joint
// against gravity.
type AntagonisticController struct {
	gravity GravityTorqueEstimator

	integralGain         float64
	derivativeGain       float64
	proportionalGainLow  float64
	proportionalGainHigh mgl64.Vec3
	integralLimit        float64

	integralError mgl64.Vec3

	lastEvaluation Evaluation
}

func NewAntagonisticController(gravity mgl64.Vec3) *AntagonisticController {
	return &AntagonisticController{
		gravity: NewGravityTorqueEstimator(gravity),
	}
}

func (c *AntagonisticController) SetGains(gains Gains) {
	c.integralGain = gains.IntegralGain * gains.StiffnessMultiplier
	c.derivativeGain = gains.DerivativeGain * gains.StiffnessMultiplier
	c.proportionalGainLow = gains.ProportionalGain * gains.StiffnessMultiplier
	c.integralLimit = gains.IntegralLimit
}

func (c *AntagonisticController) ComputeRequiredTorque(
	minSoftLimit mgl64.Vec3,
	maxSoftLimit mgl64.Vec3,
	physicalOrientation mgl64.Quat,
	targetOrientation mgl64.Quat,
	body physics.RigidBody,
	dt float64,
) mgl64.Vec3 {
	physicalAngle := spatial.TwistAnglesDegrees(physicalOrientation)
	targetAngle := spatial.TwistAnglesDegrees(targetOrientation)

	physicalErrorMin := minSoftLimit.Sub(physicalAngle)
	physicalErrorMax := maxSoftLimit.Sub(physicalAngle)
	targetErrorMin := minSoftLimit.Sub(targetAngle)
	targetErrorMax := maxSoftLimit.Sub(targetAngle)

	gravityTorque := c.gravity.Estimate(body)
	c.proportionalGainHigh = ComputeProportionalGainHigh(c.proportionalGainLow, targetErrorMin, targetErrorMax, gravityTorque)

	output := c.Output(physicalErrorMin, physicalErrorMax, body.AngularVelocity(), dt)

	rotationOfMass := body.RotationOfMass()
	torque := rotationOfMass.Rotate(output)
	torque = spatial.MulElem(torque, body.LocalInertia())
	torque = rotationOfMass.Inverse().Rotate(torque)

	c.lastEvaluation = Evaluation{
		PhysicalAngle:        physicalAngle,
		TargetAngle:          targetAngle,
		PhysicalErrorMin:     physicalErrorMin,
		PhysicalErrorMax:     physicalErrorMax,
		GravityTorque:        gravityTorque,
		ProportionalGainHigh: c.proportionalGainHigh,
		IntegralError:        c.integralError,
		Output:               output,
		Torque:               torque,
	}

	ui.Debug("KPL: %.4f, errorMin: %v, KPH: %v, errorMax: %v", c.proportionalGainLow, physicalErrorMin, c.proportionalGainHigh, physicalErrorMax)

	return torque
}

// ComputeProportionalGainHigh derives the high side gain per axis so that
// errorMin*gainLow + errorMax*gainHigh == -gravityTorque at the target orientation.
func ComputeProportionalGainHigh(gainLow float64, targetErrorMin, targetErrorMax, gravityTorque mgl64.Vec3) mgl64.Vec3 {
	var result mgl64.Vec3
	for i := 0; i < 3; i++ {
		denominator := util.ClampAwayFromZero(targetErrorMax[i], MinErrorDenominator)
		intercept := -gravityTorque[i] / denominator
		slope := targetErrorMin[i] / -denominator
		result[i] = gainLow*slope + intercept
	}
	return result
}

// Output evaluates the control law for the given one-sided errors and
// accumulates errorLow into the integral error.
func (c *AntagonisticController) Output(errorLow, errorHigh, angularVelocity mgl64.Vec3, dt float64) mgl64.Vec3 {
	c.integralError = c.integralError.Add(errorLow.Mul(dt))
	if c.integralLimit > 0 {
		for i := 0; i < 3; i++ {
			c.integralError[i] = util.Coerce(c.integralError[i], -c.integralLimit, c.integralLimit)
		}
	}

	return errorLow.Mul(c.proportionalGainLow).
		Add(spatial.MulElem(errorHigh, c.proportionalGainHigh)).
		Add(c.integralError.Mul(c.integralGain)).
		Sub(angularVelocity.Mul(c.derivativeGain))
}

func (c *AntagonisticController) Reset() {
	c.integralError = mgl64.Vec3{}
	c.proportionalGainHigh = mgl64.Vec3{}
	c.lastEvaluation = Evaluation{}
}

func (c *AntagonisticController) IntegralError() mgl64.Vec3 {
	return c.integralError
}

func (c *AntagonisticController) ProportionalGainLow() float64 {
	return c.proportionalGainLow
}

func (c *AntagonisticController) ProportionalGainHigh() mgl64.Vec3 {
	return c.proportionalGainHigh
}

func (c *AntagonisticController) IntegralGain() float64 {
	return c.integralGain
}

func (c *AntagonisticController) DerivativeGain() float64 {
	return c.derivativeGain
}

func (c *AntagonisticController) LastEvaluation() Evaluation {
	return c.lastEvaluation
}
