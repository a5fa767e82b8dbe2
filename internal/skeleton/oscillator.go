package skeleton

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Oscillation swings one bone back and forth about an axis.
type Oscillation struct {
	Bone string
	// Axis of rotation in the bone's parent space
	Axis mgl64.Vec3
	// Amplitude in degrees
	Amplitude float64
	// Frequency in Hz
	Frequency float64
	// Phase in degrees
	Phase float64
}

type oscillationTrack struct {
	boneIndex    int
	restRotation mgl64.Quat
	axis         mgl64.Vec3
	amplitude    float64
	frequency    float64
	phase        float64
}

// Oscillator is a procedural Animator that drives bones of a Rig with sine waves.
type Oscillator struct {
	rig    *Rig
	tracks []oscillationTrack
	time   float64
}

func NewOscillator(rig *Rig, oscillations []Oscillation) (*Oscillator, error) {
	o := &Oscillator{
		rig: rig,
	}

	for _, oscillation := range oscillations {
		idx := rig.FindBoneIndex(oscillation.Bone)
		if idx == IndexNone {
			return nil, fmt.Errorf("animation: no bone with name '%s' found", oscillation.Bone)
		}
		if oscillation.Axis.Len() == 0 {
			return nil, fmt.Errorf("animation %s: axis must not be zero", oscillation.Bone)
		}

		o.tracks = append(o.tracks, oscillationTrack{
			boneIndex:    idx,
			restRotation: rig.LocalTransform(idx).Rotation,
			axis:         oscillation.Axis.Normalize(),
			amplitude:    mgl64.DegToRad(oscillation.Amplitude),
			frequency:    oscillation.Frequency,
			phase:        mgl64.DegToRad(oscillation.Phase),
		})
	}

	return o, nil
}

func (o *Oscillator) Advance(dt float64) {
	o.time += dt
	for _, track := range o.tracks {
		angle := track.amplitude * math.Sin(2*math.Pi*track.frequency*o.time+track.phase)
		rotation := mgl64.QuatRotate(angle, track.axis).Mul(track.restRotation)
		o.rig.SetLocalRotation(track.boneIndex, rotation)
	}
}

func (o *Oscillator) Time() float64 {
	return o.time
}
