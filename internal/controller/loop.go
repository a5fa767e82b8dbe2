package controller

import (
	"context"
	"time"

	"github.com/markusressel/jointdrive/internal/skeleton"
	"github.com/markusressel/jointdrive/internal/ui"
)

// Stepper advances the physics simulation by dt seconds.
type Stepper interface {
	Step(dt float64)
}

// Loop runs the fixed phase order of a frame:
// pose evaluation, joint update cycle, physics step.
type Loop struct {
	controller JointController
	animator   skeleton.Animator
	stepper    Stepper
	tickRate   time.Duration
}

// NewLoop creates a new loop. animator and stepper may be nil.
func NewLoop(controller JointController, animator skeleton.Animator, stepper Stepper, tickRate time.Duration) *Loop {
	return &Loop{
		controller: controller,
		animator:   animator,
		stepper:    stepper,
		tickRate:   tickRate,
	}
}

// RunOnce runs a single frame with the given delta time in seconds.
func (l *Loop) RunOnce(dt float64) {
	if l.animator != nil {
		l.animator.Advance(dt)
	}
	l.controller.Tick(dt)
	if l.stepper != nil {
		l.stepper.Step(dt)
	}
}

func (l *Loop) Run(ctx context.Context) error {
	ui.Info("Starting joint update loop with tick rate %s", l.tickRate)

	ticker := time.NewTicker(l.tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			ui.Info("Stopping joint update loop")
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			l.RunOnce(dt)
		}
	}
}
