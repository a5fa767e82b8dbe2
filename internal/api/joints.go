package api

import (
	"fmt"
	"net/http"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/labstack/echo/v4"
	"github.com/markusressel/jointdrive/internal/controller"
	"github.com/markusressel/jointdrive/internal/drive"
	"github.com/qdm12/reprint"
)

type JointDetail struct {
	Config    drive.JointDriveConfig     `json:"config"`
	Telemetry *controller.JointTelemetry `json:"telemetry,omitempty"`
}

type GainsRequest struct {
	IntegralGain     float64 `json:"integralGain"`
	DerivativeGain   float64 `json:"derivativeGain"`
	ProportionalGain float64 `json:"proportionalGain"`
	IncludeChildren  bool    `json:"includeChildren"`
}

type StiffnessRequest struct {
	Multiplier      float64 `json:"multiplier"`
	IncludeChildren bool    `json:"includeChildren"`
}

type SimulateRequest struct {
	Enabled         bool `json:"enabled"`
	IncludeChildren bool `json:"includeChildren"`
}

type LimitsRequest struct {
	MinSoftLimit mgl64.Vec3 `json:"minSoftLimit"`
	MaxSoftLimit mgl64.Vec3 `json:"maxSoftLimit"`
	MinHardLimit mgl64.Vec3 `json:"minHardLimit"`
	MaxHardLimit mgl64.Vec3 `json:"maxHardLimit"`
}

type UpdateResult struct {
	Affected int `json:"affected"`
}

func registerJointEndpoints(rest *echo.Echo, service *Service) {
	group := rest.Group("/joint")

	group.GET("/", service.getJoints)
	group.GET("/:"+urlParamId+"/", service.getJoint)
	group.GET("/:"+urlParamId+"/telemetry/", service.getJointTelemetry)
	group.PUT("/:"+urlParamId+"/gains/", service.setGains)
	group.PUT("/:"+urlParamId+"/stiffness/", service.setStiffness)
	group.PUT("/:"+urlParamId+"/simulate/", service.setSimulate)
	group.PUT("/:"+urlParamId+"/limits/", service.setLimits)
}

// returns the drive configuration of all joints
func (s *Service) getJoints(c echo.Context) error {
	data := s.Controller.Registry().Snapshot()
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func (s *Service) getJoint(c echo.Context) error {
	id := c.Param(urlParamId)
	config, exists := s.Controller.Registry().Find(id)
	if !exists {
		return returnNotFound(c, id)
	}

	detail := JointDetail{Config: config}
	if telemetry, ok := s.Controller.Telemetry(id); ok {
		detail.Telemetry = &telemetry
	}
	return c.JSONPretty(http.StatusOK, reprint.This(detail), indentationChar)
}

func (s *Service) getJointTelemetry(c echo.Context) error {
	id := c.Param(urlParamId)
	telemetry, exists := s.Controller.Telemetry(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, reprint.This(telemetry), indentationChar)
}

func (s *Service) setGains(c echo.Context) error {
	id := c.Param(urlParamId)
	var request GainsRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}

	registry := s.Controller.Registry()
	var affected int
	if request.IncludeChildren {
		affected = registry.SetGainsForSubtree(id, request.IntegralGain, request.DerivativeGain, request.ProportionalGain, true)
	} else if registry.SetGains(id, request.IntegralGain, request.DerivativeGain, request.ProportionalGain) {
		affected = 1
	}
	return returnAffected(c, id, affected)
}

func (s *Service) setStiffness(c echo.Context) error {
	id := c.Param(urlParamId)
	var request StiffnessRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}
	if request.Multiplier < 0 {
		return returnBadRequest(c, fmt.Errorf("multiplier must be >= 0, got %v", request.Multiplier))
	}

	registry := s.Controller.Registry()
	var affected int
	if request.IncludeChildren {
		affected = registry.SetStiffnessMultiplierForSubtree(id, request.Multiplier, true)
	} else if registry.SetStiffnessMultiplier(id, request.Multiplier) {
		affected = 1
	}
	return returnAffected(c, id, affected)
}

func (s *Service) setSimulate(c echo.Context) error {
	id := c.Param(urlParamId)
	var request SimulateRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}

	registry := s.Controller.Registry()
	var affected int
	if request.IncludeChildren {
		affected = registry.SetSimulateEnabledForSubtree(id, request.Enabled, true)
	} else if registry.SetSimulateEnabled(id, request.Enabled) {
		affected = 1
	}
	return returnAffected(c, id, affected)
}

func (s *Service) setLimits(c echo.Context) error {
	id := c.Param(urlParamId)
	var request LimitsRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}
	for i := 0; i < 3; i++ {
		if request.MinSoftLimit[i] > request.MaxSoftLimit[i] {
			return returnBadRequest(c, fmt.Errorf("minSoftLimit must be <= maxSoftLimit on axis %d", i))
		}
		if request.MinHardLimit[i] > request.MaxHardLimit[i] {
			return returnBadRequest(c, fmt.Errorf("minHardLimit must be <= maxHardLimit on axis %d", i))
		}
	}

	var affected int
	if s.Controller.Registry().SetLimits(id, request.MinSoftLimit, request.MaxSoftLimit, request.MinHardLimit, request.MaxHardLimit) {
		affected = 1
	}
	return returnAffected(c, id, affected)
}

func returnAffected(c echo.Context, id string, affected int) error {
	if affected <= 0 {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, &UpdateResult{Affected: affected}, indentationChar)
}
