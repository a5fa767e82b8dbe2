package api

import (
	"fmt"
	"net/http"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/labstack/echo/v4"
	"github.com/markusressel/jointdrive/internal/spatial"
)

type StrengthRequest struct {
	Multiplier float64 `json:"multiplier"`
}

// TeleportRequest optionally moves the rig before snapping.
// Rotation is given in degrees.
type TeleportRequest struct {
	Position *mgl64.Vec3 `json:"position,omitempty"`
	Rotation *mgl64.Vec3 `json:"rotation,omitempty"`
}

func registerControllerEndpoints(rest *echo.Echo, service *Service) {
	rest.GET("/controller/", service.getStatistics)
	rest.PUT("/controller/strength/", service.setStrength)
	rest.POST("/teleport/", service.teleport)
	rest.POST("/persist/", service.persist)
}

func (s *Service) getStatistics(c echo.Context) error {
	return c.JSONPretty(http.StatusOK, s.Controller.GetStatistics(), indentationChar)
}

func (s *Service) setStrength(c echo.Context) error {
	var request StrengthRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}
	if request.Multiplier < 0 {
		return returnBadRequest(c, fmt.Errorf("multiplier must be >= 0, got %v", request.Multiplier))
	}
	s.Controller.SetStrengthMultiplier(request.Multiplier)
	return c.NoContent(http.StatusOK)
}

// teleport snaps all joints to their targets on the next tick
func (s *Service) teleport(c echo.Context) error {
	var request TeleportRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}

	if request.Position != nil || request.Rotation != nil {
		if s.Rig == nil {
			return returnError(c, fmt.Errorf("rig is not available"))
		}
		current := s.Rig.ComponentToWorld()
		if request.Position != nil {
			current.Translation = *request.Position
		}
		if request.Rotation != nil {
			current.Rotation = spatial.EulerDegreesToQuat(*request.Rotation)
		}
		s.Rig.SetComponentToWorld(current)
	}

	s.Controller.RequestTeleport()
	return c.NoContent(http.StatusAccepted)
}

// persist stores the current drive configuration of all joints
func (s *Service) persist(c echo.Context) error {
	if s.Persistence == nil {
		return returnError(c, fmt.Errorf("persistence is not available"))
	}
	configs := s.Controller.Registry().Snapshot()
	if err := s.Persistence.SaveJointTuning(s.RigId, configs); err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, &UpdateResult{Affected: len(configs)}, indentationChar)
}
