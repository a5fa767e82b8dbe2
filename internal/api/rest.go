package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/markusressel/jointdrive/internal/controller"
	"github.com/markusressel/jointdrive/internal/persistence"
	"github.com/markusressel/jointdrive/internal/skeleton"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	urlParamId      = "id"
	indentationChar = "  "
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// Service holds everything the REST endpoints operate on.
type Service struct {
	RigId       string
	Controller  controller.JointController
	Persistence persistence.Persistence
	// Rig is moved by teleport requests that carry a position or rotation
	Rig *skeleton.Rig

	// Registerer receives the request metrics, nil disables them
	Registerer prometheus.Registerer
}

func CreateRestService(service *Service) *echo.Echo {
	echoRest := CreateWebserver()
	echoRest.Use(middleware.Logger())

	if service.Registerer != nil {
		echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "jointdrive",
			Subsystem:  "api",
			Registerer: service.Registerer,
		}))
	}

	echoRest.GET("/alive/", isAlive)

	registerJointEndpoints(echoRest, service)
	registerControllerEndpoints(echoRest, service)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}

// return a "bad request" message
func returnBadRequest(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad Request",
		Message: e.Error(),
	}, indentationChar)
}

// return the error message of an error
func returnError(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    "Unknown Error",
		Message: e.Error(),
	}, indentationChar)
}
