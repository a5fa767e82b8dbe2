package api

import (
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func CreateWebserver() *echo.Echo {
	webserver := echo.New()
	webserver.HideBanner = true
	webserver.HidePort = true

	// Root level middleware
	webserver.Pre(middleware.AddTrailingSlash())

	webserver.Use(middleware.Secure())
	webserver.Use(middleware.Recover())

	return webserver
}

// CreateProfilingService serves the pprof endpoints below /debug/pprof.
// pprof routes have no trailing slash, so the root middleware is left out.
func CreateProfilingService() *echo.Echo {
	webserver := echo.New()
	webserver.HideBanner = true
	webserver.HidePort = true
	webserver.Use(middleware.Recover())

	pprof.Register(webserver)
	return webserver
}
