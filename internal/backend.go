package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/jointdrive/internal/api"
	"github.com/markusressel/jointdrive/internal/configuration"
	"github.com/markusressel/jointdrive/internal/controller"
	"github.com/markusressel/jointdrive/internal/persistence"
	"github.com/markusressel/jointdrive/internal/statistics"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RunDaemon() {
	config := configuration.CurrentConfig

	pers := persistence.NewPersistence(config.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize persistence: %v", err)
	}

	objects, err := InitializeObjects(config, pers)
	if err != nil {
		ui.Fatal("Unable to initialize rig %s: %v", config.Rig.ID, err)
	}

	registerCollectors(config.Rig.ID, objects.Controller)

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			port := config.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

			g.Add(func() error {
				ui.Info("Serving statistics on port %d", port)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				shutdown(server.Shutdown, "statistics server")
			})
		}
	}
	{
		if config.Api.Enabled {
			// === REST api
			var registerer prometheus.Registerer
			if config.Statistics.Enabled {
				registerer = prometheus.DefaultRegisterer
			}
			rest := api.CreateRestService(&api.Service{
				RigId:       config.Rig.ID,
				Controller:  objects.Controller,
				Persistence: pers,
				Rig:         objects.Rig,
				Registerer:  registerer,
			})
			addEchoServer(&g, rest, config.Api.Host, config.Api.Port, "api")
		}
	}
	{
		if config.Profiling.Enabled {
			// === pprof
			addEchoServer(&g, api.CreateProfilingService(), config.Profiling.Host, config.Profiling.Port, "profiling server")
		}
	}
	{
		// === joint update loop
		g.Add(func() error {
			err := objects.Loop.Run(ctx)
			ui.Info("Joint update loop for rig %s stopped.", config.Rig.ID)
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Something went wrong: %v", err)
			}
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	runErr := g.Run()

	saveTuning(pers, config.Rig.ID, objects.Controller)
	objects.Controller.Destroy()

	if runErr != nil {
		_, _ = fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

func registerCollectors(rigId string, c controller.JointController) {
	statistics.Register(statistics.NewControllerCollector(map[string]controller.JointController{rigId: c}))
	statistics.Register(statistics.NewJointCollector(c))
}

func addEchoServer(g *run.Group, server *echo.Echo, host string, port int, name string) {
	address := fmt.Sprintf("%s:%d", host, port)
	g.Add(func() error {
		ui.Info("Starting %s on %s", name, address)
		if err := server.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ui.Error("Cannot start %s (%s)", name, err.Error())
			return err
		}
		return nil
	}, func(err error) {
		shutdown(server.Shutdown, name)
	})
}

func shutdown(fn func(ctx context.Context) error, name string) {
	ui.Info("Stopping %s...", name)
	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()
	if err := fn(timeoutCtx); err != nil {
		ui.Warning("Error stopping %s: %v", name, err)
	} else {
		ui.Info("%s stopped.", name)
	}
}

// saveTuning stores the current drive configuration so it can be restored on the next start.
func saveTuning(pers persistence.Persistence, rigId string, c controller.JointController) {
	configs := c.Registry().Snapshot()
	if len(configs) == 0 {
		return
	}
	if err := pers.SaveJointTuning(rigId, configs); err != nil {
		ui.Warning("Unable to store tuning of rig %s: %v", rigId, err)
		return
	}
	ui.Info("Stored tuning of %d joints for rig %s", len(configs), rigId)
}
