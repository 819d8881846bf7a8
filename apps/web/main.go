package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	echoweb "github.com/trezcool/alumnos/apps/web/echo"
	"github.com/trezcool/alumnos/core"
	"github.com/trezcool/alumnos/core/view"
	logsvc "github.com/trezcool/alumnos/services/logger"
	"github.com/trezcool/alumnos/storage/restapi"
)

const shutdownTimeout = 5 * time.Second

func main() {
	conf, err := core.NewConfig()
	errAndDie(err)

	logger := logsvc.NewRollbarLogger(os.Stderr, conf)
	defer logger.Close()

	gw, err := restapi.NewStudentGateway(restapi.Options{
		BaseURL: conf.API.BaseURL,
		Timeout: conf.API.Timeout,
		Logger:  logger,
	})
	errAndDie(err)

	app, err := echoweb.NewServer(&echoweb.Options{
		Address:  conf.Web.Address,
		AppName:  conf.AppName,
		Debug:    conf.Debug,
		TestMode: conf.TestMode,
		Gateway:  gw,
		Logger:   logger,
		UI:       view.OptionsFromConfig(conf, logger),
	})
	errAndDie(err)

	go func() {
		if err := app.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("starting web server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("stopping web server", err)
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
