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

	echoapi "github.com/trezcool/alumnos/apps/api/echo"
	"github.com/trezcool/alumnos/core"
	logsvc "github.com/trezcool/alumnos/services/logger"
	inmemdb "github.com/trezcool/alumnos/storage/inmem"
)

const shutdownTimeout = 5 * time.Second

// Stand-in for the alumnos REST API, used in development and end-to-end tests.
// Records live in memory and are lost on exit.
func main() {
	conf, err := core.NewConfig()
	errAndDie(err)

	logger := logsvc.NewRollbarLogger(os.Stderr, conf)
	defer logger.Close()

	db, err := inmemdb.Open()
	errAndDie(err)

	app := echoapi.NewServer(&echoapi.Options{
		Address:  conf.StubAPI.Address,
		Debug:    conf.Debug,
		TestMode: conf.TestMode,
		Gateway:  inmemdb.NewStudentGateway(db),
		Logger:   logger,
	})

	go func() {
		if err := app.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("starting api server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("stopping api server", err)
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
