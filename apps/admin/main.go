package main

import (
	"log"
	"os"

	"github.com/trezcool/alumnos/core"
	"github.com/trezcool/alumnos/core/view"
	logsvc "github.com/trezcool/alumnos/services/logger"
	"github.com/trezcool/alumnos/storage/restapi"
)

func main() {
	conf, err := core.NewConfig()
	errAndDie(err)

	logger := logsvc.NewRollbarLogger(os.Stderr, conf)

	gw, err := restapi.NewStudentGateway(restapi.Options{
		BaseURL: conf.API.BaseURL,
		Timeout: conf.API.Timeout,
		Logger:  logger,
	})
	errAndDie(err)

	// start CLI
	cli := commandLine{
		gw:   gw,
		opts: view.OptionsFromConfig(conf, logger),
		out:  os.Stdout,
	}
	err = cli.run(os.Args)
	logger.Close()
	if err != nil {
		if err != errHelp {
			log.Printf("error: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
