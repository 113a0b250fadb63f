package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fluentlabs-xyz/fvmbridge/internal/config"
	grpcservice "github.com/fluentlabs-xyz/fvmbridge/internal/interface/grpc"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Version will be set during build time
var Version string

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "fvmbridged"
	app.Usage = "bridge between the account ledger and the utxo coin set of the fluent vm"
	app.Flags = append([]cli.Flag{configFileFlag}, config.Flags...)
	app.Before = loadConfigFile
	app.Action = mainAction

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func mainAction(c *cli.Context) error {
	cfg, err := config.LoadConfig(c)
	if err != nil {
		return fmt.Errorf("invalid config: %s", err)
	}

	log.SetLevel(log.Level(cfg.LogLevel))

	svcConfig := grpcservice.Config{
		Port:        cfg.Port,
		NoTLS:       cfg.NoTLS,
		TLSCertPath: cfg.TLSCertPath,
		TLSKeyPath:  cfg.TLSKeyPath,
		EnableFund:  cfg.EnableFund,
	}

	svc, err := grpcservice.NewService(svcConfig, cfg)
	if err != nil {
		return err
	}

	log.Infof("fvmbridged config: %s", cfg)

	log.Info("starting service...")
	if err := svc.Start(); err != nil {
		return err
	}
	log.Infof("fvmbridged listens on: %v", cfg.Port)

	log.RegisterExitHandler(svc.Stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(
		sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGHUP, os.Interrupt,
	)
	<-sigChan

	log.Info("shutting down service...")
	log.Exit(0)

	return nil
}
