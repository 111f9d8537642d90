package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/buscount/buscount/server"
	"github.com/buscount/buscount/server/config"
	"github.com/coreos/go-systemd/daemon"
	"github.com/cyclopcam/logs"
)

func main() {
	parser := argparse.NewParser("buscount", "Bus passenger counter")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Configuration file", Default: "buscount.json"})
	port := parser.Int("p", "port", &argparse.Options{Help: "Override HTTP listen port", Default: 0})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	logger.Infof("Config: %v, frame store %v, detector %v", *configFile, cfg.DB.LogSafeDescription(), cfg.DetectorURL)

	srv, err := server.NewServer(logger, cfg)
	if err != nil {
		logger.Errorf("Failed to start: %v", err)
		os.Exit(1)
	}
	defer srv.Close()

	daemon.SdNotify(false, daemon.SdNotifyReady)

	if err := srv.ListenAndServe(cfg.Port); err != nil {
		logger.Errorf("HTTP server exited: %v", err)
		os.Exit(1)
	}
}
