// cmd/prose/main.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bethropolis/prose/internal/app"
	"github.com/bethropolis/prose/internal/config"
	"github.com/bethropolis/prose/internal/logger"
)

func main() {
	var flags config.Flags
	args, err := flags.ParseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, config.Version)
		return
	}

	filePath := ""
	if len(args) > 0 {
		filePath = args[0]
	}

	cfg, cfgErr := config.LoadConfig(*flags.ConfigFilePath, &flags)

	logOutput, closeLog, err := openLog(cfg.Logger.LogFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	logger.Init(cfg.Logger, logOutput)
	logger.SetDebugFilter(*flags.DebugLog)
	if cfgErr != nil {
		logger.Warnf("Using default configuration: %v", cfgErr)
	}

	logger.Infof("Starting %s %s...", config.AppName, config.Version)
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting empty.")
	}

	proseApp, err := app.NewApp(cfg, filePath)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}

	if err := proseApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}
	logger.Infof("%s finished.", config.AppName)
}

// openLog opens the log destination. The terminal belongs to the editor,
// so an empty path logs to DefaultLogFileName; "-" means stderr.
func openLog(path string) (io.Writer, func(), error) {
	switch path {
	case "-":
		return os.Stderr, func() {}, nil
	case "":
		path = config.DefaultLogFileName
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
