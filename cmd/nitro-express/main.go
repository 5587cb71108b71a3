package main

import (
	"flag"
	"fmt"
	"os"

	nitro "github.com/FoolCoder-code/Nitro-Express"
	"github.com/FoolCoder-code/Nitro-Express/app"
	"github.com/FoolCoder-code/Nitro-Express/config"
	"github.com/FoolCoder-code/Nitro-Express/filesystem"
	"github.com/FoolCoder-code/Nitro-Express/util/log"
)

var (
	version string = "dev"
	commit  string = "none"
)

const Title = "Nitro Express"

func main() {
	baseDir, showVersion := parseFlags()
	if showVersion {
		fmt.Println(version)
		return
	}

	fs := &filesystem.OSFileSystem{
		BaseDir:     baseDir,
		MaxFileSize: filesystem.DefaultMaxFileSize,
	}
	filesystem.Default = fs

	conf, err := config.LoadOrDefault(fs, config.File)
	switch err {
	case config.ErrDefaultConfigGenerated:
		fmt.Fprintf(os.Stderr, "Config file (%v) does not exist. Use default config and write it to file.\n", config.File)
	case nil:
		// no errors. do nothing.
	default:
		// fatal error for loading config. quits
		fmt.Fprintf(os.Stderr, "failed to load config %v: %v\n", config.File, err)
		os.Exit(1)
	}
	applyFlagOverrides(conf)

	logger := log.New(log.Options{
		Level: log.ParseLevel(conf.LogLevel),
		File:  conf.LogFile,
	})
	log.SetDefault(logger)
	defer logger.Close()

	g, err := nitro.NewGame(conf, fs)
	if err != nil {
		log.Info("Error: game setup failed: ", err)
		fmt.Fprintf(os.Stderr, "game setup failed: %v\n", err)
		os.Exit(1)
	}
	defer g.Close()

	app.Main(Title+" "+version+"-"+commit, g)
}

var flagOverrides struct {
	logFile  string
	logLevel string
	debug    bool
}

func parseFlags() (baseDir string, showVersion bool) {
	flag.Usage = printHelp

	flag.StringVar(&baseDir, "basedir", "", "`directory` containing assets/, config.toml and save data. empty means the working directory.")
	flag.StringVar(&flagOverrides.logFile, "logfile", "", "`output-file` to write log. { stdout | stderr } is OK. overrides the config value.")
	flag.StringVar(&flagOverrides.logLevel, "loglevel", "", "`level` = { info | debug }. overrides the config value.")
	flag.BoolVar(&flagOverrides.debug, "debug", false, "shorthand for -loglevel debug.")
	flag.BoolVar(&showVersion, "version", false, "show version info and quit.")

	flag.Parse()
	return baseDir, showVersion
}

func applyFlagOverrides(c *config.Config) {
	if flagOverrides.logFile != "" {
		c.LogFile = flagOverrides.logFile
	}
	if flagOverrides.logLevel != "" {
		c.LogLevel = flagOverrides.logLevel
	}
	if flagOverrides.debug {
		c.LogLevel = "debug"
	}
}

func printHelp() {
	progName := os.Args[0]
	fmt.Fprintf(os.Stderr, `Usage: %s [options]

  %s plays a packaged visual novel scenario on its own window.

  any flag values same as '%s' file overwrites the values
  loaded from the file.

`, progName, progName, config.File)
	flag.PrintDefaults()
}
