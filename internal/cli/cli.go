package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"github.com/rs/xid"
	"github.com/trash-go/trash/internal/config"
	"github.com/trash-go/trash/internal/debug"
	"github.com/trash-go/trash/internal/env"
	"github.com/trash-go/trash/internal/trash"
)

type Option struct {
	Config   string `long:"config" description:"Path to config file" default:""`
	TrashDir string `long:"trash-dir" description:"Override the trash directory location"`

	Verbose     bool `short:"v" long:"verbose" description:"Print verbose output"`
	Force       bool `short:"f" long:"force" description:"Ignore non-existent files and always overwrite"`
	Interactive bool `short:"i" long:"interactive" description:"Prompt before deleting files"`
	Recursive   bool `short:"r" long:"recursive" description:"Recurse through directories getting all files"`
	Recursive2  bool `short:"R" description:"Same as -r"`
	Color       bool `short:"c" long:"color" description:"Colorize output"`

	Meta MetaOption `group:"Meta Options"`
}

type MetaOption struct {
	Version bool   `short:"V" long:"version" description:"Show version"`
	Debug   string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	runID   string
	engine  *trash.Engine
}

var runID = sync.OnceValue(func() string {
	id := xid.New().String()
	return id
})

// Run parses arguments, wires the engine and dispatches one operation.
// The return value is the process exit code: the aggregate per-item
// failure count of the operation, or 1 for setup failures.
func Run(v Version) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = v.AppName
	parser.Usage = "CMD [files...]"
	args, err := parser.Parse()
	if err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		return 1
	}
	opt.Recursive = opt.Recursive || opt.Recursive2

	if opt.Meta.Version {
		fmt.Fprint(os.Stdout, v.Print())
		return 0
	}

	if err := setupLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", v.AppName, err)
		return 1
	}

	defer slog.Debug("main function finished\n\n\n")
	slog.Debug("main function started", "version", v.Version, "revision", v.Revision, "buildDate", v.BuildDate)

	switch opt.Meta.Debug {
	case "live":
		if err := debug.Logs(os.Stdout, true); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", v.AppName, err)
			return 1
		}
		return 0
	case "full":
		if err := debug.Logs(os.Stdout, false); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", v.AppName, err)
			return 1
		}
		return 0
	}

	cfg, err := config.Parse(opt.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", v.AppName, err)
		return 1
	}

	trashDir := opt.TrashDir
	if trashDir == "" {
		trashDir = cfg.Core.TrashDir
	}
	dir, err := trash.Open(trashDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", v.AppName, err)
		return 1
	}

	engine := trash.NewEngine(dir, trash.Options{
		Policy: trash.Policy{
			Verbose:     opt.Verbose,
			Force:       opt.Force,
			Recursive:   opt.Recursive,
			Interactive: opt.Interactive,
			Color:       opt.Color && isatty.IsTerminal(os.Stdout.Fd()),
		},
		Filter: trash.FilterOptions{
			Include: cfg.Listing.Include,
			Exclude: cfg.Listing.Exclude,
		},
		FallbackCopy: cfg.Core.HomeFallback,
	})

	cli := CLI{
		version: v,
		option:  opt,
		config:  cfg,
		runID:   runID(),
		engine:  engine,
	}

	return cli.Run(args)
}

func (c CLI) Run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no command given (try %s --help)\n", c.version.AppName, c.version.AppName)
		return 1
	}

	cmd, specs := args[0], args[1:]

	if cmd == "prune" {
		if err := c.Prune(specs); err != nil {
			slog.Error("prune failed", "error", err)
			fmt.Fprintf(os.Stderr, "%s: %v\n", c.version.AppName, err)
			return 1
		}
		return 0
	}

	failures := c.engine.Run(cmd, specs)
	slog.Debug("operation finished", "command", cmd, "failures", failures)
	return failures
}

func setupLogger() error {
	logDir := filepath.Dir(env.TRASH_LOG_PATH)
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}
	}

	var w io.Writer
	if file, err := os.OpenFile(env.TRASH_LOG_PATH, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		w = file
	} else {
		w = os.Stderr
	}

	slog.SetDefault(slog.New(newLogger(w)))
	return nil
}

// newLogger builds the debug logger with the run correlation ID attached
// to every record.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           log.DebugLevel,
		Formatter:       log.TextFormatter,
	})
	return logger.With("run_id", runID())
}
