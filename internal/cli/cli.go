package cli

import (
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/atotto/clipboard"
	"github.com/mcncl/jsonedit/internal/config"
	"github.com/mcncl/jsonedit/internal/editor"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/log"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/mcncl/jsonedit/internal/render"
	"go.uber.org/zap"
)

// Version information
const (
	Version = "0.1.0"
)

// Stdin is the file argument that reads standard input.
const Stdin = "-"

// Globals are flags shared by every command
type Globals struct {
	Config  string           `help:"Path to a config file. Defaults to .jsonedit.yml in this or a parent directory." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	NoColor bool             `help:"Disable colored output."`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Tree    TreeCmd    `cmd:"" help:"Print the document as a tree, optionally filtered by a search term."`
	Get     GetCmd     `cmd:"" help:"Print the value at a path."`
	Set     SetCmd     `cmd:"" help:"Replace the value at a path."`
	Add     AddCmd     `cmd:"" help:"Add a value under an object or array."`
	Delete  DeleteCmd  `cmd:"" help:"Delete the value at a path."`
	Batch   BatchCmd   `cmd:"" help:"Set every leaf matching a search term to one value."`
	Diff    DiffCmd    `cmd:"" help:"Show the paths that differ between two documents."`
	Apply   ApplyCmd   `cmd:"" help:"Apply an RFC 6902 patch or RFC 7386 merge patch."`
	Find    FindCmd    `cmd:"" help:"Highlight occurrences of a term in the pretty-printed document."`
	Preview PreviewCmd `cmd:"" help:"Pretty-print the document, or copy it to the clipboard."`
	Shell   ShellCmd   `cmd:"" help:"Edit a document interactively."`
}

// App holds what commands need at run time
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	Clipboard func(string) error
}

// NewEditor creates an editor configured for this run
func (a *App) NewEditor() (*editor.Editor, error) {
	return editor.New(a.Config, a.Logger)
}

// Renderer writes to standard output
func (a *App) Renderer() *render.Renderer {
	return render.New(a.Out, a.Config.Output.Color)
}

// Notices writes to standard error
func (a *App) Notices() *render.Renderer {
	return render.New(a.Err, a.Config.Output.Color)
}

// Load creates an editor holding the document at path. A path of "-" reads
// standard input.
func (a *App) Load(path string) (*editor.Editor, error) {
	ed, err := a.NewEditor()
	if err != nil {
		return nil, err
	}
	if path == Stdin {
		err = ed.Load("stdin", a.In, nil)
	} else {
		err = ed.LoadFile(path, nil)
	}
	if err != nil {
		return nil, err
	}
	return ed, nil
}

// ReadFile returns the contents of path, or of standard input for "-".
func (a *App) ReadFile(path string) ([]byte, error) {
	if path != Stdin {
		return parser.ReadFile(path)
	}
	data, err := io.ReadAll(a.In)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

type exitCode int

// Main parses args, runs the chosen command and returns the process exit
// code.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	var cli CLI
	k, err := kong.New(&cli,
		kong.Name("jsonedit"),
		kong.Description("Navigate, edit and diff JSON documents"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": "jsonedit version " + Version},
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}

	ctx, err := k.Parse(args)
	k.FatalIfErrorf(err)

	configPath := cli.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, cli.Debug, cli.NoColor)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("invalid configuration", err)))
		return 1
	}

	logger, err := log.New(cfg.Dev.Debug)
	if err != nil {
		logger = log.Fallback()
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("command starting", zap.String("command", ctx.Command()), zap.String("config", configPath))

	app := &App{
		Config:    cfg,
		Logger:    logger,
		In:        stdin,
		Out:       stdout,
		Err:       stderr,
		Clipboard: clipboard.WriteAll,
	}
	if err := ctx.Run(app); err != nil {
		logger.Debug("command failed", zap.Error(err))
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	return 0
}
