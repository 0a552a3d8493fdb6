package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/goliatone/go-mobiledoc/internal/prompt"
	"github.com/goliatone/go-mobiledoc/pkg/builder"
	"github.com/goliatone/go-mobiledoc/pkg/config"
	"github.com/goliatone/go-mobiledoc/pkg/model"
	"github.com/goliatone/go-mobiledoc/pkg/orchestrator"
	"github.com/goliatone/go-mobiledoc/pkg/render"
	"github.com/goliatone/go-mobiledoc/pkg/render/template/gotemplate"
	"github.com/goliatone/go-mobiledoc/pkg/renderers/html"
	"github.com/goliatone/go-mobiledoc/pkg/renderers/jsontree"
	"github.com/goliatone/go-mobiledoc/pkg/renderers/page"
	"github.com/goliatone/go-mobiledoc/pkg/source"
)

const appName = "mobiledoc"

// version is set at build time with -ldflags "-X main.version=...".
var version string

// buildVersion falls back to the module version recorded by go install.
func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// env is the state shared by commands once flags are parsed.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	logW   io.Writer
	driver prompt.Driver

	cfg *config.Config
	log *zap.Logger
}

func newApp(e *env) *cli.Command {
	return &cli.Command{
		Name:            appName,
		Usage:           "renders mobiledoc " + model.Version + " documents",
		Version:         buildVersion(),
		HideHelpCommand: true,
		Writer:          e.stdout,
		ErrWriter:       e.logW,
		Before:          e.initialize,
		After:           e.destroy,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log at debug level regardless of configuration"},
		},
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "Renders a mobiledoc file",
				ArgsUsage: "SOURCE",
				Action:    e.render,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "renderer", Aliases: []string{"r"}, Usage: "output `NAME` (html, json, page); defaults to configuration"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to `FILE` instead of STDOUT"},
					&cli.StringFlag{Name: "title", Usage: "page title for the page renderer"},
					&cli.StringFlag{Name: "lang", Usage: "page language for the page renderer"},
					&cli.StringFlag{Name: "theme", Usage: "page theme `NAME`; defaults to configuration"},
					&cli.StringFlag{Name: "variant", Usage: "page theme `VARIANT`; defaults to configuration"},
					&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "ask for renderer and title"},
				},
			},
			{
				Name:   "renderers",
				Usage:  "Lists available renderers",
				Action: e.listRenderers,
			},
			{
				Name:      "dumpconfig",
				Usage:     "Dumps either default or actual configuration (YAML)",
				ArgsUsage: "DESTINATION",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default configuration"},
				},
				Action: e.dumpConfig,
			},
		},
	}
}

func (e *env) initialize(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error
	if e.cfg, err = config.Load(cmd.String("config")); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	logging := e.cfg.Logging
	if cmd.Bool("debug") {
		logging.Level = config.LevelDebug
	}
	if e.log, err = logging.PrepareWriter(e.logW); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	e.log.Debug("Program started",
		zap.Strings("args", cmd.Args().Slice()),
		zap.String("version", buildVersion()),
		zap.String("runtime", runtime.Version()))
	if cmd.String("config") == "" {
		e.log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func (e *env) destroy(context.Context, *cli.Command) error {
	if e.log == nil {
		return nil
	}
	e.log.Debug("Program ended")
	_ = e.log.Sync()
	return nil
}

// registry builds the renderers honouring the sanitize setting.
func (e *env) registry() (*render.Registry, error) {
	var options []html.Option
	if !e.cfg.Sanitize {
		options = append(options, html.WithoutSanitizer())
	}
	body := html.New(options...)
	pageRenderer, err := page.New(page.WithBodyRenderer(body))
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(body, jsontree.New(), pageRenderer), nil
}

func (e *env) orchestrator() (*orchestrator.Orchestrator, error) {
	renderers, err := e.registry()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare renderers: %w", err)
	}
	engine, err := gotemplate.New()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare templates: %w", err)
	}
	components, err := e.cfg.Registry(engine, e.log)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare extensions: %w", err)
	}
	return orchestrator.New(
		orchestrator.WithRegistry(renderers),
		orchestrator.WithExtensions(components),
		orchestrator.WithDefaultRenderer(e.cfg.Renderer),
		orchestrator.WithLogger(e.log),
		orchestrator.WithThemeSelector(orchestrator.NewManifestSelector(page.Themes()...)),
		orchestrator.WithTheme(e.cfg.Theme, e.cfg.Variant),
		orchestrator.WithBuilderOptions(
			builder.WithAdditionalProps(e.cfg.AdditionalProps),
			builder.WithAtomKeys(e.cfg.AtomKeyMode()),
		),
	), nil
}

func (e *env) render(ctx context.Context, cmd *cli.Command) (err error) {
	if cmd.Args().Len() != 1 {
		return errors.New("exactly one SOURCE is required, use - for STDIN")
	}
	orch, err := e.orchestrator()
	if err != nil {
		return err
	}

	settings := prompt.Settings{
		Renderer: firstNonEmpty(cmd.String("renderer"), e.cfg.Renderer),
		Title:    firstNonEmpty(cmd.String("title"), e.cfg.Title),
		Output:   cmd.String("output"),
	}
	if cmd.Bool("interactive") {
		flow := prompt.Flow{
			Driver:          e.driver,
			Renderers:       orch.Renderers(),
			TitledRenderers: []string{page.Name},
			Exists:          fileExists,
		}
		if settings, err = flow.Ask(ctx, settings); err != nil {
			return err
		}
	}

	req := orchestrator.Request{
		Renderer:     settings.Renderer,
		ThemeName:    cmd.String("theme"),
		ThemeVariant: cmd.String("variant"),
		RenderOptions: render.RenderOptions{
			Title:    settings.Title,
			Lang:     firstNonEmpty(cmd.String("lang"), e.cfg.Lang),
			Metadata: e.cfg.Metadata,
		},
	}
	if arg := cmd.Args().First(); arg == "-" {
		if req.Raw, err = io.ReadAll(e.stdin); err != nil {
			return fmt.Errorf("unable to read STDIN: %w", err)
		}
	} else {
		req.Source = source.SourceFromFile(arg)
	}

	output, err := orch.Generate(ctx, req)
	if err != nil {
		return err
	}
	if len(output.Callbacks) > 0 {
		e.log.Debug("Card callbacks collected and not run", zap.Int("count", len(output.Callbacks)))
	}

	out := e.stdout
	if settings.Output != "" {
		f, cerr := os.Create(settings.Output)
		if cerr != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", settings.Output, cerr)
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		out = f
	}
	if _, werr := out.Write(output.Body); werr != nil {
		return fmt.Errorf("unable to write output: %w", werr)
	}
	e.log.Info("Document rendered",
		zap.String("renderer", settings.Renderer),
		zap.String("content type", output.ContentType),
		zap.Int("omitted", len(output.Omitted)),
		zap.String("file", firstNonEmpty(settings.Output, "STDOUT")))
	return nil
}

func (e *env) listRenderers(_ context.Context, _ *cli.Command) error {
	orch, err := e.orchestrator()
	if err != nil {
		return err
	}
	for _, name := range orch.Renderers() {
		marker := " "
		if name == e.cfg.Renderer {
			marker = "*"
		}
		if _, err := fmt.Fprintf(e.stdout, "%s %s\n", marker, name); err != nil {
			return err
		}
	}
	return nil
}

func (e *env) dumpConfig(_ context.Context, cmd *cli.Command) error {
	cfg := e.cfg
	if cmd.Bool("default") {
		cfg = config.Default()
	}
	data, err := config.Dump(cfg)
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if fname == "" {
		_, err = e.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		return fmt.Errorf("unable to write configuration '%s': %w", fname, err)
	}
	e.log.Info("Configuration written", zap.String("file", fname))
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
