package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/config"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/loader"
	"github.com/Dicklesworthstone/mindmap_viewer/pkg/mindmap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	data       string
	configPath string
	topic      string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var watch bool

	cmd := &cobra.Command{
		Use:   "mmv",
		Short: "Interactive force-directed mindmap viewer",
		Long: `mmv reads a topic document (a JSON object mapping topic keys to node trees)
and shows the current topic as a force-directed mind map with an outline and
an inspector. Nodes can be expanded, drilled into, edited and exported.`,
		Example: `
mmv --data notes/mindmap-data.json
mmv --topic golang --watch
mmv export --format svg --format html --out dist/
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts, watch)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.data, "data", "", "topic document (default: config data, else mindmap-data.json nearby)")
	pf.StringVar(&opts.configPath, "config", "", "config file (default: .mmv/config.yaml in the project)")
	pf.StringVarP(&opts.topic, "topic", "t", "", "topic to open (default: config default_topic, else the first)")
	pf.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the document when it changes on disk")

	cmd.AddCommand(
		newExportCmd(opts),
		newLayoutCmd(opts),
		newTopicsCmd(opts),
		newStatsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig reads --config, or discovers the project config from the
// working directory.
func (o *rootOptions) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		dir, werr := os.Getwd()
		if werr != nil {
			return config.Default(), werr
		}
		cfg, err = config.Load(dir)
	}
	if err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.topic != "" {
		cfg.DefaultTopic = o.topic
	}
	return cfg, nil
}

// dataPath resolves the topic document from flags, config and discovery.
func (o *rootOptions) dataPath(cfg config.Config) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return config.ResolveDataPath(o.data, cfg, dir)
}

// openApp loads the document into a ready App for the batch commands.
func (o *rootOptions) openApp(logger *slog.Logger) (*mindmap.App, config.Config, loader.Result, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, cfg, loader.Result{}, err
	}
	path, err := o.dataPath(cfg)
	if err != nil {
		return nil, cfg, loader.Result{}, err
	}
	res := loader.Load(path)
	if !res.OK() {
		return nil, cfg, res, res.Err
	}
	app := mindmap.New(mindmap.WithLogger(logger))
	if err := app.Load(res.Topics, cfg.DefaultTopic); err != nil {
		return nil, cfg, res, fmt.Errorf("%s: %w", path, err)
	}
	if o.topic != "" && app.CurrentTopic() != o.topic {
		return nil, cfg, res, fmt.Errorf("%w: %q", mindmap.ErrUnknownTopic, o.topic)
	}
	return app, cfg, res, nil
}

func versionString() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the mmv version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mmv %s\n", versionString())
		},
	}
}
