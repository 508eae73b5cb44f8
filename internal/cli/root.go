// Package cli wires configuration, logging, the interactive UI and the
// headless convert command behind a cobra command tree.
package cli

import (
	"fmt"

	"github.com/nconklindev/manifest/internal/config"
	"github.com/nconklindev/manifest/internal/logging"
	"github.com/nconklindev/manifest/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BuildInfo is stamped in at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

// NewRootCmd builds the manifest command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Turn an order spreadsheet into a PBS shipping manifest",
		Long: `manifest reads the first sheet of an XLSX or CSV order file, builds one
DPD manifest line per row with a shared tracking reference, and writes the
result as T1.M<reference>.PBS.

Run without arguments to pick a file, preview and prune rows interactively.`,
		Version:       fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", info.Version, info.Commit, info.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The interactive UI owns the terminal, so it only logs to a file.
			return a.init(cmd != cmd.Root())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive()
		},
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: <user config dir>/manifest/config.yaml)")
	flags.StringP("out", "o", "", "directory exported .PBS files are written to")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "write logs to this file")
	_ = a.v.BindPFlag(config.KeyOutputDir, flags.Lookup("out"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFile, flags.Lookup("log-file"))

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newVersionCmd(info))

	return root
}

func (a *app) init(console bool) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg, console)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) runInteractive() error {
	a.logger.Info("starting interactive session", zap.String("output_dir", a.cfg.OutputDir))

	model := ui.InitialModel(ui.Options{
		StartDir:  a.cfg.StartDir,
		OutputDir: a.cfg.OutputDir,
		Logger:    a.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
