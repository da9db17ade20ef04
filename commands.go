package main

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mindterm/clip"
	"mindterm/editor"
	"mindterm/geometry"
	"mindterm/layout"
	"mindterm/mapfile"
)

var (
	Version = "0.1.0"
	cfgFile string
)

// flag values; only flags the user set override the config.
var (
	flagDirection  string
	flagLevelGap   float64
	flagSiblingGap float64
	flagLogLevel   string
	flagLogFile    string
	flagNoConfirm  bool
	flagPixels     bool
	flagPNG        string
	flagTXT        string
)

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:     "mindterm [file]",
	Short:   "Edit mind maps in the terminal",
	Long:    `mindterm is a keyboard-driven mind map editor. Maps are saved as JSON or YAML and can be exported as PNG images or plain text drawings.`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open a map in the editor",
	Long:  `Opens the map stored in file, or a new map when file is omitted or does not exist yet.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args)
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout <file>",
	Short: "Print the computed layout as JSON",
	Long:  `Lays out the map stored in file and prints node positions, sizes and connector waypoints.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLayout(cmd, args[0])
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a map as PNG or text",
	Long:  `Renders the map stored in file to a PNG image (--png) and/or a plain text drawing (--txt).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagPNG == "" && flagTXT == "" {
			return fmt.Errorf("nothing to do: pass --png and/or --txt")
		}
		return runExport(cmd, args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default is ~/.config/mindterm/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagDirection, "direction", "d", "", "layout direction: LR, RL, TB or BT")
	rootCmd.PersistentFlags().Float64Var(&flagLevelGap, "level-gap", 0, "gap between a node and its children")
	rootCmd.PersistentFlags().Float64Var(&flagSiblingGap, "sibling-gap", 0, "gap between sibling subtrees")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagNoConfirm, "no-confirm", false, "skip confirmation prompts")

	layoutCmd.Flags().BoolVar(&flagPixels, "pixels", false, "measure nodes in pixels with the export font instead of terminal cells")
	exportCmd.Flags().StringVar(&flagPNG, "png", "", "write a PNG image to this path")
	exportCmd.Flags().StringVar(&flagTXT, "txt", "", "write a text drawing to this path")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(exportCmd)
}

// resolveConfig loads every config source and then applies the flags the
// user set explicitly.
func resolveConfig(cmd *cobra.Command) (*Config, error) {
	config, err := loadConfig(defaultSources(cfgFile))
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("direction") {
		config.Direction = strings.ToUpper(strings.TrimSpace(flagDirection))
	}
	if flags.Changed("level-gap") {
		config.LevelGap = flagLevelGap
	}
	if flags.Changed("sibling-gap") {
		config.SiblingGap = flagSiblingGap
	}
	if flags.Changed("log-level") {
		config.LogLevel = strings.ToLower(flagLogLevel)
	}
	if flags.Changed("log-file") {
		config.LogFile = expandPath(flagLogFile)
	}
	if flagNoConfirm {
		config.Confirmations = false
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// loadMap reads path; a direction stored in the file wins unless the user
// passed --direction.
func loadMap(cmd *cobra.Command, path string, config *Config) (*mapfile.Map, layout.Config, error) {
	doc, err := mapfile.Load(path)
	if err != nil {
		return nil, layout.Config{}, err
	}
	lc := config.Layout()
	if doc.Direction != "" && !cmd.Flags().Changed("direction") {
		lc.Direction = doc.Direction
	}
	return doc, lc, nil
}

func runLayout(cmd *cobra.Command, path string) error {
	config, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	doc, lc, err := loadMap(cmd, path, config)
	if err != nil {
		return err
	}

	var oracle geometry.Oracle = geometry.NewCellOracle()
	if flagPixels {
		fonts, err := fontOracle(config.FontSize)
		if err != nil {
			return err
		}
		oracle = fonts
		pixels := layout.DefaultConfig()
		if !cmd.Flags().Changed("level-gap") {
			lc.LevelGap = pixels.LevelGap
		}
		if !cmd.Flags().Changed("sibling-gap") {
			lc.SiblingGap = pixels.SiblingGap
		}
	}
	scene, err := sizedScene(doc.Tree, oracle, lc)
	if err != nil {
		return err
	}
	return writeLayoutJSON(cmd.OutOrStdout(), scene)
}

func runExport(cmd *cobra.Command, path string) error {
	config, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	doc, lc, err := loadMap(cmd, path, config)
	if err != nil {
		return err
	}
	if flagPNG != "" {
		if err := exportPNG(flagPNG, doc.Tree, lc.Direction, config.FontSize); err != nil {
			return fmt.Errorf("export png: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", flagPNG)
	}
	if flagTXT != "" {
		if err := exportVisualTXT(flagTXT, doc.Tree, lc); err != nil {
			return fmt.Errorf("export txt: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", flagTXT)
	}
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	config, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(config)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	selection := editor.NewSelection()
	opts := []editor.Option{
		editor.WithLogger(logger.Named("editor")),
		editor.WithLayout(config.Layout()),
		editor.WithSelection(selection),
		editor.WithHistoryLimit(config.HistoryLimit),
	}
	if config.SystemClipboard {
		opts = append(opts, editor.WithClipboard(clip.NewSystemClipboard(logger.Named("clipboard"))))
	}

	var path string
	if len(args) == 1 {
		path = args[0]
		if !filepath.IsAbs(path) && !fileExists(path) {
			path = config.GetSavePath(path)
		}
		if fileExists(path) {
			doc, lc, err := loadMap(cmd, path, config)
			if err != nil {
				return err
			}
			opts = append(opts, editor.WithTree(doc.Tree), editor.WithLayout(lc))
		} else if _, err := mapfile.FormatFromPath(path); err != nil {
			return err
		}
	}

	m := newModel(editor.New(opts...), selection, config, logger)
	m.currentFile = path

	if yamlPath := defaultSources(cfgFile).YAMLPath; yamlPath != "" {
		reload := func() (*Config, error) { return resolveConfig(cmd) }
		if w, err := newConfigWatcher(yamlPath, reload, logger.Named("config")); err != nil {
			logger.Warn("config hot reload disabled", zap.Error(err))
		} else {
			m.watcher = w
		}
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
