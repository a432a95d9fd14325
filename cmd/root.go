package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/spf13/cobra"

	"github.com/cmmoran/javagen/pkg/poet"
)

var (
	configFiles    []string
	level, version string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "javagen",
	Short:         "render Java sources from declaration documents",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "info", "log level (trace, debug, info, warn, error, debug+1, etc)")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")

	// rendering knobs shared by every command; viper keys render.*
	pf := rootCmd.PersistentFlags()
	pf.Int("max-width", poet.DefaultMaxWidth, "column limit for wrapped lines")
	pf.Int("indent-width", poet.DefaultIndentWidth, "spaces per indentation level")
	pf.Bool("tabs", false, "indent with tabs")
	pf.Int("continuation-indent", poet.DefaultContinuationIndent, "extra indentation levels for wrapped lines")
	pf.Bool("skip-java-lang-imports", false, "omit imports of java.lang types")
	pf.Bool("trace", false, "log every lazy node access")
	for key, flag := range map[string]string{
		"render.max_width":              "max-width",
		"render.indent_width":           "indent-width",
		"render.use_tabs":               "tabs",
		"render.continuation_indent":    "continuation-indent",
		"render.skip_java_lang_imports": "skip-java-lang-imports",
		"render.trace":                  "trace",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic("unable to bind flag " + flag + ": " + err.Error())
		}
	}
}

// parseLevel accepts slog level names plus "trace".
func parseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "trace") {
		return poet.LevelTrace, nil
	}
	var ll slog.Level
	err := (&ll).UnmarshalText([]byte(s))
	return ll, err
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	ll, err := parseLevel(level)
	if err != nil {
		panic("invalid log level: " + level)
	}
	l := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       ll,
		ReplaceAttr: nil,
	}))
	slog.SetDefault(l)

	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/javagen")
		viper.SetConfigType("yaml")
		viper.SetConfigName("javagen")
	}

	viper.SetEnvPrefix("JAVAGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		l.With("config", viper.ConfigFileUsed()).Debug("using config file(s)")
	} else {
		l.With("error", err, "config", viper.ConfigFileUsed()).Debug("unable to use config file(s)")
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			if configBytes, err := os.ReadFile(file); err == nil {
				if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
					l.With("error", err, "file", file).Warn("failed to merge config file")
				} else {
					l.With("file", file).Debug("merged config file")
				}
			}
		}
	}
	if len(version) > 0 {
		viper.Set("version", version)
	}

	// the config file may lower or raise the level unless --level was given
	llstr := viper.GetString("common.log.level")
	if llstr != "" && !rootCmd.PersistentFlags().Changed("level") {
		cl, err := parseLevel(llstr)
		if err != nil {
			panic("invalid log level: " + llstr)
		}
		l = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			AddSource:   false,
			Level:       cl,
			ReplaceAttr: nil,
		}))

		slog.SetDefault(l)
	}
}

// renderConfig reads the render.* settings from flags, environment and config.
func renderConfig() poet.Config {
	cfg := poet.Config{
		MaxWidth:            viper.GetInt("render.max_width"),
		IndentWidth:         viper.GetInt("render.indent_width"),
		UseTabs:             viper.GetBool("render.use_tabs"),
		ContinuationIndent:  viper.GetInt("render.continuation_indent"),
		SkipJavaLangImports: viper.GetBool("render.skip_java_lang_imports"),
		Trace:               viper.GetBool("render.trace"),
		Logger:              slog.Default(),
	}
	cfg.Normalize()
	return cfg
}
