package cmd

import (
	"fmt"
	"os"
	"strings"

	"locplot/internal/chart"
	"locplot/internal/cmd/root"
	"locplot/pkg/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locplot <loc.csv>",
		Short: "Plot the distribution of lines of code per file",
		Long: `locplot reads a per-file cloc report and draws a box plot of the
lines of code per file, in the terminal or into an image file.

The .csv file is created with
  cloc --by-file --csv --out loc.csv src`,
		Example: `  # the report is created with
  cloc --by-file --csv --out loc.csv src

  locplot loc.csv
  locplot --no-tui --output loc.png loc.csv
  locplot --output - --format svg loc.csv > loc.svg
  locplot --by-language --column comment loc.csv`,
		Args: cobra.ExactArgs(1),
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			initLogger()
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) { log.Sync() },
		Run:               root.Run,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.locplot.yaml or ./.locplot.yaml)")
	flags.Bool("debug", false, "Enable debug mode")
	flags.Bool("no-tui", false, "Print a text summary instead of opening the terminal plot")
	flags.String("column", "code", "Report column to plot")
	flags.Bool("by-language", false, "Draw one box per language")
	flags.String("output", "", "Write the plot to an image file (png, svg, pdf, ...), - for stdout")
	flags.String("format", "png", "Image format used with --output -")
	flags.String("title", chart.DefaultTitle, "Plot title")
	flags.Float64("width", 4, "Image width in inches")
	flags.Float64("height", 6, "Image height in inches")

	for _, name := range []string{"debug", "no-tui", "column", "by-language", "output", "format", "title", "width", "height"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	return cmd
}

func init() {
	setDefaults()
}

func setDefaults() {
	viper.SetDefault("debug", false)
	viper.SetDefault("no-tui", false)
	viper.SetDefault("column", "code")
	viper.SetDefault("by-language", false)
	viper.SetDefault("format", "png")
	viper.SetDefault("title", chart.DefaultTitle)
	viper.SetDefault("xlabel", chart.DefaultXLabel)
	viper.SetDefault("ylabel", chart.DefaultYLabel)
	viper.SetDefault("width", 4)
	viper.SetDefault("height", 6)
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".locplot")
	}

	viper.SetEnvPrefix("LOCPLOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func initLogger() {
	log.InitLogger(viper.GetBool("debug"))
	if f := viper.ConfigFileUsed(); f != "" {
		log.Debug("config loaded from " + f)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
