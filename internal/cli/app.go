package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"saleseda/internal/config"
	"saleseda/internal/logging"
	"saleseda/internal/pipeline"
	"saleseda/internal/report"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	version string
}

// NewCLIApp creates the CLI application. Run with no flags it analyzes
// data.csv and writes sales_analysis.png.
func NewCLIApp(version string) *CLIApp {
	app := &CLIApp{
		version: version,
	}

	rootCmd := &cobra.Command{
		Use:   "sales-eda",
		Short: "Exploratory analysis of a sales dataset",
		Long: "Loads a sales file (Date, Product Category, Region, Sales, Quantity), drops incomplete rows,\n" +
			"prints descriptive statistics and average sales per category, and renders a 2x2 chart grid.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "sales-eda version: %s\n" .Version}}`)

	rootCmd.Flags().StringP("config", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.Flags().String("input", "", "Sales file to analyze, CSV or XLSX (default: data.csv)")
	rootCmd.Flags().String("sheet", "", "Worksheet to read from an XLSX input (default: first sheet)")
	rootCmd.Flags().Bool("sample", false, "Analyze the bundled sample dataset instead of a file")
	rootCmd.Flags().String("output", "", "Figure file; the extension selects the format (default: sales_analysis.png)")
	rootCmd.Flags().Int("bins", 0, "Number of histogram bins (default: 5)")
	rootCmd.Flags().String("log-level", "", "Log level: debug, info, warn, error (default: info)")
	rootCmd.Flags().Bool("plain", false, "Disable colors and styling in the report")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

func (app *CLIApp) SetOutput(w io.Writer) {
	app.rootCmd.SetOut(w)
	app.rootCmd.SetErr(w)
}

// overrides turns the flags given on the command line into config
// overrides. Flags left unset do not mask file or environment values.
func (app *CLIApp) overrides(cmd *cobra.Command) []func(*config.Config) {
	flags := cmd.Flags()
	var out []func(*config.Config)

	if flags.Changed("input") {
		input, _ := flags.GetString("input")
		out = append(out, func(c *config.Config) { c.Input.Path = input })
	}
	if flags.Changed("sheet") {
		sheet, _ := flags.GetString("sheet")
		out = append(out, func(c *config.Config) { c.Input.Sheet = sheet })
	}
	if flags.Changed("sample") {
		sample, _ := flags.GetBool("sample")
		out = append(out, func(c *config.Config) { c.Input.Sample = sample })
	}
	if flags.Changed("output") {
		output, _ := flags.GetString("output")
		out = append(out, func(c *config.Config) { c.Figure.Output = output })
	}
	if flags.Changed("bins") {
		bins, _ := flags.GetInt("bins")
		out = append(out, func(c *config.Config) { c.Figure.Bins = bins })
	}
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		out = append(out, func(c *config.Config) { c.Logging.Level = level })
	}
	if flags.Changed("plain") {
		plain, _ := flags.GetBool("plain")
		out = append(out, func(c *config.Config) { c.Console.Plain = plain })
	}

	return out
}

func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, app.overrides(cmd)...)
	if err != nil {
		fmt.Fprintln(stdout, pipeline.Message(err))
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(stdout, pipeline.Message(err))
		return err
	}
	defer func() { _ = logger.Sync() }()

	printer := report.NewPrinter(stdout, cfg.Console.Plain)
	if _, err := pipeline.New(cfg, printer, logger).Run(); err != nil {
		printer.Failure(pipeline.Message(err))
		return err
	}
	return nil
}
