package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/mcncl/castscan/internal/analyzer"
	"github.com/mcncl/castscan/internal/config"
	"github.com/mcncl/castscan/internal/errors"
	"github.com/mcncl/castscan/internal/formatter"
	"github.com/mcncl/castscan/internal/generator"
	"github.com/mcncl/castscan/internal/logging"
	"github.com/mcncl/castscan/internal/models"
	"github.com/mcncl/castscan/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to the JSON AST. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to the report file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string `help:"Path to a config file. Defaults to the nearest .castscan.yml." short:"c" type:"path"`
	Format      string `help:"Output format: text, json, yaml or header." short:"f"`
	KeyStyle    string `help:"Key style of json/yaml reports: snake, camel or kebab."`
	NamePattern string `help:"Only report functions whose name matches this regular expression." short:"n"`
	MinIfs      int    `help:"Only report functions with at least this many if statements." name:"min-ifs"`
	Guard       string `help:"Include guard name for the header format."`
	NoColor     bool   `help:"Disable coloured log output."`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("castscan"),
		kong.Description("Report the functions of a pycparser JSON AST: name, return type, parameters and if-statement count"),
		kong.UsageOnError(),
	)

	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// kong.UsageOnError() has already printed the usage
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("castscan version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	_, ctx := logging.Setup(context.Background(), os.Stderr, cfg.Dev.Debug, CLI.NoColor)

	if err := run(ctx, cfg); err != nil {
		logging.Ctx(ctx).DebugContext(ctx, "run failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: castscan --help\n")
		os.Exit(1)
	}
}

// loadConfig merges the config file, if any, with command-line flags
func loadConfig() (*config.Config, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, config.CLIOverrides{
		Format:          CLI.Format,
		KeyStyle:        CLI.KeyStyle,
		NamePattern:     CLI.NamePattern,
		MinConditionals: CLI.MinIfs,
		HeaderGuard:     CLI.Guard,
		Debug:           CLI.Debug,
	})
	if err != nil {
		if configPath != "" {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to load '%s'", configPath), err)
		}
		return nil, errors.NewConfigError(err.Error(), err)
	}
	return cfg, nil
}

// run executes the main program logic
func run(ctx context.Context, cfg *config.Config) error {
	log := logging.Ctx(ctx)

	// 1. Load the AST
	ast, err := parseInput()
	if err != nil {
		return err
	}
	log.DebugContext(ctx, "loaded AST", "source", inputName(), "size", humanize.Bytes(uint64(ast.Size)))

	// 2. Extract function descriptors
	report, err := analyzer.NewAnalyzerWithConfig(cfg).Analyze(ctx, ast)
	if err != nil {
		return err
	}

	// 3. Render
	output, err := render(cfg, report)
	if err != nil {
		return errors.NewOutputError("failed to render report", err)
	}

	// 4. Output the result
	return writeOutput(output)
}

// render produces the report text in the configured format
func render(cfg *config.Config, report models.Report) (string, error) {
	if cfg.Output.Format == config.FormatHeader {
		guard := cfg.Output.HeaderGuard
		if guard == "" && CLI.Input != "" {
			base := filepath.Base(CLI.Input)
			guard = strings.TrimSuffix(base, filepath.Ext(base))
		}
		return generator.NewGeneratorWithConfig(cfg).GenerateHeader(report, guard)
	}
	return formatter.NewFormatterWithConfig(cfg).Format(report)
}

func inputName() string {
	if CLI.Input != "" {
		return CLI.Input
	}
	return "stdin"
}

// parseInput reads the AST from file or stdin
func parseInput() (models.AST, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.AST{}, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return models.AST{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.AST{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.AST{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes the report to file or stdout
func writeOutput(output string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(output), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Print(output)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste an AST and finish with Ctrl+D (EOF)
func readInteractiveInput() (models.AST, error) {
	fmt.Fprintln(os.Stderr, "castscan Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON AST below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.AST{}, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if strings.TrimSpace(jsonData) == "" {
		return models.AST{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nAnalysing AST...")
	return parser.ParseString(jsonData)
}
