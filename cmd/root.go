// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/naka-gawa/harbor-summary/internal/config"
	"github.com/naka-gawa/harbor-summary/internal/domain"
	"github.com/naka-gawa/harbor-summary/internal/gateway"
	"github.com/naka-gawa/harbor-summary/internal/logging"
	"github.com/naka-gawa/harbor-summary/internal/usecase"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// options holds every flag value. Connection flags are only forwarded to
// the config loader when the user set them explicitly, so the config file
// and HARBOR_* variables are not shadowed by flag defaults.
type options struct {
	verbose     int
	configFile  string
	envFile     string
	baseURL     string
	username    string
	password    string
	apiToken    string
	insecure    bool
	pageSize    int
	timeout     float64
	concurrency int
	projects    []string
	output      string

	format       string
	columns      []string
	listColumns  bool
	listProjects bool
	preview      bool
	previewWidth int

	logger   zerolog.Logger
	prompter config.Prompter
}

// NewRootCmd builds the command tree. The root command itself generates
// the summary document.
func NewRootCmd() *cobra.Command {
	o := &options{
		logger:   zerolog.Nop(),
		prompter: config.TerminalPrompter{},
	}

	rootCmd := &cobra.Command{
		Use:   "harbor-summary",
		Short: "Generate Harbor repository summaries in HTML or Markdown.",
		Long: `harbor-summary walks every project of a Harbor instance through its REST API,
collects the repositories of each project and writes a summary document.
The format is HTML unless --format markdown is given or the output file
ends in .md or .markdown.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			o.logger = logging.Setup(o.verbose, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case o.listColumns:
				return runColumns(cmd)
			case o.listProjects:
				return runProjects(cmd, o)
			}
			return runSummary(cmd, o)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&o.verbose, "verbose", "v", "Enable verbose logging (repeat for more detail)")
	pf.StringVar(&o.configFile, "config", "", "TOML config file with base_url, username, api_token, ...")
	pf.StringVar(&o.envFile, "env-file", "", "dotenv file with HARBOR_* variables (default ./.env when present)")
	pf.StringVarP(&o.baseURL, "base-url", "b", "", "Base URL of the Harbor instance (e.g. https://harbor.example.com)")
	pf.StringVarP(&o.username, "username", "u", "", "Harbor username. Use along with --password or rely on interactive prompt.")
	pf.StringVarP(&o.password, "password", "p", "", "Harbor password. If omitted while --username is set, an interactive prompt is used.")
	pf.StringVarP(&o.apiToken, "api-token", "t", "", "Harbor robot or user API token, sent as a Bearer token; takes precedence over username/password")
	pf.BoolVarP(&o.insecure, "insecure", "k", false, "Disable TLS verification (not recommended)")
	pf.IntVarP(&o.pageSize, "page-size", "s", 100, "Number of items to fetch per API page")
	pf.Float64VarP(&o.timeout, "timeout", "T", 30, "HTTP timeout in seconds for API calls")
	pf.IntVar(&o.concurrency, "concurrency", 1, "Number of projects whose repositories are fetched in parallel")
	pf.StringArrayVarP(&o.projects, "project", "P", nil, "Limit to one or more projects. Repeat this flag or provide a comma-separated list.")
	pf.StringVarP(&o.output, "output", "o", "", "Path to write the output to (defaults to harbor_summary.html, or harbor_summary.md for Markdown)")

	f := rootCmd.Flags()
	f.StringVarP(&o.format, "format", "f", "", "Output format: html or markdown. Defaults to HTML unless the output filename ends with .md/.markdown.")
	f.StringArrayVarP(&o.columns, "column", "c", nil, "Restrict the summary table to specific columns. Repeat this flag or provide a comma-separated list.")
	f.BoolVarP(&o.listColumns, "list-columns", "l", false, "Print the available column keys and exit")
	f.BoolVarP(&o.listProjects, "list-projects", "L", false, "List Harbor projects (with repository counts) and exit")
	f.BoolVar(&o.preview, "preview", false, "Also render a Markdown summary to the terminal")
	f.IntVar(&o.previewWidth, "preview-width", 100, "Word wrap width of the terminal preview")

	rootCmd.AddCommand(newColumnsCmd(), newProjectsCmd(o), newStatsCmd(o))
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		reportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// reportError prints err the way the user should read it.
func reportError(w io.Writer, err error) {
	var (
		httpErr   *domain.HTTPError
		netErr    *domain.NetworkError
		malformed *domain.MalformedResponseError
	)
	switch {
	case errors.As(err, &httpErr):
		fmt.Fprintf(w, "Harbor API error: %s\n", httpErr.Error())
	case errors.As(err, &netErr):
		fmt.Fprintf(w, "Network error while contacting Harbor: %v\n", netErr.Err)
	case errors.As(err, &malformed):
		fmt.Fprintf(w, "Harbor API error: %s\n", malformed.Error())
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// explicitFlags returns the connection flags the user actually set, keyed
// like the config file.
func (o *options) explicitFlags(cmd *cobra.Command) map[string]any {
	values := make(map[string]any)
	set := func(flag, key string, v any) {
		if cmd.Flags().Changed(flag) {
			values[key] = v
		}
	}
	set("base-url", "base_url", o.baseURL)
	set("username", "username", o.username)
	set("password", "password", o.password)
	set("api-token", "api_token", o.apiToken)
	set("insecure", "insecure", o.insecure)
	set("page-size", "page_size", o.pageSize)
	set("timeout", "timeout", o.timeout)
	set("concurrency", "concurrency", o.concurrency)
	return values
}

// newAggregator loads the configuration, makes sure credentials are
// available and wires the Harbor gateway into the aggregation use case.
func (o *options) newAggregator(cmd *cobra.Command) (*usecase.Aggregator, error) {
	cfg, err := config.Load(config.Sources{
		ConfigFile: o.configFile,
		EnvFile:    o.envFile,
		Flags:      o.explicitFlags(cmd),
	})
	if err != nil {
		return nil, err
	}
	if err := config.EnsureCredentials(cfg, o.prompter); err != nil {
		return nil, err
	}

	client, err := gateway.NewClient(gateway.ClientOptions{
		BaseURL:  cfg.BaseURL,
		Username: cfg.Username,
		Password: cfg.Password,
		Token:    cfg.APIToken,
		Insecure: cfg.Insecure,
		Timeout:  cfg.TimeoutDuration(),
	}, logging.Component(o.logger, "gateway"))
	if err != nil {
		return nil, &domain.ConfigError{Message: "invalid base URL", Err: err}
	}
	fetcher := gateway.NewHarborGateway(client, cfg.PageSize, logging.Component(o.logger, "gateway"))
	return usecase.NewAggregator(fetcher, logging.Component(o.logger, "usecase"), usecase.WithConcurrency(cfg.Concurrency)), nil
}

func warnMissing(cmd *cobra.Command, missing []string) {
	if len(missing) == 0 {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Warning: requested projects not found: %s\n", strings.Join(missing, ", "))
}
