package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/getman/packages/capture"
	"github.com/abdul-hamid-achik/getman/packages/core/config"
	"github.com/abdul-hamid-achik/getman/packages/executor"
	"github.com/abdul-hamid-achik/getman/packages/http"
	"github.com/abdul-hamid-achik/getman/packages/import/curl"
	"github.com/abdul-hamid-achik/getman/packages/logging"
	"github.com/abdul-hamid-achik/getman/packages/output"
	"github.com/abdul-hamid-achik/getman/packages/watch"
)

var sendCmd = &cobra.Command{
	Use:   "send [url]",
	Short: "Send one request and print the response",
	Long: `Send a single HTTP request and print the status, headers and body.
JSON bodies are pretty-printed; anything else is shown as-is.

Examples:
  getman send https://httpbin.org/get
  getman send -X POST -H "Content-Type: application/json" -d '{"a":1}' https://httpbin.org/post
  getman send -X PUT --headers-file headers.txt --data-file body.json https://api.example.com/items/1
  getman send --curl "curl -u user:pass https://httpbin.org/basic-auth/user/pass"
  getman send https://httpbin.org/json --query body.slideshow.title
  getman send -X POST --data-file body.json --watch https://httpbin.org/post`,
	Args: cobra.MaximumNArgs(1),
	RunE: sendCommand,
}

var (
	methodFlag       string
	headerFlags      []string
	headersFileFlag  string
	dataFlag         string
	dataFileFlag     string
	curlFlag         string
	queryFlag        string
	outputFlag       string
	timeoutFlag      string
	noFollowFlag     bool
	maxRedirectsFlag int
	noColorFlag      bool
	verboseFlag      bool
	configFlag       string
	watchFlag        bool
)

func init() {
	// Request flags
	sendCmd.Flags().StringVarP(&methodFlag, "request", "X", "", "HTTP method: GET, POST, PUT, DELETE, PATCH (default from config, else GET)")
	sendCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "Header line \"Key: Value\" (repeatable)")
	sendCmd.Flags().StringVar(&headersFileFlag, "headers-file", "", "File with one \"Key: Value\" header per line")
	sendCmd.Flags().StringVarP(&dataFlag, "data", "d", "", "Request body, sent as-is for every method")
	sendCmd.Flags().StringVar(&dataFileFlag, "data-file", "", "File whose contents are the request body")
	sendCmd.Flags().StringVar(&curlFlag, "curl", "", "Build the request from a curl command line")

	// Output flags
	sendCmd.Flags().StringVarP(&queryFlag, "query", "q", "", "Print only one value: status, header.<name>, body or body.<json path>")
	sendCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("GETMAN_OUTPUT", ""), "Output format: text, console, json (env: GETMAN_OUTPUT)")
	sendCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("GETMAN_NO_COLOR", false), "Disable colored output (env: GETMAN_NO_COLOR)")

	// Network flags
	sendCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("GETMAN_TIMEOUT", ""), "Request timeout, e.g. 30s (default none) (env: GETMAN_TIMEOUT)")
	sendCmd.Flags().BoolVar(&noFollowFlag, "no-follow", false, "Do not follow redirects")
	sendCmd.Flags().IntVar(&maxRedirectsFlag, "max-redirects", getEnvInt("GETMAN_MAX_REDIRECTS", 0), "Maximum redirects to follow (env: GETMAN_MAX_REDIRECTS)")

	// Execution flags
	sendCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-send whenever --data-file or --headers-file changes")

	addCommonFlags(sendCmd)
}

// addCommonFlags registers flags shared by send and interactive.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("GETMAN_VERBOSE", false), "Log request details to stderr (env: GETMAN_VERBOSE)")
	cmd.Flags().StringVar(&configFlag, "config", getEnvString("GETMAN_CONFIG", ""), "Path to config file (env: GETMAN_CONFIG)")
}

// loadSettings reads the config file and applies command line overrides.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("failed to load config: %w", err))
	}

	overrides := &config.Config{
		Output:  outputFlag,
		Timeout: timeoutFlag,
	}
	if maxRedirectsFlag > 0 {
		overrides.MaxRedirects = maxRedirectsFlag
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	if noFollowFlag {
		overrides.FollowRedirects = config.BoolPtr(false)
	}
	cfg = cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	return cfg, nil
}

// newExecutor builds the client and executor described by cfg.
func newExecutor(cfg *config.Config, logger zerolog.Logger) (*executor.Executor, error) {
	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	client := http.NewClient(
		http.WithTimeout(timeout),
		http.WithFollowRedirects(cfg.GetFollowRedirects()),
		http.WithMaxRedirects(cfg.MaxRedirects),
		http.WithDefaultHeaders(cfg.HeaderFields()),
		http.WithLogger(logger),
	)
	return executor.New(client, executor.WithLogger(logger)), nil
}

// buildRequest assembles the request from flags, files and config. Header
// sources are applied config, file, then flags, so flags win.
func buildRequest(args []string, cfg *config.Config) (*http.Request, error) {
	if curlFlag != "" {
		req, err := curl.NewConverter().Convert(curlFlag)
		if err != nil {
			return nil, withExitCode(ExitUsageError, fmt.Errorf("invalid curl command: %w", err))
		}
		for _, h := range headerFlags {
			req.AddHeaderBlock(h)
		}
		if methodFlag != "" {
			req.Method = strings.ToUpper(methodFlag)
		}
		return req, nil
	}

	form := executor.Form{
		Method: cfg.Method,
		URL:    cfg.URL,
		Body:   dataFlag,
	}
	if methodFlag != "" {
		form.Method = strings.ToUpper(methodFlag)
	}
	if len(args) > 0 {
		form.URL = args[0]
	}

	var headerLines []string
	if headersFileFlag != "" {
		data, err := os.ReadFile(headersFileFlag)
		if err != nil {
			return nil, withExitCode(ExitUsageError, fmt.Errorf("failed to read headers file: %w", err))
		}
		headerLines = append(headerLines, string(data))
	}
	headerLines = append(headerLines, headerFlags...)
	form.Headers = strings.Join(headerLines, "\n")

	if dataFileFlag != "" {
		if dataFlag != "" {
			return nil, withExitCode(ExitUsageError, errors.New("use either --data or --data-file, not both"))
		}
		data, err := os.ReadFile(dataFileFlag)
		if err != nil {
			return nil, withExitCode(ExitUsageError, fmt.Errorf("failed to read data file: %w", err))
		}
		form.Body = string(data)
	}

	return form.Spec(), nil
}

func sendCommand(cmd *cobra.Command, args []string) error {
	if curlFlag != "" && len(args) > 0 {
		return withExitCode(ExitUsageError, errors.New("--curl already names the URL; drop the positional argument"))
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), verboseFlag)

	formatter, err := output.New(cfg.Output, cmd.OutOrStdout(), cfg.GetNoColor(), verboseFlag)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	exec, err := newExecutor(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	send := func() error {
		req, err := buildRequest(args, cfg)
		if err != nil {
			return err
		}
		if err := http.ValidateURL(req.URL); err != nil {
			logger.Warn().Err(err).Msg("sending anyway")
		}
		return sendOnce(ctx, cmd, exec, formatter, req)
	}

	sendErr := send()

	if !watchFlag {
		return sendErr
	}

	var files []string
	for _, f := range []string{headersFileFlag, dataFileFlag} {
		if f != "" {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return withExitCode(ExitUsageError, errors.New("--watch needs --data-file or --headers-file"))
	}

	watcher, err := watch.New(files, watch.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	return watcher.Run(ctx, func(path string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nFile changed: %s\nRe-sending...\n\n", path)
		if err := send(); err != nil {
			printError(cmd.ErrOrStderr(), err)
		}
	})
}

// sendOnce runs req and prints the outcome. Request failures are printed
// like any other result and only surface as an exit code.
func sendOnce(ctx context.Context, cmd *cobra.Command, exec *executor.Executor, formatter output.Formatter, req *http.Request) error {
	report, err := exec.Run(ctx, req)
	if err != nil {
		formatter.FormatError(req, err)
		if errors.Is(err, http.ErrInvalidMethod) {
			return withExitCode(ExitUsageError, nil)
		}
		return withExitCode(ExitNetworkError, nil)
	}

	if queryFlag != "" {
		value, err := capture.Extract(report, queryFlag)
		if err != nil {
			return withExitCode(ExitUsageError, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	}

	formatter.FormatReport(req, report)
	return nil
}
