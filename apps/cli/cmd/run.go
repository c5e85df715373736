package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crucible-dev/crucible/packages/cleanup"
	"github.com/crucible-dev/crucible/packages/core/config"
	"github.com/crucible-dev/crucible/packages/core/harness"
	"github.com/crucible-dev/crucible/packages/history"
	"github.com/crucible-dev/crucible/packages/output"
)

var runCmd = &cobra.Command{
	Use:   "run [test-number|name-substring ...]",
	Short: "Run the registered test suite",
	Long: `Run the compiled-in test suite, or the subset selected by test
numbers and name substrings.

Examples:
  crucible run
  crucible run 3 7
  crucible run sample-tree
  crucible run --parallel --concurrency 8
  crucible run --mode-filter pass --fs-type memblob
  crucible run --output tap
  crucible run --history-db runs.db`,
	RunE: runCommand,
}

var (
	fsTypeFlag        string
	backendConfigFlag string
	configFlag        string
	srcDirFlag        string
	reposDirFlag      string
	reposURLFlag      string
	reposTemplateFlag string
	serverMinorFlag   int

	modeFilterFlag  string
	parallelFlag    bool
	concurrencyFlag int
	paceFlag        float64
	allowFatalFlag  bool

	verboseFlag    bool
	quietFlag      bool
	noColorFlag    bool
	outputFlag     string
	outputFileFlag string

	historyDBFlag string
)

func init() {
	// Backend / collaborator options passed through to test drivers
	runCmd.Flags().StringVar(&fsTypeFlag, "fs-type", getEnvString("CRUCIBLE_FS_TYPE", ""), "Storage backend type under test (env: CRUCIBLE_FS_TYPE)")
	runCmd.Flags().StringVar(&backendConfigFlag, "config-file", getEnvString("CRUCIBLE_CONFIG_FILE", ""), "Backend config file handed to test drivers (env: CRUCIBLE_CONFIG_FILE)")
	runCmd.Flags().StringVar(&srcDirFlag, "srcdir", getEnvString("CRUCIBLE_SRCDIR", ""), "Source directory for tests that read checked-in data (env: CRUCIBLE_SRCDIR)")
	runCmd.Flags().StringVar(&reposDirFlag, "repos-dir", getEnvString("CRUCIBLE_REPOS_DIR", ""), "Temporary directory tests create repositories in (env: CRUCIBLE_REPOS_DIR)")
	runCmd.Flags().StringVar(&reposURLFlag, "repos-url", getEnvString("CRUCIBLE_REPOS_URL", ""), "Address the repos dir is reachable at (env: CRUCIBLE_REPOS_URL)")
	runCmd.Flags().StringVar(&reposTemplateFlag, "repos-template", getEnvString("CRUCIBLE_REPOS_TEMPLATE", ""), "Pre-created repository copied per test (env: CRUCIBLE_REPOS_TEMPLATE)")
	runCmd.Flags().IntVar(&serverMinorFlag, "server-minor-version", getEnvInt("CRUCIBLE_SERVER_MINOR", 0), "Server minor version, 0 for latest (env: CRUCIBLE_SERVER_MINOR)")

	// Engine configuration
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("CRUCIBLE_CONFIG", ""), "Path to crucible config file (env: CRUCIBLE_CONFIG)")
	runCmd.Flags().StringVar(&modeFilterFlag, "mode-filter", getEnvString("CRUCIBLE_MODE_FILTER", ""), "Run only tests with this effective mode: pass, xfail, skip, all")
	runCmd.Flags().BoolVarP(&parallelFlag, "parallel", "p", getEnvBool("CRUCIBLE_PARALLEL", false), "Run tests concurrently (env: CRUCIBLE_PARALLEL)")
	runCmd.Flags().IntVar(&concurrencyFlag, "concurrency", getEnvInt("CRUCIBLE_CONCURRENCY", 0), "Worker bound in parallel mode; 0 means unbounded (env: CRUCIBLE_CONCURRENCY)")
	runCmd.Flags().Float64Var(&paceFlag, "pace", 0, "Throttle test dispatches per second; 0 disables pacing")
	runCmd.Flags().BoolVar(&allowFatalFlag, "allow-fatal", getEnvBool("CRUCIBLE_ALLOW_FATAL", false), "Record a panicking test as a failure instead of crashing the run (env: CRUCIBLE_ALLOW_FATAL)")

	// Output flags
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("CRUCIBLE_VERBOSE", false), "Verbose output (env: CRUCIBLE_VERBOSE)")
	runCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", getEnvBool("CRUCIBLE_QUIET", false), "Only print the summary and failures (env: CRUCIBLE_QUIET)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("CRUCIBLE_NO_COLOR", false), "Disable colored output (env: CRUCIBLE_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("CRUCIBLE_OUTPUT", ""), "Output format: console, tap, json (env: CRUCIBLE_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("CRUCIBLE_OUTPUT_FILE", ""), "Write output to file instead of stdout (env: CRUCIBLE_OUTPUT_FILE)")

	runCmd.Flags().StringVar(&historyDBFlag, "history-db", getEnvString("CRUCIBLE_HISTORY_DB", ""), "Record outcomes to this SQLite database (env: CRUCIBLE_HISTORY_DB)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func runCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfigError)
	}
	applyFlagOverrides(fileConfig)

	filter, ok := harness.ParseMode(fileConfig.ModeFilter)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: invalid mode filter %q (use pass, xfail, skip, all)\n", fileConfig.ModeFilter)
		os.Exit(ExitUsageError)
	}

	var outWriter *os.File
	if outputFileFlag != "" {
		outWriter, err = os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outWriter.Close()
	}
	formatter := buildFormatter(fileConfig, outWriter)
	formatter.FormatHeader(version)

	opts := &harness.Options{
		ProgName:           "crucible",
		FSType:             fileConfig.FSType,
		ConfigFile:         fileConfig.ConfigFile,
		SrcDir:             fileConfig.SrcDir,
		ReposDir:           fileConfig.ReposDir,
		ReposURL:           fileConfig.ReposURL,
		ReposTemplate:      fileConfig.ReposTemplate,
		ServerMinorVersion: fileConfig.ServerMinorVersion,
		Verbose:            fileConfig.GetVerbose(),
		Cleanup:            cleanup.NewRegistry(),
	}

	suite := builtinTests()
	selected, numbers, err := selectTests(suite, args)
	if err != nil {
		formatter.FormatError(err)
		os.Exit(ExitUsageError)
	}

	maxConcurrency := 1
	if fileConfig.GetParallel() {
		explicit := cmd.Flags().Changed("concurrency") || os.Getenv("CRUCIBLE_CONCURRENCY") != ""
		maxConcurrency = concurrencyBound(explicit, concurrencyFlag, fileConfig.Concurrency)
	}

	runner := harness.NewRunner(opts, &harness.Config{
		MaxConcurrency: maxConcurrency,
		ModeFilter:     filter,
		Pace:           fileConfig.Pace,
		AllowFatal:     fileConfig.GetAllowFatal(),
	})

	start := time.Now()
	outcomes := runner.Run(selected)
	elapsed := time.Since(start)

	// All workers have returned; drain the shared cleanup list.
	opts.Cleanup.DrainAndRemove(os.Stderr)

	report := output.BuildReport(opts.ProgName, outcomes, numbers, elapsed)
	formatter.FormatReport(report)

	if fileConfig.HistoryDB != "" {
		if err := recordHistory(fileConfig.HistoryDB, report, start); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording run history failed: %v\n", err)
		}
	}

	if report.Unexpected() {
		os.Exit(ExitTestFailure)
	}
	return nil
}

// applyFlagOverrides copies explicitly-set CLI flags over the file
// config; flags always win.
func applyFlagOverrides(cfg *config.Config) {
	overrides := &config.Config{
		FSType:             fsTypeFlag,
		ConfigFile:         backendConfigFlag,
		SrcDir:             srcDirFlag,
		ReposDir:           reposDirFlag,
		ReposURL:           reposURLFlag,
		ReposTemplate:      reposTemplateFlag,
		ServerMinorVersion: serverMinorFlag,
		ModeFilter:         modeFilterFlag,
		Pace:               paceFlag,
		Output:             outputFlag,
		HistoryDB:          historyDBFlag,
	}
	if parallelFlag {
		overrides.Parallel = config.BoolPtr(true)
	}
	if allowFatalFlag {
		overrides.AllowFatal = config.BoolPtr(true)
	}
	if verboseFlag {
		overrides.Verbose = config.BoolPtr(true)
	}
	if quietFlag {
		overrides.Quiet = config.BoolPtr(true)
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	*cfg = *cfg.Merge(overrides)
}

// concurrencyBound picks the worker bound for a parallel run. An
// explicitly provided value wins over the file config, including an
// explicit 0 asking for unbounded mode.
func concurrencyBound(explicit bool, flagVal, configVal int) int {
	if explicit || configVal <= 0 {
		return flagVal
	}
	return configVal
}

func buildFormatter(cfg *config.Config, outWriter *os.File) output.Formatter {
	switch strings.ToLower(cfg.Output) {
	case "json":
		jsonOpts := []output.JSONOption{}
		if outWriter != nil {
			jsonOpts = append(jsonOpts, output.JSONWithWriter(outWriter))
		}
		return output.NewJSONFormatter(jsonOpts...)
	case "tap":
		tapOpts := []output.TAPOption{}
		if outWriter != nil {
			tapOpts = append(tapOpts, output.TAPWithWriter(outWriter))
		}
		return output.NewTAPFormatter(tapOpts...)
	default: // "console"
		consoleOpts := []output.ConsoleOption{
			output.WithVerbose(cfg.GetVerbose()),
			output.WithQuiet(cfg.GetQuiet()),
			output.WithNoColor(cfg.GetNoColor() || cfg.GetQuiet()),
		}
		if outWriter != nil {
			consoleOpts = append(consoleOpts, output.WithWriter(outWriter))
		}
		return output.NewConsoleFormatter(consoleOpts...)
	}
}

// selectTests picks the subset named by args: each arg is either a
// 1-based test number or a case-sensitive name substring. With no args
// the whole suite runs.
func selectTests(suite []harness.Descriptor, args []string) ([]harness.Descriptor, []int, error) {
	if len(args) == 0 {
		return suite, nil, nil
	}

	picked := make([]bool, len(suite))
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 1 || n > len(suite) {
				return nil, nil, fmt.Errorf("test number %d out of range 1..%d", n, len(suite))
			}
			picked[n-1] = true
			continue
		}

		matched := false
		for i := range suite {
			if strings.Contains(suite[i].Msg, arg) {
				picked[i] = true
				matched = true
			}
		}
		if !matched {
			return nil, nil, fmt.Errorf("no test matches %q", arg)
		}
	}

	var selected []harness.Descriptor
	var numbers []int
	for i, p := range picked {
		if p {
			selected = append(selected, suite[i])
			numbers = append(numbers, i+1)
		}
	}
	return selected, numbers, nil
}

func recordHistory(path string, report *output.Report, startedAt time.Time) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(report, startedAt)
	return err
}
