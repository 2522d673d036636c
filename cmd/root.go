// Package cmd provides the root command and CLI setup for clargen.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"clar.dev/pkg/clargen/internal/adapter"
	"clar.dev/pkg/clargen/internal/controller"
	"clar.dev/pkg/clargen/internal/domain"
	m "clar.dev/pkg/clargen/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var cacheStore adapter.CacheStore
var workflow domain.Workflow
var ui controller.UI

var (
	outputFlag   string
	nameFlag     string
	prefixFlag   string
	excludeFlag  []string
	forceFlag    bool
	patternFlag  string
	verboseFlag  bool
	logFileFlag  string
	errManyPaths = errors.New("more than one path given")
)

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	cacheStore = adapter.NewCacheStore(fsAdapter)
	workflow = domain.NewWorkflow(
		fsAdapter,
		cacheStore,
		ui,
		domain.NewScanner(fsAdapter),
		domain.NewRefresher(fsAdapter),
	)
}

const rootLongDescription = `clargen scans a tree of C test sources for functions named
test_<module>__<name>(void) and writes <name>.suite, the registration
table compiled into the clar test runtime.

Functions may carry an annotation right after the signature:

  void test_core_clone__basic(void) /* [clar]: description="basic clone", runs=3 */

The file is only rewritten when a source changed, a module was excluded,
re-enabled or removed, or the artifact is missing. A cache next to the
artifact (.<name>cache) keeps unchanged files from being parsed again.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "clargen [path]",
		Short:        "Generate clar test suite registration tables",
		Long:         rootLongDescription,
		Args:         pathArgs,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, viper.GetBool(verboseFlagName))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Generate(cmd.Context(), domain.GenerateArgs{
				ScanArgs: scanArgs(args),
			})
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&outputFlag, outputFlagName, "o", viper.GetString(outputFlagName),
		"output directory for the .suite file and cache (default: the scanned path)")
	bindFlagToConfig(flags.Lookup(outputFlagName), outputFlagName)

	flags.StringVarP(&nameFlag, nameFlagName, "n", viper.GetString(nameFlagName),
		"application name used in generated symbol names and the output file name")
	bindFlagToConfig(flags.Lookup(nameFlagName), nameFlagName)

	flags.StringVarP(&prefixFlag, prefixFlagName, "p", viper.GetString(prefixFlagName),
		"function name prefix of test functions")
	bindFlagToConfig(flags.Lookup(prefixFlagName), prefixFlagName)

	flags.StringArrayVarP(&excludeFlag, excludeFlagName, "x", viper.GetStringSlice(excludeFlagName),
		"disable suites whose name starts with this prefix, e.g. core::clone (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeFlagName)

	flags.BoolVarP(&forceFlag, forceFlagName, "f", viper.GetBool(forceFlagName),
		"ignore the cache and parse every source again")
	bindFlagToConfig(flags.Lookup(forceFlagName), forceFlagName)

	flags.StringVar(&patternFlag, patternFlagName, viper.GetString(patternFlagName),
		"file name pattern of test sources")
	bindFlagToConfig(flags.Lookup(patternFlagName), patternFlagName)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(verboseFlagName),
		"log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), verboseFlagName)

	flags.StringVar(&logFileFlag, "log-file", "", "log file (default "+defaultLogFilename+")")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func pathArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errManyPaths
	}

	return nil
}

func parsePath(args []string) m.Path {
	if len(args) == 0 {
		return "."
	}

	return m.Path(args[0])
}

func scanArgs(args []string) domain.ScanArgs {
	root := parsePath(args)

	output := m.Path(viper.GetString(outputFlagName))
	if output == "" {
		output = root
	}

	return domain.ScanArgs{
		Root:    root,
		Output:  output,
		AppName: viper.GetString(nameFlagName),
		Prefix:  viper.GetString(prefixFlagName),
		Pattern: viper.GetString(patternFlagName),
		Exclude: viper.GetStringSlice(excludeFlagName),
		Force:   viper.GetBool(forceFlagName),
	}
}
