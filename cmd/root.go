package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	nr "github.com/jdxcode/noderun/lib"
	"github.com/spf13/cobra"
)

type options struct {
	projectDir  string
	nodeVersion string
	outputDir   string
	nvmDir      string
	lockWait    time.Duration
	dryRun      bool

	// exitCode is the status of the last child process.
	exitCode int
	executor nr.Executor
}

func newRootCmd(o *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "noderun",
		Short: "run npm lifecycle commands through a local nvm",
		Long: `noderun installs, builds, and serves a Node.js project with the nvm
checkout vendored next to it. Vite and Create React App projects are detected
from package.json and built with the matching flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&o.projectDir, "project-dir", "p", ".", "path to the node project")
	flags.StringVar(&o.nodeVersion, "node-version", nr.DefaultNodeVersion, "node version to install and use")
	flags.StringVarP(&o.outputDir, "output-dir", "o", nr.DefaultOutputDir, "output directory for build")
	flags.StringVar(&o.nvmDir, "nvm-dir", "", "nvm checkout (default: nvm/ next to this binary)")
	flags.DurationVar(&o.lockWait, "lock-wait", 0, "how long to wait for another noderun on the same project")
	flags.BoolVar(&o.dryRun, "dry-run", false, "print the script instead of running it")

	rootCmd.AddCommand(
		newInstallCmd(o),
		newBuildCmd(o),
		newStartCmd(o),
		newCreateCmd(o),
		newInfoCmd(o),
	)
	return rootCmd
}

// runner layers .noderun.yaml, NODERUN_* and any flags set on the command
// line, in that order.
func (o *options) runner(cmd *cobra.Command) (*nr.Runner, error) {
	fileCfg, err := nr.ReadProjectConfig(o.projectDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", nr.ProjectConfigFile, err)
	}
	var flagCfg nr.Config
	changed := cmd.Flags().Changed
	if changed("node-version") {
		flagCfg.NodeVersion = o.nodeVersion
	}
	if changed("output-dir") {
		flagCfg.OutputDir = o.outputDir
	}
	if changed("nvm-dir") {
		flagCfg.NvmDir = o.nvmDir
	}
	if changed("lock-wait") {
		flagCfg.LockWait = o.lockWait
	}
	cfg := nr.Config{ProjectDir: o.projectDir}.
		Merge(fileCfg).
		Merge(nr.EnvConfig()).
		Merge(flagCfg)

	var opts []nr.Option
	if o.executor != nil {
		opts = append(opts, nr.WithExecutor(o.executor))
	}
	return nr.New(cfg, opts...)
}

// run executes one command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, executor nr.Executor) int {
	o := &options{executor: executor}
	rootCmd := newRootCmd(o)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		if o.exitCode > 0 {
			return o.exitCode
		}
		return 1
	}
	if o.exitCode < 0 {
		return 1
	}
	return o.exitCode
}

func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, nil))
}
