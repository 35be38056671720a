package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"fwupload/internal/app"
	"fwupload/internal/config"
	"fwupload/internal/domain"
	appErrors "fwupload/internal/errors"
	"fwupload/internal/expand"
	fsinfra "fwupload/internal/infra/fs"
	"fwupload/internal/infra/sink"
	"fwupload/internal/logging"
	"fwupload/internal/presentation"
)

// Version is set via -ldflags.
var Version = "dev"

const longHelp = `fwupload collects the jars of a framework classpath, filters them with
whitelist and blacklist regular expressions, packs the survivors into a flat
gzip-compressed tarball and writes it to a local, HDFS or HTTP destination so
cluster nodes can localize one consistent runtime.

Every option may also be set through FWUPLOAD_<OPTION> environment variables
or a config file. $NAME references in input, whitelist and blacklist are
expanded from the environment.

Examples:
  fwupload -i '$HADOOP_HOME/share/hadoop/common/*:$HADOOP_HOME/share/hadoop/mapreduce/*' \
           --fs hdfs://namenode:8020 -t /apps/mr-framework.tar.gz#mr-framework -r 10
  fwupload -i 'lib/*' -w '.*\.jar' -b '.*-tests\.jar' --dry-run
  fwupload publish build/framework.tar.gz --fs hdfs://namenode:8020 -t /apps/fw.tar.gz`

// cliOptions holds the persistent flags shared by all commands.
type cliOptions struct {
	cfgFile string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	rootCmd := &cobra.Command{
		Use:           "fwupload",
		Short:         "Bundle a framework classpath into a tarball and publish it",
		Long:          longHelp,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (yaml, toml or json)")

	config.BindFlags(rootCmd.Flags())
	rootCmd.AddCommand(newPublishCmd(opts))
	return rootCmd
}

func execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func runUpload(cmd *cobra.Command, opts *cliOptions) error {
	ctx := cmd.Context()

	cfg, err := config.Load(cmd.Flags(), opts.cfgFile)
	if err != nil {
		return userError{appErrors.Wrap(appErrors.ConfigurationError, "config", opts.cfgFile, err)}
	}
	resolved, err := config.Resolve(cfg, expand.Environ())
	if err != nil {
		return userError{err}
	}

	var logOut io.Writer = cmd.ErrOrStderr()
	if cfg.TUI {
		logOut = io.Discard
	}
	logger := logging.New(logOut, cfg.Verbose)
	uploader := newUploader(logger, resolved)
	printer := presentation.Printer{Writer: cmd.OutOrStdout(), Verbose: cfg.Verbose}

	if cfg.DryRun {
		files, err := uploader.Collect(ctx, resolved)
		if err != nil {
			return userError{err}
		}
		printer.PrintDryRun(files, resolved.Target)
		return nil
	}

	if cfg.TUI {
		return runInteractive(ctx, uploader, resolved, cfg)
	}

	report, err := uploader.Run(ctx, resolved)
	if err != nil {
		return userError{err}
	}
	printer.PrintReport(report)
	return nil
}

func newUploader(logger logging.Logger, cfg domain.Configuration) *app.Uploader {
	filesystem := fsinfra.OS()
	return &app.Uploader{
		Collector: &app.Collector{FS: filesystem, Logger: logger},
		Builder:   &app.Builder{FS: filesystem, Logger: logger, CompressionLevel: cfg.CompressionLevel},
		Publisher: &app.Publisher{Sinks: sink.Default(filesystem), Logger: logger},
		Logger:    logger,
	}
}

// userError renders uploader failures as user-facing messages while keeping the cause chain.
type userError struct {
	err error
}

func (e userError) Error() string {
	return appErrors.UserMessage(e.err)
}

func (e userError) Unwrap() error {
	return e.err
}
