package main

import (
	"github.com/spf13/cobra"

	"fwupload/internal/app"
	"fwupload/internal/config"
	appErrors "fwupload/internal/errors"
	fsinfra "fwupload/internal/infra/fs"
	"fwupload/internal/infra/sink"
	"fwupload/internal/logging"
	"fwupload/internal/presentation"
)

func newPublishCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <archive>",
		Short: "Publish an already built archive to the target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, opts, args[0])
		},
	}
	config.BindTargetFlags(cmd.Flags())
	return cmd
}

func runPublish(cmd *cobra.Command, opts *cliOptions, path string) error {
	cfg, err := config.Load(cmd.Flags(), opts.cfgFile)
	if err != nil {
		return userError{appErrors.Wrap(appErrors.ConfigurationError, "config", opts.cfgFile, err)}
	}
	target, replication, err := config.ResolveDestination(cfg)
	if err != nil {
		return userError{err}
	}

	filesystem := fsinfra.OS()
	archive, err := filesystem.Open(path)
	if err != nil {
		return userError{appErrors.Wrap(appErrors.CollectionError, "open", path, err)}
	}
	defer archive.Close()

	publisher := app.Publisher{
		Sinks:  sink.Default(filesystem),
		Logger: logging.New(cmd.ErrOrStderr(), cfg.Verbose),
	}
	n, err := publisher.Publish(cmd.Context(), archive, target, replication)
	if err != nil {
		return userError{err}
	}

	presentation.Printer{Writer: cmd.OutOrStdout(), Verbose: cfg.Verbose}.PrintPublished(target, n)
	return nil
}
