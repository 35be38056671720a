package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"fwupload/internal/domain"
	appErrors "fwupload/internal/errors"
	"fwupload/internal/expand"
)

const (
	EnvPrefix = "FWUPLOAD"

	DefaultFS     = "file:///"
	DefaultTarget = "/usr/lib/mr-framework.tar.gz#mr-framework"
)

type Config struct {
	Input            string
	Whitelist        string
	Blacklist        string
	FS               string
	Target           string
	Replication      int
	Threshold        int
	CompressionLevel int
	NoSymlink        bool
	DryRun           bool
	Verbose          bool
	TUI              bool
}

// BindFlags registers the upload flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP("input", "i", "", "classpath to collect, entries separated by the OS path list separator; dir/* selects a directory's files")
	fs.StringP("whitelist", "w", "", "comma separated regular expressions a file's absolute path must match")
	fs.StringP("blacklist", "b", "", "comma separated regular expressions excluding matching absolute paths")
	BindTargetFlags(fs)
	fs.Int("threshold", 1, "minimum number of files that must be collected")
	fs.Int("compression-level", 0, "gzip level 1-9 (0 keeps the default)")
	fs.Bool("nosymlink", false, "ignore symlinks that point into their own directory")
	fs.BoolP("dry-run", "d", false, "list the collected files without building or publishing")
	fs.Bool("tui", false, "show an interactive progress view")
}

// BindTargetFlags registers the destination flags shared by every command.
func BindTargetFlags(fs *pflag.FlagSet) {
	fs.String("fs", DefaultFS, "base URI of the destination filesystem")
	fs.StringP("target", "t", DefaultTarget, "destination path, joined to --fs unless it carries a scheme; #alias names the link")
	fs.IntP("replication", "r", 0, "replication factor for filesystems that support it (0 keeps the default)")
}

// ResolveDestination validates only the destination part of cfg.
func ResolveDestination(cfg Config) (domain.Target, int, error) {
	target, err := ResolveTarget(cfg.FS, cfg.Target)
	if err != nil {
		return domain.Target{}, 0, appErrors.Wrap(appErrors.ConfigurationError, "config", "", err)
	}
	if cfg.Replication < 0 {
		return domain.Target{}, 0, appErrors.New(appErrors.ConfigurationError, "config", "",
			"replication must not be negative, got %d", cfg.Replication)
	}
	return target, cfg.Replication, nil
}

// Load merges flags, FWUPLOAD_* environment variables and an optional config file.
// Explicitly set flags win, then environment, then file, then flag defaults.
func Load(flags *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, err
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	return Config{
		Input:            v.GetString("input"),
		Whitelist:        v.GetString("whitelist"),
		Blacklist:        v.GetString("blacklist"),
		FS:               v.GetString("fs"),
		Target:           v.GetString("target"),
		Replication:      v.GetInt("replication"),
		Threshold:        v.GetInt("threshold"),
		CompressionLevel: v.GetInt("compression-level"),
		NoSymlink:        v.GetBool("nosymlink"),
		DryRun:           v.GetBool("dry-run"),
		Verbose:          v.GetBool("verbose"),
		TUI:              v.GetBool("tui"),
	}, nil
}

// Resolve expands variables against env and validates cfg into a run configuration.
func Resolve(cfg Config, env map[string]string) (domain.Configuration, error) {
	fail := func(err error) (domain.Configuration, error) {
		return domain.Configuration{}, appErrors.Wrap(appErrors.ConfigurationError, "config", "", err)
	}

	if strings.TrimSpace(cfg.Input) == "" {
		return fail(errors.New("input is required"))
	}
	input, err := expand.Expand(cfg.Input, env)
	if err != nil {
		return fail(err)
	}
	inputs := splitList(input, string(os.PathListSeparator))
	if len(inputs) == 0 {
		return fail(fmt.Errorf("input %q names no paths", cfg.Input))
	}

	whitelist, err := compileList("whitelist", cfg.Whitelist, env)
	if err != nil {
		return fail(err)
	}
	blacklist, err := compileList("blacklist", cfg.Blacklist, env)
	if err != nil {
		return fail(err)
	}

	target, err := ResolveTarget(cfg.FS, cfg.Target)
	if err != nil {
		return fail(err)
	}

	if cfg.Replication < 0 {
		return fail(fmt.Errorf("replication must not be negative, got %d", cfg.Replication))
	}
	if cfg.Threshold < 0 {
		return fail(fmt.Errorf("threshold must not be negative, got %d", cfg.Threshold))
	}
	if cfg.CompressionLevel < 0 || cfg.CompressionLevel > 9 {
		return fail(fmt.Errorf("compression level must be between 1 and 9, got %d", cfg.CompressionLevel))
	}

	return domain.Configuration{
		InputPatterns:       inputs,
		Whitelist:           whitelist,
		Blacklist:           blacklist,
		Target:              target,
		Replication:         cfg.Replication,
		Threshold:           cfg.Threshold,
		SkipSameDirSymlinks: cfg.NoSymlink,
		CompressionLevel:    cfg.CompressionLevel,
	}, nil
}

// ResolveTarget joins target to the base filesystem URI with exactly one
// separator. A target with its own scheme is used as is. A trailing
// #fragment becomes the target alias.
func ResolveTarget(base, target string) (domain.Target, error) {
	ref, alias, _ := strings.Cut(strings.TrimSpace(target), "#")
	if ref == "" {
		return domain.Target{}, errors.New("target is required")
	}

	if u, err := url.Parse(ref); err == nil && len(u.Scheme) > 1 {
		return domain.Target{URI: u, Alias: alias}, nil
	}

	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return domain.Target{}, fmt.Errorf("invalid fs %q: %w", base, err)
	}
	if b.Scheme == "" {
		return domain.Target{}, fmt.Errorf("fs %q must be an absolute URI such as file:/// or hdfs://namenode:8020", base)
	}

	joined := *b
	joined.Path = strings.TrimRight(b.Path, "/") + "/" + strings.TrimLeft(ref, "/")
	joined.RawPath = ""
	joined.RawQuery = ""
	joined.Fragment = ""
	return domain.Target{URI: &joined, Alias: alias}, nil
}

func compileList(name, raw string, env map[string]string) ([]*regexp.Regexp, error) {
	expanded, err := expand.Expand(raw, env)
	if err != nil {
		return nil, err
	}
	items := splitList(expanded, ",")
	patterns := make([]*regexp.Regexp, 0, len(items))
	for _, item := range items {
		re, err := domain.CompileFullMatch(item)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", name, item, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

func splitList(raw, sep string) []string {
	var out []string
	for _, item := range strings.Split(raw, sep) {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
