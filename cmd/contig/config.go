package main

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/contig/memutils/metadata"
	"golang.org/x/exp/slog"
	"gopkg.in/ini.v1"
)

const defaultSpaceSize = 1024 * 1024

type config struct {
	Size         int
	Strategy     metadata.PlacementStrategy
	MarkSegments bool
	LogLevel     slog.Level
}

func defaultConfig() config {
	return config{
		Size:         defaultSpaceSize,
		Strategy:     metadata.PlacementStrategyFirstFit,
		MarkSegments: true,
		LogLevel:     slog.LevelWarn,
	}
}

// loadConfig reads an ini file with [allocator] and [log] sections. Keys that are absent keep their
// defaults. An empty path yields the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to load config %s", path)
	}

	err = cfg.parseAllocatorCfg(file.Section("allocator"))
	if err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}

	err = cfg.parseLogCfg(file.Section("log"))
	if err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}

	return cfg, nil
}

func (cfg *config) parseAllocatorCfg(section *ini.Section) error {
	if section.HasKey("size") {
		size, err := parseSize(section.Key("size").String())
		if err != nil {
			return errors.Wrap(err, "[allocator] size")
		}
		cfg.Size = size
	}

	if section.HasKey("strategy") {
		strategy, err := parseStrategyTag(section.Key("strategy").String())
		if err != nil {
			return errors.Wrap(err, "[allocator] strategy")
		}
		cfg.Strategy = strategy
	}

	cfg.MarkSegments = section.Key("mark_segments").MustBool(cfg.MarkSegments)
	return nil
}

func (cfg *config) parseLogCfg(section *ini.Section) error {
	if !section.HasKey("level") {
		return nil
	}

	err := cfg.LogLevel.UnmarshalText([]byte(section.Key("level").String()))
	if err != nil {
		return errors.Wrap(err, "[log] level")
	}
	return nil
}

// applyFlags overrides file values with any command-line flags that were provided
func (cfg *config) applyFlags(size, strategy string) error {
	if size != "" {
		parsed, err := parseSize(size)
		if err != nil {
			return errors.Wrap(err, "--size")
		}
		cfg.Size = parsed
	}

	if strategy != "" {
		parsed, err := parseStrategyTag(strategy)
		if err != nil {
			return errors.Wrap(err, "--strategy")
		}
		cfg.Strategy = parsed
	}

	return nil
}

func parseStrategyTag(tag string) (metadata.PlacementStrategy, error) {
	strategy := metadata.ParseStrategy(tag)
	if strategy == metadata.PlacementStrategyUnknown {
		return strategy, errors.Newf("unknown placement strategy %q", tag)
	}
	return strategy, nil
}
