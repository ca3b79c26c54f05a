package main

import (
	"net/http"

	"github.com/wilsvd/teiparse/internal/cache"
	"github.com/wilsvd/teiparse/internal/config"
	"github.com/wilsvd/teiparse/internal/grobid"
	"github.com/wilsvd/teiparse/internal/nlp"
	"github.com/wilsvd/teiparse/internal/service"
	"github.com/wilsvd/teiparse/internal/tei"
)

var loadedConfig *config.Config

// mustLoadConfig loads and validates the configuration once per process.
func mustLoadConfig() *config.Config {
	if loadedConfig != nil {
		return loadedConfig
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	loadedConfig = cfg
	return cfg
}

// mustNewParser builds the TEI parser with the default English model.
func mustNewParser() *tei.Parser {
	parser, err := tei.NewParser(nlp.NewProse())
	if err != nil {
		exitWithError(ExitConfigError, "loading language model: %v", err)
	}
	return parser
}

// newGROBIDClient builds a GROBID client from the configuration.
func newGROBIDClient(cfg *config.Config) *grobid.Client {
	return grobid.NewClient(
		grobid.WithBaseURL(cfg.GROBIDURL),
		grobid.WithHTTPClient(&http.Client{Timeout: cfg.GROBIDTimeout}),
		grobid.WithRateLimit(cfg.GROBIDRateLimit),
		grobid.WithConsolidation(cfg.ConsolidateHeader, cfg.ConsolidateCitations),
	)
}

// mustOpenCache opens the TEI cache, or returns nil when none is configured.
func mustOpenCache(cfg *config.Config) *cache.Cache {
	if cfg.CachePath == "" {
		return nil
	}
	c, err := cache.Open(cfg.CachePath)
	if err != nil {
		exitWithError(ExitConfigError, "opening cache %s: %v", cfg.CachePath, err)
	}
	return c
}

// newService wires a service from the configuration. The caller closes the
// cache when it is non-nil.
func newService(cfg *config.Config) *service.Service {
	return &service.Service{
		Parser: mustNewParser(),
		GROBID: newGROBIDClient(cfg),
		Cache:  mustOpenCache(cfg),
	}
}
