// Package orchestrator runs one scaffolding request end to end: resolve the
// language and archetype, provision the environment, then generate files.
package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/poq-labs/poq/internal/archetype"
	"github.com/poq-labs/poq/internal/config"
	"github.com/poq-labs/poq/internal/failure"
	"github.com/poq-labs/poq/internal/language"
	"github.com/poq-labs/poq/internal/scaffold"
)

// Request is a single scaffolding request.
type Request struct {
	Language  string
	Archetype string
	Name      string
	Dir       string // output directory; defaults to ./<Name>
	SkipSetup bool
}

// Options configures an Orchestrator.
type Options struct {
	// Config overrides the provider's built-in configuration document.
	Config *config.Config
	Logger *slog.Logger
}

// Orchestrator drives requests against a language registry.
type Orchestrator struct {
	registry *language.Registry
	config   *config.Config
	logger   *slog.Logger
}

// New creates an Orchestrator.
func New(registry *language.Registry, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{registry: registry, config: opts.Config, logger: logger}
}

// Run resolves the request and scaffolds the project. Environment setup runs
// before generation; when it fails nothing is generated. An unknown language
// is an error while an unknown archetype falls back to base. A configuration
// document written for another language is rejected with E_CONFIG.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*scaffold.Result, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, failure.New(failure.EUsage, "project name is required")
	}

	provider, err := o.registry.Lookup(req.Language)
	if err != nil {
		return nil, err
	}

	a, lookupErr := archetype.Lookup(req.Archetype)
	if lookupErr != nil {
		a = archetype.Base
		o.logger.Warn("unknown archetype, using base", "archetype", req.Archetype)
	}

	cfg := o.config
	if cfg == nil {
		if cfg, err = provider.DefaultConfig(); err != nil {
			return nil, err
		}
	}
	if err := o.checkConfigLanguage(provider, cfg); err != nil {
		return nil, err
	}

	gen, err := provider.BuildGenerator(a)
	if err != nil {
		return nil, err
	}

	project := scaffold.NewProject(req.Name, req.Dir)
	o.logger.Info("scaffolding project",
		"name", project.Name,
		"path", project.Path,
		"language", provider.Name(),
		"archetype", a.String(),
	)

	if req.SkipSetup {
		o.logger.Debug("skipping environment setup")
	} else if err := provider.SetupEnvironment(ctx, project); err != nil {
		return nil, err
	}

	return gen.Generate(ctx, project, cfg)
}

// checkConfigLanguage rejects a configuration document whose general.language
// does not resolve to the requested provider.
func (o *Orchestrator) checkConfigLanguage(provider language.Provider, cfg *config.Config) error {
	p, err := o.registry.Lookup(cfg.General.Language)
	if err != nil || p.Name() != provider.Name() {
		return failure.Newf(failure.EConfig,
			"configuration is for language %q but %s was requested", cfg.General.Language, provider.Name())
	}
	return nil
}
