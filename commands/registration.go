package commands

import (
	"errors"
	"strings"

	cmdcore "github.com/goliatone/go-refdocs/internal/commands"
	auditcmd "github.com/goliatone/go-refdocs/internal/commands/audit"
	catalogcmd "github.com/goliatone/go-refdocs/internal/commands/catalog"
	corpuscmd "github.com/goliatone/go-refdocs/internal/commands/corpus"
	reviewcmd "github.com/goliatone/go-refdocs/internal/commands/review"
	sitecmd "github.com/goliatone/go-refdocs/internal/commands/site"
	"github.com/goliatone/go-refdocs/internal/di"
	"github.com/goliatone/go-refdocs/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// AuditCron overrides the default cron expression applied to the audit run handler.
	AuditCron string
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterContainerCommands builds the command handlers exposed by the provided container and
// optionally registers them with registry/dispatcher/cron integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	cfg := container.Config

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	loggerFor := func(module string) interfaces.Logger {
		return cmdcore.CommandLogger(provider, module)
	}

	// Corpus commands. The corpus service carries no feature flag; validate
	// and count are always available.
	if service := container.CorpusService(); service != nil {
		corpusLogger := loggerFor("corpus")
		register(corpuscmd.NewValidateCorpusHandler(service, corpusLogger))
		register(corpuscmd.NewCountRowsHandler(service, corpusLogger))
	}

	// Catalog commands.
	if service := container.CatalogService(); service != nil && cfg.Features.Catalog {
		gates := catalogcmd.FeatureGates{
			CatalogEnabled: func() bool { return cfg.Features.Catalog },
		}
		register(catalogcmd.NewSyncCatalogHandler(service, loggerFor("catalog"), gates))
	}

	// Audit commands.
	if service := container.AuditService(); service != nil && cfg.Features.Audit {
		runOpts := []auditcmd.RunHandlerOption{}
		if expr := strings.TrimSpace(opts.AuditCron); expr != "" {
			runOpts = append(runOpts, auditcmd.RunWithCronExpression(expr))
		}
		register(auditcmd.NewRunAuditHandler(service, loggerFor("audit"), runOpts...))
	}

	// Review commands.
	if service := container.ReviewService(); service != nil && cfg.Features.Review {
		gates := reviewcmd.FeatureGates{
			ReviewEnabled: func() bool { return cfg.Features.Review },
		}
		reviewLogger := loggerFor("review")
		register(reviewcmd.NewRunReviewHandler(service, reviewLogger, gates))
		register(reviewcmd.NewSweepLocksHandler(service, reviewLogger, gates))
	}

	// Site commands. Registration follows the feature flag; the handlers
	// still refuse to run while the generator service itself is disabled.
	if service := container.GeneratorService(); service != nil && cfg.Features.Generator {
		gates := sitecmd.FeatureGates{
			GeneratorEnabled: func() bool { return cfg.Generator.Enabled },
		}
		siteLogger := loggerFor("site")
		register(sitecmd.NewBuildSiteHandler(service, siteLogger, gates))
		register(sitecmd.NewScaffoldPagesHandler(service, siteLogger, gates))
		register(sitecmd.NewCleanSiteHandler(service, siteLogger, gates))
	}

	if errs != nil && len(result.Handlers) == 0 {
		return result, errs
	}

	if len(result.Handlers) == 0 {
		return result, errors.New("no command handlers registered; ensure services are configured and required features enabled")
	}

	return result, errs
}
