package refdocs

import "github.com/goliatone/go-refdocs/internal/runtimeconfig"

var (
	ErrDocsDirRequired                = runtimeconfig.ErrDocsDirRequired
	ErrDataDirRequired                = runtimeconfig.ErrDataDirRequired
	ErrGeneratorOutputDirRequired     = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrReviewAgentsInvalid            = runtimeconfig.ErrReviewAgentsInvalid
	ErrReviewTimeoutInvalid           = runtimeconfig.ErrReviewTimeoutInvalid
	ErrEstimatorSizesRequired         = runtimeconfig.ErrEstimatorSizesRequired
	ErrEstimatorIterationsInvalid     = runtimeconfig.ErrEstimatorIterationsInvalid
	ErrCommandsCronRequiresScheduling = runtimeconfig.ErrCommandsCronRequiresScheduling
	ErrCachedReadsRequireEnabledCache = runtimeconfig.ErrCachedReadsRequireEnabledCache
	ErrLoggingProviderRequired        = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown         = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid            = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid           = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	CatalogConfig    = runtimeconfig.CatalogConfig
	AuditConfig      = runtimeconfig.AuditConfig
	ReviewConfig     = runtimeconfig.ReviewConfig
	EstimatorConfig  = runtimeconfig.EstimatorConfig
	GeneratorConfig  = runtimeconfig.GeneratorConfig
	ThemingConfig    = runtimeconfig.ThemingConfig
	CommandsConfig   = runtimeconfig.CommandsConfig
	Features         = runtimeconfig.Features
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
