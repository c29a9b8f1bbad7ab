package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	m "github.com/synthci/synthci/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "synthci"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "INPUT"

	apiKeyKey               = "api_key"
	appKeyKey               = "app_key"
	datadogSiteKey          = "datadog_site"
	subdomainKey            = "subdomain"
	publicIDsKey            = "public_ids"
	testSearchQueryKey      = "test_search_query"
	filesKey                = "files"
	variablesKey            = "variables"
	locationsKey            = "locations"
	batchTimeoutKey         = "batch_timeout"
	pollingIntervalKey      = "polling_interval"
	failOnCriticalErrorsKey = "fail_on_critical_errors"
	failOnMissingTestsKey   = "fail_on_missing_tests"
	failOnTimeoutKey        = "fail_on_timeout"
	configPathKey           = "config_path"

	defaultDatadogSite          = "datadoghq.com"
	defaultSubdomain            = "app"
	defaultFilesPattern         = "**/*.synthetics.json"
	defaultBatchTimeout         = 30 * time.Minute
	defaultPollingInterval      = 5 * time.Second
	defaultFailOnCriticalErrors = false
	defaultFailOnMissingTests   = false
	defaultFailOnTimeout        = true

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".synthci.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// Environment variables read for the credentials besides the INPUT_ ones.
const (
	datadogAPIKeyEnv = "DATADOG_API_KEY"
	datadogAppKeyEnv = "DATADOG_APP_KEY"
)

// configDefaults returns the default value of every config key. It feeds both
// viper and the init command, which must never write credentials.
func configDefaults() map[string]any {
	return map[string]any{
		configVersionKey:        currentConfigVersion,
		datadogSiteKey:          defaultDatadogSite,
		subdomainKey:            defaultSubdomain,
		publicIDsKey:            []string{},
		testSearchQueryKey:      "",
		filesKey:                []string{defaultFilesPattern},
		variablesKey:            []string{},
		locationsKey:            []string{},
		batchTimeoutKey:         defaultBatchTimeout.String(),
		pollingIntervalKey:      defaultPollingInterval.String(),
		failOnCriticalErrorsKey: defaultFailOnCriticalErrors,
		failOnMissingTestsKey:   defaultFailOnMissingTests,
		failOnTimeoutKey:        defaultFailOnTimeout,

		logFilenameKey:   defaultLogFilename,
		logLevelKey:      defaultLogLevel,
		logVerboseKey:    defaultLogVerbose,
		logMaxSizeKey:    defaultLogMaxSize,
		logMaxBackupsKey: defaultLogMaxBackups,
		logMaxAgeKey:     defaultLogMaxAge,
		logCompressKey:   defaultLogCompress,
	}
}

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	for key, value := range configDefaults() {
		viper.SetDefault(key, value)
	}

	cobra.CheckErr(viper.BindEnv(apiKeyKey, "INPUT_API_KEY", datadogAPIKeyEnv))
	cobra.CheckErr(viper.BindEnv(appKeyKey, "INPUT_APP_KEY", datadogAppKeyEnv))

	// A missing default config file is fine; an explicit config_path is
	// checked when the command starts.
	_ = viper.ReadInConfig()
}

// loadConfigFile reads an explicitly requested config file.
func loadConfigFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	viper.SetConfigFile(path)

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return nil
}

// resolveConfig converts the viper state into a RunConfig and validates it.
func resolveConfig() (m.RunConfig, error) {
	var errs []error

	cfg := m.RunConfig{
		APIKey:               strings.TrimSpace(viper.GetString(apiKeyKey)),
		AppKey:               strings.TrimSpace(viper.GetString(appKeyKey)),
		DatadogSite:          strings.TrimSpace(viper.GetString(datadogSiteKey)),
		Subdomain:            strings.TrimSpace(viper.GetString(subdomainKey)),
		PublicIDs:            configList(publicIDsKey),
		TestSearchQuery:      strings.TrimSpace(viper.GetString(testSearchQueryKey)),
		Files:                configList(filesKey),
		Locations:            configList(locationsKey),
		FailOnCriticalErrors: viper.GetBool(failOnCriticalErrorsKey),
		FailOnMissingTests:   viper.GetBool(failOnMissingTestsKey),
		FailOnTimeout:        viper.GetBool(failOnTimeoutKey),
	}

	if cfg.APIKey == "" {
		errs = append(errs, fmt.Errorf("missing %s (or %s)", apiKeyKey, datadogAPIKeyEnv))
	}

	if cfg.AppKey == "" {
		errs = append(errs, fmt.Errorf("missing %s (or %s)", appKeyKey, datadogAppKeyEnv))
	}

	if cfg.DatadogSite == "" {
		cfg.DatadogSite = defaultDatadogSite
	}

	if cfg.Subdomain == "" {
		cfg.Subdomain = defaultSubdomain
	}

	if len(cfg.Files) == 0 {
		cfg.Files = []string{defaultFilesPattern}
	}

	variables, err := configVariables(variablesKey)
	if err != nil {
		errs = append(errs, err)
	}

	cfg.Variables = variables

	if cfg.BatchTimeout, err = parseDuration(batchTimeoutKey, viper.GetString(batchTimeoutKey)); err != nil {
		errs = append(errs, err)
	}

	if cfg.PollingInterval, err = parseDuration(pollingIntervalKey, viper.GetString(pollingIntervalKey)); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return m.RunConfig{}, err
	}

	return cfg, nil
}

// configList reads a list value. Strings, as set through the environment,
// are split on commas and newlines.
func configList(key string) []string {
	var raw []string
	if s, ok := viper.Get(key).(string); ok {
		raw = []string{s}
	} else {
		raw = viper.GetStringSlice(key)
	}

	return splitList(raw)
}

func splitList(values []string) []string {
	items := []string{}

	for _, value := range values {
		for _, item := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '\n' }) {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}

	return items
}

// configVariables reads variables either as a map or as KEY=value entries.
// viper lowercases map keys, so names from a map are upper-cased back.
func configVariables(key string) (map[string]string, error) {
	if values, ok := viper.Get(key).(map[string]any); ok {
		variables := make(map[string]string, len(values))
		for name, value := range values {
			variables[strings.ToUpper(name)] = fmt.Sprint(value)
		}

		return variables, nil
	}

	return parseVariables(configList(key))
}

func parseVariables(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	variables := make(map[string]string, len(entries))

	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q: expected KEY=value", entry)
		}

		variables[name] = strings.TrimSpace(value)
	}

	return variables, nil
}

// parseDuration accepts Go durations ("90s") or a bare number of milliseconds.
func parseDuration(key, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
		}

		return time.Duration(ms) * time.Millisecond, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
	}

	return d, nil
}

func sortedVariableNames(variables map[string]string) []string {
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose || viper.GetBool(logVerboseKey) {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	slog.SetDefault(slog.New(handler))
}
