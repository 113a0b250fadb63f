package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/application"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/ports"
	"github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/alertsmanager"
	redisallocator "github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/allocator/redis"
	"github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db"
	jsonrpcexecutor "github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/executor/jsonrpc"
	timescheduler "github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/scheduler/gocron"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const connectTimeout = 15 * time.Second

var (
	supportedEventDbs = supportedType{
		"inmemory": {},
		"postgres": {},
	}
	supportedDbs = supportedType{
		"badger":   {},
		"sqlite":   {},
		"postgres": {},
	}
	supportedAllocators = supportedType{
		"db":    {},
		"redis": {},
	}
	supportedExecutors = supportedType{
		"none":    {},
		"jsonrpc": {},
	}
)

type Config struct {
	Datadir     string
	Port        uint32
	LogLevel    int
	NoTLS       bool
	TLSCertPath string
	TLSKeyPath  string
	EnableFund  bool

	DbType            string
	EventDbType       string
	DbDir             string
	DbUrl             string
	EventDbUrl        string
	AllocatorType     string
	RedisUrl          string
	RedisNumOfRetries int
	ExecutorType      string
	ExecutorUrl       string

	BaseAssetId   string
	EscrowAddress string
	// AuditInterval in seconds, 0 disables the periodic conservation audit.
	AuditInterval   int64
	AlertManagerUrl string

	OtelCollectorEndpoint string
	// OtelPushInterval in seconds.
	OtelPushInterval int64

	repo      ports.RepoManager
	svc       application.Service
	executor  ports.TxExecutor
	scheduler ports.SchedulerService
	alerts    ports.Alerts
	allocator domain.IndexAllocator
	baseAsset domain.AssetId
	escrow    domain.Address
}

func (c *Config) String() string {
	clone := *c
	if clone.DbUrl != "" {
		clone.DbUrl = "••••••"
	}
	if clone.EventDbUrl != "" {
		clone.EventDbUrl = "••••••"
	}
	if clone.RedisUrl != "" {
		clone.RedisUrl = "••••••"
	}
	json, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(json)
}

var (
	defaultDatadir           = appDataDir("fvmbridged")
	DefaultPort              = 7080
	defaultDbType            = "badger"
	defaultEventDbType       = "inmemory"
	defaultAllocatorType     = "db"
	defaultExecutorType      = "none"
	defaultRedisNumOfRetries = 10
	defaultLogLevel          = 4
	defaultNoTLS             = true
	defaultAuditInterval     = int64(60) // seconds
	defaultOtelPushInterval  = int64(10) // seconds
)

// env returns a list of strings prefixed with `FVMBRIDGE_`.
// This is used as a syntax sugar for defining env vars.
func env(values ...string) []string {
	envs := make([]string, len(values))

	for i, value := range values {
		envs[i] = fmt.Sprintf("FVMBRIDGE_%s", value)
	}

	return envs
}

var (
	Datadir = &cli.StringFlag{
		Usage: "Directory to store data",
		Name:  "datadir", EnvVars: env("DATADIR"),
		Value: defaultDatadir,
	}

	Port = &cli.UintFlag{
		Usage: "Port to listen on",
		Name:  "port", EnvVars: env("PORT"),
		Value: uint(DefaultPort),
	}

	LogLevel = &cli.IntFlag{
		Usage: "Logging level (0-6, where 6 is trace)",
		Name:  "log-level", EnvVars: env("LOG_LEVEL"),
		Value: defaultLogLevel,
	}

	NoTLS = &cli.BoolFlag{
		Usage: "Disable TLS",
		Name:  "no-tls", EnvVars: env("NO_TLS"),
		Value: defaultNoTLS,
	}

	TLSCertPath = &cli.StringFlag{
		Usage: "Path of the TLS certificate, required unless TLS is disabled",
		Name:  "tls-cert", EnvVars: env("TLS_CERT"),
	}

	TLSKeyPath = &cli.StringFlag{
		Usage: "Path of the TLS private key, required unless TLS is disabled",
		Name:  "tls-key", EnvVars: env("TLS_KEY"),
	}

	DbType = &cli.StringFlag{
		Usage: "Database type (postgres, sqlite, badger)",
		Name:  "db-type", EnvVars: env("DB_TYPE"),
		Value: defaultDbType,
	}

	DbUrl = &cli.StringFlag{
		Usage: "Postgres connection url if FVMBRIDGE_DB_TYPE is set to postgres",
		Name:  "pg-db-url", EnvVars: env("PG_DB_URL"),
	}

	EventDbType = &cli.StringFlag{
		Usage: "Event database type (inmemory, postgres)",
		Name:  "event-db-type", EnvVars: env("EVENT_DB_TYPE"),
		Value: defaultEventDbType,
	}

	EventDbUrl = &cli.StringFlag{
		Usage: "Postgres connection url if FVMBRIDGE_EVENT_DB_TYPE is set to postgres",
		Name:  "pg-event-db-url", EnvVars: env("PG_EVENT_DB_URL"),
	}

	AllocatorType = &cli.StringFlag{
		Usage: "Coin id allocator type (db, redis)",
		Name:  "allocator-type", EnvVars: env("ALLOCATOR_TYPE"),
		Value: defaultAllocatorType,
	}

	RedisUrl = &cli.StringFlag{
		Usage: "Redis db url if FVMBRIDGE_ALLOCATOR_TYPE is set to redis",
		Name:  "redis-url", EnvVars: env("REDIS_URL"),
	}

	RedisNumOfRetries = &cli.IntFlag{
		Usage: "Maximum number of retries for redis commands",
		Name:  "redis-num-of-retries", EnvVars: env("REDIS_NUM_OF_RETRIES"),
		Value: defaultRedisNumOfRetries,
	}

	ExecutorType = &cli.StringFlag{
		Usage: "Execution engine type (none, jsonrpc)",
		Name:  "executor-type", EnvVars: env("EXECUTOR_TYPE"),
		Value: defaultExecutorType,
	}

	ExecutorUrl = &cli.StringFlag{
		Usage: "Execution engine url if FVMBRIDGE_EXECUTOR_TYPE is set to jsonrpc",
		Name:  "executor-url", EnvVars: env("EXECUTOR_URL"),
	}

	BaseAssetId = &cli.StringFlag{
		Usage: "Asset id of the coins minted by the bridge",
		Name:  "base-asset-id", EnvVars: env("BASE_ASSET_ID"),
		Value: domain.FuelTestnetBaseAssetId,
	}

	EscrowAddress = &cli.StringFlag{
		Usage:   "Account holding the value locked by deposits, required",
		Name:    "escrow-address",
		EnvVars: env("ESCROW_ADDRESS"),
	}

	AuditInterval = &cli.Int64Flag{
		Usage:       "Interval in seconds between conservation audits",
		Name:        "audit-interval",
		EnvVars:     env("AUDIT_INTERVAL"),
		Value:       defaultAuditInterval,
		DefaultText: fmt.Sprintf("%d (0 disabled)", defaultAuditInterval),
	}

	EnableFund = &cli.BoolFlag{
		Usage: "Expose the Fund rpc crediting account balances, for development only",
		Name:  "enable-fund", EnvVars: env("ENABLE_FUND"),
	}

	AlertManagerUrl = &cli.StringFlag{
		Usage: "AlertManager endpoint notified when a conservation audit fails",
		Name:  "alertmanager-url", EnvVars: env("ALERTMANAGER_URL"),
	}

	OtelCollectorEndpoint = &cli.StringFlag{
		Usage: "OpenTelemetry collector endpoint, traces and metrics are exported only if set",
		Name:  "otel-collector-endpoint", EnvVars: env("OTEL_COLLECTOR_ENDPOINT"),
	}

	OtelPushInterval = &cli.Int64Flag{
		Usage: "Interval in seconds between metric pushes to the collector",
		Name:  "otel-push-interval", EnvVars: env("OTEL_PUSH_INTERVAL"),
		Value: defaultOtelPushInterval,
	}
)

var Flags = []cli.Flag{
	Datadir,
	Port,
	LogLevel,
	NoTLS,
	TLSCertPath,
	TLSKeyPath,
	EnableFund,
	DbType,
	DbUrl,
	EventDbType,
	EventDbUrl,
	AllocatorType,
	RedisUrl,
	RedisNumOfRetries,
	ExecutorType,
	ExecutorUrl,
	BaseAssetId,
	EscrowAddress,
	AuditInterval,
	AlertManagerUrl,
	OtelCollectorEndpoint,
	OtelPushInterval,
}

func LoadConfig(c *cli.Context) (*Config, error) {
	if err := initDatadir(c); err != nil {
		return nil, fmt.Errorf("failed to create datadir: %s", err)
	}

	dbPath := filepath.Join(c.String(Datadir.Name), "db")

	var eventDbUrl string
	if c.String(EventDbType.Name) == "postgres" {
		eventDbUrl = c.String(EventDbUrl.Name)
		if eventDbUrl == "" {
			return nil, fmt.Errorf("event db type set to 'postgres' but event db url is missing")
		}
	}

	var dbUrl string
	if c.String(DbType.Name) == "postgres" {
		dbUrl = c.String(DbUrl.Name)
		if dbUrl == "" {
			return nil, fmt.Errorf("db type set to 'postgres' but db url is missing")
		}
	}

	var redisUrl string
	if c.String(AllocatorType.Name) == "redis" {
		redisUrl = c.String(RedisUrl.Name)
		if redisUrl == "" {
			return nil, fmt.Errorf("allocator type set to 'redis' but redis url is missing")
		}
	}

	var executorUrl string
	if c.String(ExecutorType.Name) == "jsonrpc" {
		executorUrl = c.String(ExecutorUrl.Name)
		if executorUrl == "" {
			return nil, fmt.Errorf("executor type set to 'jsonrpc' but executor url is missing")
		}
	}

	return &Config{
		Datadir:           c.String(Datadir.Name),
		Port:              uint32(c.Uint(Port.Name)),
		LogLevel:          c.Int(LogLevel.Name),
		NoTLS:             c.Bool(NoTLS.Name),
		TLSCertPath:       c.String(TLSCertPath.Name),
		TLSKeyPath:        c.String(TLSKeyPath.Name),
		EnableFund:        c.Bool(EnableFund.Name),
		DbType:            c.String(DbType.Name),
		EventDbType:       c.String(EventDbType.Name),
		DbDir:             dbPath,
		DbUrl:             dbUrl,
		EventDbUrl:        eventDbUrl,
		AllocatorType:     c.String(AllocatorType.Name),
		RedisUrl:          redisUrl,
		RedisNumOfRetries: c.Int(RedisNumOfRetries.Name),
		ExecutorType:      c.String(ExecutorType.Name),
		ExecutorUrl:       executorUrl,
		BaseAssetId:       c.String(BaseAssetId.Name),
		EscrowAddress:     c.String(EscrowAddress.Name),
		AuditInterval:     c.Int64(AuditInterval.Name),
		AlertManagerUrl:   c.String(AlertManagerUrl.Name),

		OtelCollectorEndpoint: c.String(OtelCollectorEndpoint.Name),
		OtelPushInterval:      c.Int64(OtelPushInterval.Name),
	}, nil
}

func initDatadir(c *cli.Context) error {
	datadir := c.String(Datadir.Name)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0o755)
	}
	return nil
}

// appDataDir returns the default data directory of the given app, a dot directory in the home
// of the user.
func appDataDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// Validate checks the config and initializes the services in the order the app service needs
// them.
func (c *Config) Validate() error {
	if !supportedEventDbs.supports(c.EventDbType) {
		return fmt.Errorf(
			"event db type not supported, please select one of: %s",
			supportedEventDbs,
		)
	}
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if !supportedAllocators.supports(c.AllocatorType) {
		return fmt.Errorf(
			"allocator type not supported, please select one of: %s",
			supportedAllocators,
		)
	}
	if !supportedExecutors.supports(c.ExecutorType) {
		return fmt.Errorf(
			"executor type not supported, please select one of: %s",
			supportedExecutors,
		)
	}
	if !c.NoTLS && (c.TLSCertPath == "" || c.TLSKeyPath == "") {
		return fmt.Errorf("tls cert and key paths are required unless tls is disabled")
	}
	if c.AuditInterval < 0 {
		return fmt.Errorf("invalid audit interval, must be greater than or equal to 0")
	}

	baseAsset, err := domain.AssetIdFromString(c.BaseAssetId)
	if err != nil {
		return fmt.Errorf("invalid base asset id: %s", err)
	}
	escrow, err := domain.AddressFromString(c.EscrowAddress)
	if err != nil {
		return fmt.Errorf("invalid escrow address: %s", err)
	}
	if escrow == (domain.Address{}) {
		return fmt.Errorf("invalid escrow address: must not be the zero address")
	}
	c.baseAsset = baseAsset
	c.escrow = escrow

	if err := c.allocatorService(); err != nil {
		return err
	}
	if err := c.repoManager(); err != nil {
		return err
	}
	if err := c.executorService(); err != nil {
		return err
	}
	if err := c.schedulerService(); err != nil {
		return err
	}
	c.alertsService()
	if err := c.appService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) AppService() (application.Service, error) {
	if c.svc == nil {
		if err := c.appService(); err != nil {
			return nil, err
		}
	}
	return c.svc, nil
}

func (c *Config) RepoManager() ports.RepoManager {
	return c.repo
}

func (c *Config) allocatorService() error {
	if c.AllocatorType != "redis" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	allocator, err := redisallocator.NewIndexAllocatorFromURL(ctx, c.RedisUrl, c.RedisNumOfRetries)
	if err != nil {
		return err
	}
	c.allocator = allocator
	return nil
}

func (c *Config) repoManager() error {
	var svc ports.RepoManager
	var err error
	var eventStoreConfig []interface{}
	var dataStoreConfig []interface{}
	logger := log.New()

	switch c.EventDbType {
	case "inmemory":
	case "postgres":
		eventStoreConfig = []interface{}{c.EventDbUrl, true}
	default:
		return fmt.Errorf("unknown event db type")
	}

	switch c.DbType {
	case "badger":
		dataStoreConfig = []interface{}{c.DbDir, logger}
	case "sqlite":
		dataStoreConfig = []interface{}{c.DbDir}
	case "postgres":
		dataStoreConfig = []interface{}{c.DbUrl, true}
	default:
		return fmt.Errorf("unknown db type")
	}

	svc, err = db.NewService(db.ServiceConfig{
		EventStoreType:   c.EventDbType,
		DataStoreType:    c.DbType,
		EventStoreConfig: eventStoreConfig,
		DataStoreConfig:  dataStoreConfig,
		Allocator:        c.allocator,
	})
	if err != nil {
		return err
	}

	c.repo = svc
	return nil
}

func (c *Config) executorService() error {
	switch c.ExecutorType {
	case "none":
		log.Warn("no execution engine configured, dry run and exec calls will abort")
		return nil
	case "jsonrpc":
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		executor, err := jsonrpcexecutor.NewExecutor(ctx, c.ExecutorUrl)
		if err != nil {
			return err
		}
		c.executor = executor
		return nil
	default:
		return fmt.Errorf("unknown executor type")
	}
}

func (c *Config) schedulerService() error {
	if c.AuditInterval <= 0 {
		return nil
	}
	c.scheduler = timescheduler.NewScheduler()
	return nil
}

func (c *Config) alertsService() {
	if c.AlertManagerUrl == "" {
		return
	}
	c.alerts = alertsmanager.NewService(c.AlertManagerUrl)
}

func (c *Config) appService() error {
	if c.repo == nil {
		return fmt.Errorf("repo manager not set")
	}

	svc, err := application.NewService(
		c.repo, c.executor, c.scheduler, c.alerts, c.baseAsset, c.escrow,
		time.Duration(c.AuditInterval)*time.Second,
	)
	if err != nil {
		return err
	}

	c.svc = svc
	return nil
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}
