package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/powerbi/internal/auth"
	"github.com/fivetwenty-io/powerbi/internal/constants"
	"github.com/fivetwenty-io/powerbi/pkg/pbiclient"
	"github.com/fivetwenty-io/powerbi/pkg/powerbi"
)

const (
	configDirName       = ".powerbi"
	configFileName      = "config.yml"
	credentialsFileName = "credentials.json"
)

// Config represents the CLI configuration.
type Config struct {
	// App registration
	ClientID     string   `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string   `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	RedirectURI  string   `json:"redirect_uri,omitempty"  yaml:"redirect_uri,omitempty"`
	AccountType  string   `json:"account_type,omitempty"  yaml:"account_type,omitempty"`
	Scopes       []string `json:"scopes,omitempty"        yaml:"scopes,omitempty"`

	// Endpoints
	APIEndpoint  string `json:"api_endpoint,omitempty"  yaml:"api_endpoint,omitempty"`
	APIVersion   string `json:"api_version,omitempty"   yaml:"api_version,omitempty"`
	AuthorityURL string `json:"authority_url,omitempty" yaml:"authority_url,omitempty"`

	CredentialsPath string `json:"credentials_path,omitempty" yaml:"credentials_path,omitempty"`

	// Transport
	RetryMax          int     `json:"retry_max,omitempty"           yaml:"retry_max,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`

	// Request events
	NATSURL     string `json:"nats_url,omitempty"     yaml:"nats_url,omitempty"`
	NATSSubject string `json:"nats_subject,omitempty" yaml:"nats_subject,omitempty"`

	// Global settings
	Output  string `json:"output"  yaml:"output"`
	Verbose bool   `json:"verbose" yaml:"verbose,omitempty"`

	// AccessToken comes from --token or POWERBI_ACCESS_TOKEN and is never saved.
	AccessToken string `json:"-" yaml:"-"`
}

// configSetters maps every settable key to its parser.
var configSetters = map[string]func(*Config, string) error{
	"client_id":           func(c *Config, v string) error { c.ClientID = v; return nil },
	"client_secret":       func(c *Config, v string) error { c.ClientSecret = v; return nil },
	"redirect_uri":        func(c *Config, v string) error { c.RedirectURI = v; return nil },
	"account_type":        func(c *Config, v string) error { c.AccountType = v; return nil },
	"api_endpoint":        func(c *Config, v string) error { c.APIEndpoint = v; return nil },
	"api_version":         func(c *Config, v string) error { c.APIVersion = v; return nil },
	"authority_url":       func(c *Config, v string) error { c.AuthorityURL = v; return nil },
	"credentials_path":    func(c *Config, v string) error { c.CredentialsPath = v; return nil },
	"nats_url":            func(c *Config, v string) error { c.NATSURL = v; return nil },
	"nats_subject":        func(c *Config, v string) error { c.NATSSubject = v; return nil },
	"scopes":              func(c *Config, v string) error { c.Scopes = splitList(v); return nil },
	"output":              setOutput,
	"retry_max":           setRetryMax,
	"requests_per_second": setRequestsPerSecond,
}

func setOutput(config *Config, value string) error {
	err := validateOutput(value)
	if err != nil && value != "" {
		return err
	}

	config.Output = value

	return nil
}

func setRetryMax(config *Config, value string) error {
	if value == "" {
		config.RetryMax = 0

		return nil
	}

	retries, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parsing retry_max: %w", err)
	}

	config.RetryMax = retries

	return nil
}

func setRequestsPerSecond(config *Config, value string) error {
	rate, err := parseOptionalFloat(value)
	if err != nil {
		return fmt.Errorf("parsing requests_per_second: %w", err)
	}

	config.RequestsPerSecond = rate

	return nil
}

func parseOptionalFloat(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", value, err)
	}

	return parsed, nil
}

func splitList(value string) []string {
	var items []string

	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the app registration, endpoints and output settings of the CLI",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration; secrets are masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskSecrets(loadConfig())

			switch outputFormat() {
			case constants.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), config)
			case constants.FormatYAML:
				return renderYAML(cmd.OutOrStdout(), config)
			default:
				return displayConfigTable(cmd.OutOrStdout(), config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and save it to the config file. Lists such as scopes are comma separated.",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd.OutOrStdout(), args[0], args[1], "Set")
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd.OutOrStdout(), args[0], "", "Unset")
		},
	}
}

func updateConfig(out io.Writer, key, value, verb string) error {
	setter, ok := configSetters[key]
	if !ok {
		return fmt.Errorf("%w: %s (valid keys: %s)", constants.ErrUnknownConfigKey, key, strings.Join(configKeys(), ", "))
	}

	config := loadConfig()

	err := setter(config, value)
	if err != nil {
		return err
	}

	err = saveConfigStruct(config)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s %s\n", verb, key)

	return nil
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for key := range configSetters {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func loadConfig() *Config {
	return &Config{
		ClientID:          viper.GetString("client_id"),
		ClientSecret:      viper.GetString("client_secret"),
		RedirectURI:       viper.GetString("redirect_uri"),
		AccountType:       viper.GetString("account_type"),
		Scopes:            viper.GetStringSlice("scopes"),
		APIEndpoint:       viper.GetString("api_endpoint"),
		APIVersion:        viper.GetString("api_version"),
		AuthorityURL:      viper.GetString("authority_url"),
		CredentialsPath:   viper.GetString("credentials_path"),
		RetryMax:          viper.GetInt("retry_max"),
		RequestsPerSecond: viper.GetFloat64("requests_per_second"),
		NATSURL:           viper.GetString("nats_url"),
		NATSSubject:       viper.GetString("nats_subject"),
		Output:            viper.GetString("output"),
		Verbose:           viper.GetBool("verbose"),
		AccessToken:       viper.GetString("access_token"),
	}
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, configDirName, configFileName), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// credentialsPath returns the configured credentials file, defaulting to
// $HOME/.powerbi/credentials.json.
func credentialsPath(config *Config) (string, error) {
	if config.CredentialsPath != "" {
		return config.CredentialsPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, configDirName, credentialsFileName), nil
}

func maskSecrets(config *Config) *Config {
	masked := *config
	if masked.ClientSecret != "" {
		masked.ClientSecret = constants.MaskedSecret
	}

	return &masked
}

func displayConfigTable(out io.Writer, config *Config) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	_ = table.Append("Client ID", valueOrNotAvailable(config.ClientID))
	_ = table.Append("Client Secret", valueOrNotAvailable(config.ClientSecret))
	_ = table.Append("Redirect URI", valueOrNotAvailable(config.RedirectURI))
	_ = table.Append("Account Type", valueOrDefault(config.AccountType, constants.DefaultAccountType))
	_ = table.Append("Scopes", valueOrDefault(strings.Join(config.Scopes, ", "), constants.DefaultScope))
	_ = table.Append("API Endpoint", valueOrDefault(config.APIEndpoint, constants.DefaultAPIEndpoint))
	_ = table.Append("API Version", valueOrDefault(config.APIVersion, constants.DefaultAPIVersion))
	_ = table.Append("Authority URL", valueOrDefault(config.AuthorityURL, constants.DefaultAuthorityURL))

	path, err := credentialsPath(config)
	if err != nil {
		path = constants.NotAvailable
	}

	_ = table.Append("Credentials Path", path)
	_ = table.Append("Retry Max", strconv.Itoa(config.RetryMax))
	_ = table.Append("Requests Per Second", strconv.FormatFloat(config.RequestsPerSecond, 'f', -1, 64))
	_ = table.Append("NATS URL", valueOrNotAvailable(config.NATSURL))
	_ = table.Append("Output", valueOrDefault(config.Output, constants.FormatTable))

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func valueOrNotAvailable(value string) string {
	return valueOrDefault(value, constants.NotAvailable)
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

// newLogger writes structured logs to stderr; debug level when verbose.
func newLogger(verbose bool) powerbi.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	return powerbi.NewZerologLogger(logger)
}

// buildClientConfig translates the CLI configuration into a library config.
func buildClientConfig(config *Config) (*powerbi.Config, error) {
	path, err := credentialsPath(config)
	if err != nil {
		return nil, err
	}

	return &powerbi.Config{
		ClientID:          config.ClientID,
		ClientSecret:      config.ClientSecret,
		RedirectURI:       config.RedirectURI,
		CredentialsPath:   path,
		Scopes:            config.Scopes,
		AccountType:       config.AccountType,
		AuthorityURL:      config.AuthorityURL,
		APIEndpoint:       config.APIEndpoint,
		APIVersion:        config.APIVersion,
		RetryMax:          config.RetryMax,
		RequestsPerSecond: config.RequestsPerSecond,
		Debug:             config.Verbose,
		Logger:            newLogger(config.Verbose),
	}, nil
}

// createClient builds an API client from the configuration. With an access
// token configured the stored credentials are not touched; otherwise the
// stored credentials are used and refreshed, but never the interactive flow.
// The returned function releases the event publisher connection, if any.
func createClient(ctx context.Context) (powerbi.Client, func(), error) {
	config := loadConfig()

	clientConfig, err := buildClientConfig(config)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}

	if config.NATSURL != "" {
		publisher, conn, err := powerbi.ConnectNATSEventPublisher(config.NATSURL, config.NATSSubject)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set up request events: %w", err)
		}

		clientConfig.EventPublisher = publisher

		cleanup = func() {
			_ = conn.Drain()
		}
	}

	client, err := newAPIClient(ctx, config, clientConfig)
	if err != nil {
		cleanup()

		return nil, nil, err
	}

	return client, cleanup, nil
}

func newAPIClient(ctx context.Context, config *Config, clientConfig *powerbi.Config) (powerbi.Client, error) {
	if config.AccessToken != "" {
		client, err := pbiclient.NewWithToken(clientConfig, config.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}

		return client, nil
	}

	if config.ClientID == "" {
		return nil, constants.ErrClientIDRequired
	}

	_, err := os.Stat(clientConfig.CredentialsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, constants.ErrNotLoggedIn
	}

	client, err := pbiclient.New(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// createAuthenticator builds an authenticator over the configured credential
// file for the login and token commands.
func createAuthenticator(config *Config, prompter powerbi.Prompter) (*auth.Authenticator, *auth.FileStore, error) {
	if config.ClientID == "" {
		return nil, nil, constants.ErrClientIDRequired
	}

	clientConfig, err := buildClientConfig(config)
	if err != nil {
		return nil, nil, err
	}

	clientConfig.Prompter = prompter

	store := auth.NewFileStore(clientConfig.CredentialsPath)

	err = store.Init()
	if err != nil {
		return nil, nil, fmt.Errorf("initializing credential store: %w", err)
	}

	return pbiclient.NewAuthenticator(clientConfig, store), store, nil
}
