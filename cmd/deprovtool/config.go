package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"deprovtool/internal/common/logger"
	"deprovtool/internal/common/validation"
	"deprovtool/internal/deprov"
)

// Config holds all deprovtool configuration.
type Config struct {
	// Account
	Identity string
	Ticket   string

	// Spreadsheet exports, all optional
	Directory       string
	SharedMailboxes string
	GroupMembers    string
	Mailboxes       string
	GroupOwners     string

	// Checklist
	SchemaFile string
	PSTPath    string
	OutputDir  string

	// Runtime configuration
	VerboseMode bool
	LogLevel    string
	LogFormat   string
	LogDir      string
	EnvFile     string
}

// Action constants
const (
	ActionGenerate = "generate"
)

// envPrefix is prepended to the upper-cased flag name, without dashes.
const envPrefix = "DEPROV"

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		PSTPath:   deprov.DefaultPSTPath,
		LogLevel:  "INFO",
		LogFormat: string(logger.FormatCSV),
		EnvFile:   ".env",
	}
}

// stringFlag binds one string flag to its Config field.
type stringFlag struct {
	name   string
	target *string
	usage  string
}

func (c *Config) stringFlags() []stringFlag {
	return []stringFlag{
		{"upn", &c.Identity, "User principal name of the account to deprovision (required)"},
		{"ticket", &c.Ticket, "Ticket reference shown in the title"},
		{"directory", &c.Directory, "Directory export (.xlsx or .csv)"},
		{"shared-mailboxes", &c.SharedMailboxes, "Shared-mailbox membership export"},
		{"group-members", &c.GroupMembers, "Group membership export"},
		{"mailboxes", &c.Mailboxes, "Mailbox inventory export"},
		{"group-owners", &c.GroupOwners, "Group ownership export"},
		{"schema", &c.SchemaFile, "YAML file with extra column-header synonyms"},
		{"pst-path", &c.PSTPath, "PST archive path template, {upn} is replaced by the account"},
		{"output", &c.OutputDir, "Directory for the text export (empty = no file)"},
		{"loglevel", &c.LogLevel, "Logging level: DEBUG, INFO, WARN, ERROR"},
		{"logformat", &c.LogFormat, "Audit log format: csv, json"},
		{"logdir", &c.LogDir, "Audit log directory (default: system temp directory)"},
	}
}

// envName maps a flag name to its environment variable, e.g.
// shared-mailboxes -> DEPROVSHAREDMAILBOXES.
func envName(flagName string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", ""))
}

// bindFlags registers every generate flag on fs.
func (c *Config) bindFlags(fs *pflag.FlagSet) {
	for _, f := range c.stringFlags() {
		fs.StringVar(f.target, f.name, *f.target, fmt.Sprintf("%s (env: %s)", f.usage, envName(f.name)))
	}
	fs.BoolVarP(&c.VerboseMode, "verbose", "v", c.VerboseMode, "Enable verbose output (env: "+envName("verbose")+")")
	fs.StringVar(&c.EnvFile, "envfile", c.EnvFile, "Dotenv file loaded before reading environment variables")
}

// resolve loads the dotenv file, fills unset flags from the environment and
// validates the result.
func (c *Config) resolve(fs *pflag.FlagSet, getenv func(string) string) error {
	if err := loadEnvFile(c.EnvFile, fs.Changed("envfile")); err != nil {
		return err
	}
	if err := applyEnvironmentVariables(c, fs, getenv); err != nil {
		return err
	}
	return validateConfiguration(c)
}

// loadEnvFile loads path into the process environment without overriding
// variables already set. A missing default file is not an error.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("cannot read env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentVariables fills every flag the user did not pass from its
// environment variable. Flags given on the command line always win.
func applyEnvironmentVariables(c *Config, fs *pflag.FlagSet, getenv func(string) string) error {
	for _, f := range c.stringFlags() {
		if fs.Changed(f.name) {
			continue
		}
		if v := getenv(envName(f.name)); v != "" {
			*f.target = v
		}
	}
	if !fs.Changed("verbose") {
		if v := getenv(envName("verbose")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %q (expected true or false)", envName("verbose"), v)
			}
			c.VerboseMode = b
		}
	}
	return nil
}

var validLogLevels = []string{"DEBUG", "INFO", "WARN", "WARNING", "ERROR"}

// validateConfiguration validates the configuration. Input files are not
// checked here: an unreadable export is reported and skipped, never fatal.
func validateConfiguration(c *Config) error {
	c.Identity = strings.TrimSpace(c.Identity)
	if c.Identity == "" {
		return fmt.Errorf("%w (--upn flag or %s)", deprov.ErrMissingIdentity, envName("upn"))
	}

	level := strings.ToUpper(strings.TrimSpace(c.LogLevel))
	valid := false
	for _, l := range validLogLevels {
		if level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log level: %s (must be one of: DEBUG, INFO, WARN, ERROR)", c.LogLevel)
	}

	if _, err := logger.ParseLogFormat(c.LogFormat); err != nil {
		return err
	}
	if err := validation.ValidateFilePath(c.SchemaFile, "schema"); err != nil {
		return err
	}
	if err := validation.ValidateOutputDir(c.OutputDir); err != nil {
		return err
	}
	if c.PSTPath == "" {
		c.PSTPath = deprov.DefaultPSTPath
	}
	if err := validation.ValidatePSTTemplate(c.PSTPath); err != nil {
		return err
	}
	return nil
}
