// =============================================================================
// Sales Sync - Configuration Module
// =============================================================================
//
// This module loads the main YAML configuration. It tells the pipeline where
// each distributor extract lives, which lookup tables to use when normalizing
// rows, where reports go and how much work may run in parallel.
//
// CONFIGURATION SOURCES:
//   1. Main Config (config.yaml): paths, lookup tables, report settings
//   2. Environment (.env / process env): database credentials, see database.go
//
// LOADING ORDER:
//   read file -> yaml.Unmarshal -> apply defaults -> struct validation
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/salesync/internal/types"
)

// OutletDetailKey is the files entry holding the APL outlet-detail companion.
const OutletDetailKey = "apl_outlet"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// HomeDir is the staging directory the file-retrieval step downloads
	// extracts into. Relative entries in Files are resolved against it.
	// Default: "."
	HomeDir string `yaml:"home_dir"`

	// ReportsDir is where report artifacts and run summaries are written.
	// Relative paths are resolved against HomeDir.
	// Default: "report"
	ReportsDir string `yaml:"reports_dir"`

	// Files maps a lowercase distributor name (apl, ppg, tsj) or a companion
	// key (apl_outlet) to its staged file path.
	Files map[string]string `yaml:"files" validate:"required,min=1"`

	// =========================================================================
	// LOOKUP TABLES
	// =========================================================================

	// CityAbbreviations maps a lowercase city token to the site abbreviation
	// appended to the APL distributor code (bandung -> BDG).
	CityAbbreviations map[string]string `yaml:"city_abbreviations"`

	// OutletTypes maps the customer group code to an outlet classification.
	OutletTypes map[string]string `yaml:"outlet_types"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	// ReportFormat selects the artifact format.
	// Valid values: "csv", "xlsx"
	// Default: "csv"
	ReportFormat string `yaml:"report_format" validate:"oneof=csv xlsx"`

	// ReportNameFormat and UnmatchedNameFormat are file name patterns, see
	// utils.GenerateOutputFileName for the placeholders.
	ReportNameFormat    string `yaml:"report_name_format"`
	UnmatchedNameFormat string `yaml:"unmatched_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency bounds how many distributor sources are ingested at once.
	// Set to 1 for sequential processing.
	// Default: 3
	MaxConcurrency int `yaml:"max_concurrency" validate:"gte=1"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile, when set, receives a copy of every log line.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// =========================================================================
	// LEDGER SETTINGS
	// =========================================================================

	// Redis configures the optional ledger sequence allocator. When disabled
	// the ledger numbers rows from the database MAX(slhid).
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds the connection settings for the sequence allocator.
type RedisConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr" validate:"required_if=Enabled true"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db" validate:"gte=0"`
	KeyPrefix string `yaml:"key_prefix"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseMainConfig(data)
}

// ParseMainConfig parses, defaults and validates raw YAML.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.HomeDir == "" {
		config.HomeDir = "."
	}
	if config.ReportsDir == "" {
		config.ReportsDir = "report"
	}
	if config.ReportFormat == "" {
		config.ReportFormat = "csv"
	}
	if config.ReportNameFormat == "" {
		config.ReportNameFormat = "sales_report_{timestamp}"
	}
	if config.UnmatchedNameFormat == "" {
		config.UnmatchedNameFormat = "sales_unmatched_mkt_outlet_{timestamp}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 3
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Redis.KeyPrefix == "" {
		config.Redis.KeyPrefix = "salesync:slhid:"
	}
	if config.CityAbbreviations == nil {
		config.CityAbbreviations = DefaultCityAbbreviations()
	}
	if config.OutletTypes == nil {
		config.OutletTypes = DefaultOutletTypes()
	}

	// Keys are matched case-insensitively everywhere.
	files := make(map[string]string, len(config.Files))
	for k, v := range config.Files {
		files[strings.ToLower(k)] = v
	}
	config.Files = files
}

// validateMainConfig runs the struct tag validation.
func validateMainConfig(config *MainConfig) error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// PATH RESOLUTION
// =============================================================================

// SourcePath returns the staged file path for a distributor or companion key.
// Relative paths are joined with HomeDir.
func (c *MainConfig) SourcePath(name string) (string, error) {
	p, ok := c.Files[strings.ToLower(name)]
	if !ok || strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: no file configured for %q", types.ErrUnreadableSource, name)
	}
	return c.resolve(p), nil
}

// ReportsPath returns the absolute-or-home-relative reports directory.
func (c *MainConfig) ReportsPath() string {
	return c.resolve(c.ReportsDir)
}

func (c *MainConfig) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.HomeDir, p)
}

// =============================================================================
// DEFAULT LOOKUP TABLES
// =============================================================================

// DefaultCityAbbreviations returns the built-in city -> site table.
func DefaultCityAbbreviations() map[string]string {
	return map[string]string{
		"bandung":     "BDG",
		"bogor":       "BGR",
		"banjarmasin": "BJM",
		"batam":       "BTM",
		"cirebon":     "CRB",
		"depok":       "DPK",
		"jakarta1":    "JKT1",
		"jakarta2":    "JKT2",
		"jambi":       "JMB",
		"kupang":      "KPG",
		"lampung":     "LPG",
		"medan":       "MDN",
		"manado":      "MDO",
		"makassar":    "MKS",
		"malang":      "MLG",
		"padang":      "PDG",
		"pekanbaru":   "PKB",
		"palembang":   "PLB",
		"palu":        "PLU",
		"pontianak":   "PTK",
		"surabaya":    "SBY",
		"solo":        "SLO",
		"city":        "SMD",
		"semarang":    "SMG",
		"denpasar":    "DPS",
		"tangerang":   "TNG",
		"yogyakarta":  "YGA",
	}
}

// DefaultOutletTypes returns the built-in customer group -> classification table.
func DefaultOutletTypes() map[string]string {
	return map[string]string{
		"01": "APT",
		"02": "PBF",
		"03": "RSS",
		"04": "KLINIK",
		"05": "LAIN2",
		"09": "RSS",
		"3B": "PKM",
		"88": "ECAT",
	}
}
