// Package config loads repository settings from an optional YAML file and
// DSPACE_ environment variables.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Policies for metadata fields a crosswalk meets that the registry does not
// know.
const (
	MissingFieldFail   = "fail"
	MissingFieldIgnore = "ignore"
	MissingFieldAdd    = "add"
)

// Config holds the settings crosswalks, patch operations and the server read.
type Config struct {
	SiteURL               string
	SiteName              string
	AdminEmail            string
	UIURL                 string
	HandlePrefix          string
	HandleCanonicalPrefix string

	MissingField      string
	CreateSubmitter   bool
	CerifIDPrefix     string
	CerifTypesFile    string
	OREFetchTimeout   time.Duration
	ChecksumAlgorithm string

	OperationsLimit int
	PasswordPattern *regexp.Regexp

	ServerAddr string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("site.url", "http://localhost:8080/server")
	v.SetDefault("site.name", "DSpace")
	v.SetDefault("mail.admin", "dspace-help@example.com")
	v.SetDefault("ui.url", "http://localhost:4000")
	v.SetDefault("handle.prefix", "123456789")
	v.SetDefault("handle.canonical_prefix", "http://hdl.handle.net/")
	v.SetDefault("crosswalk.missing_field", MissingFieldFail)
	v.SetDefault("crosswalk.create_submitter", false)
	v.SetDefault("crosswalk.cerif.id_prefix", "repository-id::")
	v.SetDefault("crosswalk.cerif.types_file", "")
	v.SetDefault("crosswalk.ore.fetch_timeout", "30s")
	v.SetDefault("crosswalk.premis.checksum_algorithm", "MD5")
	v.SetDefault("patch.operations_limit", 1000)
	v.SetDefault("eperson.password_pattern", `^.{8,}$`)
	v.SetDefault("server.addr", ":8080")
}

// New returns a viper instance with defaults and environment binding. A key
// such as crosswalk.missing_field is read from DSPACE_CROSSWALK_MISSING_FIELD.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("DSPACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path, when set, and builds a Config.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// Default returns the configuration with every default applied.
func Default() *Config {
	cfg, err := FromViper(New())
	if err != nil {
		// the defaults are constants; this only fires if they are edited badly
		panic(err)
	}
	return cfg
}

// FromViper validates and converts the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		SiteURL:               strings.TrimSuffix(v.GetString("site.url"), "/"),
		SiteName:              v.GetString("site.name"),
		AdminEmail:            v.GetString("mail.admin"),
		UIURL:                 strings.TrimSuffix(v.GetString("ui.url"), "/"),
		HandlePrefix:          v.GetString("handle.prefix"),
		HandleCanonicalPrefix: v.GetString("handle.canonical_prefix"),
		MissingField:          strings.ToLower(v.GetString("crosswalk.missing_field")),
		CreateSubmitter:       v.GetBool("crosswalk.create_submitter"),
		CerifIDPrefix:         v.GetString("crosswalk.cerif.id_prefix"),
		CerifTypesFile:        v.GetString("crosswalk.cerif.types_file"),
		OREFetchTimeout:       v.GetDuration("crosswalk.ore.fetch_timeout"),
		ChecksumAlgorithm:     strings.ToUpper(v.GetString("crosswalk.premis.checksum_algorithm")),
		OperationsLimit:       v.GetInt("patch.operations_limit"),
		ServerAddr:            v.GetString("server.addr"),
	}

	switch cfg.MissingField {
	case MissingFieldFail, MissingFieldIgnore, MissingFieldAdd:
	default:
		return nil, fmt.Errorf("crosswalk.missing_field: unknown policy %q (want fail, ignore or add)", cfg.MissingField)
	}
	if cfg.OperationsLimit <= 0 {
		return nil, fmt.Errorf("patch.operations_limit must be positive, got %d", cfg.OperationsLimit)
	}
	if cfg.OREFetchTimeout <= 0 {
		return nil, fmt.Errorf("crosswalk.ore.fetch_timeout must be positive")
	}

	re, err := regexp.Compile(v.GetString("eperson.password_pattern"))
	if err != nil {
		return nil, fmt.Errorf("eperson.password_pattern: %w", err)
	}
	cfg.PasswordPattern = re
	return cfg, nil
}

// HandleURL returns the canonical resolver URL of handle.
func (c *Config) HandleURL(handle string) string {
	if handle == "" {
		return ""
	}
	prefix := c.HandleCanonicalPrefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + handle
}

// BitstreamURL returns the retrieve link of a bitstream.
func (c *Config) BitstreamURL(id string) string {
	return c.SiteURL + "/api/core/bitstreams/" + id + "/content"
}

// ItemURL returns the UI page of an item.
func (c *Config) ItemURL(id string) string {
	return c.UIURL + "/items/" + id
}

// Host returns the host part of SiteURL, used in OAI identifiers.
func (c *Config) Host() string {
	host := c.SiteURL
	if _, rest, ok := strings.Cut(host, "://"); ok {
		host = rest
	}
	host, _, _ = strings.Cut(host, "/")
	host, _, _ = strings.Cut(host, ":")
	return host
}
