// Package config holds project-wide compiler defaults, the settings sensible to share
// across every csv++ source in a directory rather than repeat on every invocation. CLI flags
// and `-k key=value` overrides always win over whatever Load returns.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// CompilerVersion is stamped into every object-file cache entry. A change here invalidates
// every existing ".csvpo" the next time it's consulted.
const CompilerVersion = "csvpp-1"

// Config is the compiler's project-wide configuration.
type Config struct {
	Compiler CompilerConfig `mapstructure:"compiler"`
	Output   OutputConfig   `mapstructure:"output"`
}

// CompilerConfig holds settings that affect how a source and its `use` dependencies are read
// and resolved.
type CompilerConfig struct {
	// EncodingHints are tried, in order, to decode a source file that isn't valid UTF-8.
	EncodingHints []string `mapstructure:"encoding_hints"`
	// UseCache enables consulting and writing the ".csvpo" object-file cache.
	UseCache bool `mapstructure:"use_cache"`
	// ExcludeGlobs lists path globs to keep out of `use` resolution. It is loaded and shown by
	// Print; module path resolution does not consult it.
	ExcludeGlobs []string `mapstructure:"exclude_globs"`
}

// OutputConfig holds defaults for where and in what formats a compile writes its result.
type OutputConfig struct {
	// Dir is a default output directory. It is loaded and shown by Print; the `-o` filename
	// is used as given and is not resolved against it.
	Dir string `mapstructure:"dir"`
	// DefaultFormats lists the target formats recognized from an output filename's
	// extension. It is loaded and shown by Print; internal/target picks a writer from a fixed
	// extension switch and does not consult this list.
	DefaultFormats []string `mapstructure:"default_formats"`
}

// Load reads configuration from configPath (defaulting to "csvpp.yaml" in the current
// directory) layered over sensible built-in defaults. A missing config file is not an error —
// the defaults alone are a valid configuration.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		configPath = "csvpp.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("no csvpp.yaml found, using built-in defaults")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("compiler.encoding_hints", []string{"utf-8", "euc-kr", "ms949", "shift-jis"})
	v.SetDefault("compiler.use_cache", true)
	v.SetDefault("compiler.exclude_globs", []string{
		"**/.git/**",
		"**/node_modules/**",
		"**/*.csvpo",
	})

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.default_formats", []string{"csv", "xlsx", "ods"})
}

// Print writes the effective configuration to stdout for `-v` debugging.
func (c *Config) Print() {
	fmt.Println("=== csv++ configuration ===")
	fmt.Printf("Encoding hints:   %v\n", c.Compiler.EncodingHints)
	fmt.Printf("Use cache:        %v\n", c.Compiler.UseCache)
	fmt.Printf("Exclude globs:    %v\n", c.Compiler.ExcludeGlobs)
	fmt.Printf("Output dir:       %s\n", c.Output.Dir)
	fmt.Printf("Default formats:  %v\n", c.Output.DefaultFormats)
	fmt.Println("============================")
}
