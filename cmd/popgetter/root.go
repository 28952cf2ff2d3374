package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	// Store the result of binding cobra flags
	Config string
	Debug  bool
	Quiet  bool

	BaseURL     string
	CachePath   string
	GeocoderURL string
	Workers     int

	ParsedConfig YamlConfig

	// Whether --config was given explicitly, as opposed to defaulted.
	configFromFlag bool
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "popgetter",
	Short: "Search and download international census data",
	Long: `
popgetter wraps the published popgetter data releases: per-country metadata
catalogues plus the census data and boundaries they describe.  Search the
metric catalogue, then download the data as CSV or GeoJSON.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("popgetter: failed to initialise config: %w", err)
		}
		setupLogging()
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/popgetter.yaml, respects POPGETTER_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().BoolVar(&Quiet, "quiet", false, "only display warnings and errors")
	rootCmd.PersistentFlags().StringVar(&BaseURL, "base-url", "", "base URL of the popgetter data release")
	rootCmd.PersistentFlags().StringVar(&CachePath, "cache", "", "location to keep metadata and downloaded data (default: ~/.cache/popgetter)")
	rootCmd.PersistentFlags().StringVar(&GeocoderURL, "geocoder-url", "", "Nominatim-style endpoint for resolving place names")
	rootCmd.PersistentFlags().IntVar(&Workers, "workers", 4, "concurrent downloads")
}

func initializeConfig(cmd *cobra.Command) error {
	configFromFlag = Config != ""
	if Config == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv("POPGETTER_CONFIG")
		if envConfig != "" {
			Config = envConfig
			configFromFlag = true
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = "~/.config/popgetter.yaml"
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("popgetter: unable to expand homedir: %w", err)
	}
	Config = config

	if _, err := os.Stat(Config); errors.Is(err, os.ErrNotExist) {
		if configFromFlag {
			return fmt.Errorf("popgetter: specified config file does not exist: %w", err)
		}
		// no config file is fine, the defaults all work
		return nil
	}

	yamlFile, err := os.ReadFile(Config)
	if err != nil {
		return fmt.Errorf("popgetter: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("popgetter: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("popgetter: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	Debug *bool `yaml:"debug"`
	Quiet *bool `yaml:"quiet"`

	BaseURL     string `yaml:"base-url"`
	Cache       string `yaml:"cache"`
	GeocoderURL string `yaml:"geocoder-url"`
	Workers     *int   `yaml:"workers"`
}

// Bind each config file entry to its cobra flag, unless the flag was set on
// the command line, which wins.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("popgetter: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// the flag is unknown, which can legitimately happen when a
			// command doesn't define all flags the YAML file sets
			continue
		}
		if !cmd.Flags().Changed(key) {
			switch field.Kind() {
			case reflect.Ptr:
				switch p := field.Value().(type) {
				case *bool:
					if p != nil {
						cmd.Flags().Set(key, fmt.Sprintf("%v", *p))
					}
				case *int:
					if p != nil {
						cmd.Flags().Set(key, fmt.Sprintf("%d", *p))
					}
				default:
					return fmt.Errorf("popgetter: found unrecognised field: %+v", field)
				}

			case reflect.String:
				s, ok := field.Value().(string)
				if !ok {
					return fmt.Errorf("popgetter: found unrecognised field: %+v", field)
				}
				if s != "" {
					cmd.Flags().Set(key, s)
				}

			case reflect.Slice:
				ss, ok := field.Value().([]string)
				if !ok {
					return fmt.Errorf("popgetter: found unrecognised field: %+v", field)
				}
				for _, s := range ss {
					// yes, repeatedly calling Set() appends to the slice...
					cmd.Flags().Set(key, s)
				}

			default:
				return fmt.Errorf("popgetter: found unrecognised field: %+v", field)
			}
		}
	}

	return nil
}

// cacheDir returns the expanded cache directory, creating it if needed.
func cacheDir() (string, error) {
	cache := CachePath
	if cache == "" {
		cache = "~/.cache/popgetter"
	}
	expanded, err := homedir.Expand(cache)
	if err != nil {
		return "", fmt.Errorf("popgetter: unable to expand homedir: %w", err)
	}
	if err := os.MkdirAll(expanded, 0750); err != nil {
		return "", fmt.Errorf("popgetter: couldn't create cache directory %s: %w", expanded, err)
	}
	return expanded, nil
}

// dataDir is where downloaded data files live, inside the cache.
func dataDir() (string, error) {
	cache, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cache, "data"), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("popgetter: execution error: %w", err)
	}

	return nil
}
