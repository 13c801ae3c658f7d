package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDeckAPIBase   = "https://deckofcardsapi.com/api/deck"
	DefaultDatasetOutput = "cso.json"
	DefaultHTTPTimeout   = 10 * time.Second

	// CSO FIQ02 query, JSON-stat 2.0, already percent-encoded.
	DefaultDatasetURL = "https://ws.cso.ie/public/api.jsonrpc?data=%7B%22jsonrpc%22:%222.0%22,%22method%22:%22PxStat.Data.Cube_API.ReadDataset%22,%22params%22:%7B%22class%22:%22query%22,%22id%22:%5B%22C02568V03113%22%5D,%22dimension%22:%7B%22C02568V03113%22:%7B%22category%22:%7B%22index%22:%5B%2205%22%5D%7D%7D%7D,%22extension%22:%7B%22pivot%22:null,%22codes%22:false,%22language%22:%7B%22code%22:%22en%22%7D,%22format%22:%7B%22type%22:%22JSON-stat%22,%22version%22:%222.0%22%7D,%22matrix%22:%22FIQ02%22%7D,%22version%22:%222.0%22%7D%7D"
)

// FileEnv names the variable holding an optional YAML config path.
const FileEnv = "DECKOFCARDS_CONFIG"

type Config struct {
	DeckAPIBase   string        `yaml:"deck_api_base" env:"DECK_API_BASE"`
	DatasetURL    string        `yaml:"dataset_url" env:"DATASET_URL"`
	DatasetOutput string        `yaml:"dataset_output" env:"DATASET_OUTPUT"`
	HTTPTimeout   time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT"`
	Server        Server        `yaml:"server"`
}

// Server configures the local deck API emulator.
type Server struct {
	Addr                 string `yaml:"addr" env:"DECKSERVER_ADDR"`
	DBPath               string `yaml:"db_path" env:"DECKSERVER_DB"`
	PublicURL            string `yaml:"public_url" env:"DECKSERVER_PUBLIC_URL"`
	Workers              int    `yaml:"workers" env:"DECKSERVER_WORKERS"`
	MaxDecks             int    `yaml:"max_decks" env:"DECKSERVER_MAX_DECKS"`
	CustomDeckCardsLimit int    `yaml:"custom_deck_cards_limit" env:"DECKSERVER_CUSTOM_DECK_LIMIT"`
}

func Default() Config {
	return Config{
		DeckAPIBase:   DefaultDeckAPIBase,
		DatasetURL:    DefaultDatasetURL,
		DatasetOutput: DefaultDatasetOutput,
		HTTPTimeout:   DefaultHTTPTimeout,
		Server: Server{
			Addr:                 ":8080",
			DBPath:               "deckofcards.db",
			PublicURL:            "http://localhost:8080",
			Workers:              8,
			MaxDecks:             20,
			CustomDeckCardsLimit: 200,
		},
	}
}

// Load returns the defaults, overlaid by the YAML file named in
// DECKOFCARDS_CONFIG (if any), overlaid by individual env variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto cfg. Keys absent from
// the document keep their current value.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.DeckAPIBase == "":
		return errors.New("config: deck_api_base is empty")
	case c.DatasetURL == "":
		return errors.New("config: dataset_url is empty")
	case c.DatasetOutput == "":
		return errors.New("config: dataset_output is empty")
	case c.HTTPTimeout < 0:
		return errors.New("config: http_timeout is negative")
	case c.Server.Workers <= 0:
		return errors.New("config: server.workers must be positive")
	case c.Server.MaxDecks <= 0:
		return errors.New("config: server.max_decks must be positive")
	}
	return nil
}
