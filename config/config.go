package config

import (
	"os"
	"time"

	"avalam/game"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Strategies known to the agent factory.
const (
	Iterative = "iterative"
	Minimax   = "minimax"
	AlphaBeta = "alphabeta"
	MCTS      = "mcts"
	Random    = "random"
	Remote    = "remote"
)

var strategies = []string{Iterative, Minimax, AlphaBeta, MCTS, Random, Remote}

type Config struct {
	Log    LogConfig     `yaml:"log"`
	Server ServerConfig  `yaml:"server"`
	Match  MatchConfig   `yaml:"match"`
	Agents []AgentConfig `yaml:"agents"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type ServerConfig struct {
	Port  int    `yaml:"port"`
	Agent string `yaml:"agent"` // Name of the served agent
}

type MatchConfig struct {
	TimeCredit  time.Duration `yaml:"time_credit"` // Per player, zero for no clock
	Games       int           `yaml:"games"`       // Per pairing
	Concurrency int           `yaml:"concurrency"`
	MaxSteps    int           `yaml:"max_steps"`
	Output      string        `yaml:"output"`
	Render      bool          `yaml:"render"`
}

type AgentConfig struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Strategy string `yaml:"strategy"`

	// Depth searched by the fixed-depth strategies
	Depth int `yaml:"depth"`
	// Allowance per move when the match has no clock
	UnboundedAllowance time.Duration `yaml:"unbounded_allowance"`
	Weights            *game.Weights `yaml:"weights"`

	Episodes    int           `yaml:"episodes"`
	Duration    time.Duration `yaml:"duration"`
	Cutoff      int           `yaml:"cutoff"`
	Exploration float64       `yaml:"exploration"`
	Seed        uint64        `yaml:"seed"`
	ReuseTree   bool          `yaml:"reuse_tree"`

	URL string `yaml:"url"` // Base URL of a remote agent server
}

func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Pretty: true},
		Server: ServerConfig{Port: 8000, Agent: "iterative"},
		Match: MatchConfig{
			TimeCredit:  15 * time.Minute,
			Games:       2,
			Concurrency: 1,
			MaxSteps:    200,
			Output:      "experiments",
		},
		Agents: []AgentConfig{
			{ID: 1, Name: "iterative", Strategy: Iterative},
			{ID: 2, Name: "alphabeta", Strategy: AlphaBeta, Depth: 3},
			{ID: 3, Name: "minimax", Strategy: Minimax, Depth: 2},
			{ID: 4, Name: "mcts", Strategy: MCTS, Episodes: 1000},
			{ID: 5, Name: "random", Strategy: Random},
		},
	}
}

// Load reads a YAML file over the defaults. Sections missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Match.Games < 0 || c.Match.Concurrency < 0 || c.Match.MaxSteps < 0 {
		return errors.New("match games, concurrency and max_steps cannot be negative")
	}
	if c.Match.TimeCredit < 0 {
		return errors.New("match time_credit cannot be negative")
	}

	ids := map[int]bool{}
	names := map[string]bool{}
	for _, a := range c.Agents {
		if err := a.Validate(); err != nil {
			return err
		}
		if ids[a.ID] {
			return errors.Errorf("duplicate agent id %d", a.ID)
		}
		if names[a.Name] {
			return errors.Errorf("duplicate agent name %q", a.Name)
		}
		ids[a.ID] = true
		names[a.Name] = true
	}

	if c.Server.Agent != "" {
		if _, ok := c.Agent(c.Server.Agent); !ok {
			return errors.Errorf("server agent %q is not configured", c.Server.Agent)
		}
	}
	return nil
}

func (a AgentConfig) Validate() error {
	if a.Name == "" {
		return errors.Errorf("agent %d has no name", a.ID)
	}
	if !lo.Contains(strategies, a.Strategy) {
		return errors.Errorf("agent %s has unknown strategy %q", a.Name, a.Strategy)
	}
	if a.Depth < 0 || a.Episodes < 0 || a.Cutoff < 0 || a.Exploration < 0 {
		return errors.Errorf("agent %s has a negative search parameter", a.Name)
	}
	if a.Duration < 0 || a.UnboundedAllowance < 0 {
		return errors.Errorf("agent %s has a negative duration", a.Name)
	}
	if a.Strategy == Remote && a.URL == "" {
		return errors.Errorf("remote agent %s has no url", a.Name)
	}
	return nil
}

// Agent finds a configured agent by name.
func (c *Config) Agent(name string) (AgentConfig, bool) {
	return lo.Find(c.Agents, func(a AgentConfig) bool {
		return a.Name == name
	})
}
