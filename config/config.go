package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the full run configuration, decoded over code defaults
type Config struct {
	Pools   PoolConfig     `toml:"pools"`
	Tags    TagConfig      `toml:"tags"`
	Targets []TargetConfig `toml:"targets"`
	Passes  []PassConfig   `toml:"passes"`
	Time    TimeConfig     `toml:"time"`
	Arena   ArenaConfig    `toml:"arena"`
	Emitter EmitterConfig  `toml:"emitter"`
	Player  PlayerConfig   `toml:"player"`
	Assets  AssetConfig    `toml:"assets"`
	Audio   AudioConfig    `toml:"audio"`
	Logging LoggingConfig  `toml:"logging"`
	Metrics MetricsConfig  `toml:"metrics"`
}

// PoolConfig sets fixed pool capacities
type PoolConfig struct {
	Entities  int `toml:"entities"`
	Colliders int `toml:"colliders"`
	Behaviors int `toml:"behaviors"`
	Visuals   int `toml:"visuals"`
	Sprites   int `toml:"sprites"`
	Voices    int `toml:"voices"`
}

type TagConfig struct {
	Names []string `toml:"names"`
}

// TargetConfig declares an offscreen target in cells
type TargetConfig struct {
	Name   string `toml:"name"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// PassConfig declares one render pass; tags are referenced by name
type PassConfig struct {
	ID      string       `toml:"id"`
	Order   int          `toml:"order"`
	Include []string     `toml:"include"`
	Exclude []string     `toml:"exclude"`
	Target  string       `toml:"target"`
	Reads   []string     `toml:"reads"`
	Effect  string       `toml:"effect"`
	Clear   string       `toml:"clear"` // "discard", "default" or a color name
	Camera  CameraConfig `toml:"camera"`
}

// CameraConfig positions a pass camera
// FitView recomputes an integer zoom from the view size every frame
type CameraConfig struct {
	Position [2]float32 `toml:"position"`
	Zoom     [2]float32 `toml:"zoom"`
	Center   bool       `toml:"center"`
	FitView  bool       `toml:"fit_view"`
}

type TimeConfig struct {
	FrameRate        int           `toml:"frame_rate"`
	MaxDelta         time.Duration `toml:"max_delta"`
	DeathCooldown    time.Duration `toml:"death_cooldown"`
	RumbleFor        time.Duration `toml:"rumble_for"`
	ProgressDuration time.Duration `toml:"progress_duration"`
}

type ArenaConfig struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

type EmitterConfig struct {
	Script       string  `toml:"script"` // Empty uses the built-in patterns
	Pattern      string  `toml:"pattern"`
	Radius       float64 `toml:"radius"`
	BaseSpeed    float64 `toml:"base_speed"`
	Accel        float64 `toml:"accel"`
	BulletRadius float32 `toml:"bullet_radius"`
	Sprite       string  `toml:"sprite"`
}

type PlayerConfig struct {
	Speed    float32 `toml:"speed"`
	Radius   float32 `toml:"radius"`
	Collider float32 `toml:"collider"`
	Deadzone float32 `toml:"deadzone"`
}

type AssetConfig struct {
	Sprites string `toml:"sprites"` // Empty uses the embedded bank
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	Dir    string `toml:"dir"`
}

type MetricsConfig struct {
	Interval time.Duration `toml:"interval"`
	Retain   time.Duration `toml:"retain"`
}

// Load decodes path over the defaults; an empty path returns the defaults
// Unknown keys are rejected so typos do not silently fall back
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := cfg.decode(string(data)); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults
func Parse(text string) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(text); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(text string) error {
	// Arrays of tables replace the defaults rather than merging into them
	var given struct {
		Targets []TargetConfig `toml:"targets"`
		Passes  []PassConfig   `toml:"passes"`
	}
	if _, err := toml.Decode(text, &given); err != nil {
		return err
	}
	if given.Targets != nil {
		c.Targets = nil
	}
	if given.Passes != nil {
		c.Passes = nil
	}

	md, err := toml.Decode(text, c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Default returns the stock arena configuration
func Default() *Config {
	return &Config{
		Pools: PoolConfig{
			Entities:  1010,
			Colliders: 1001,
			Behaviors: 1010,
			Visuals:   1010,
			Sprites:   1005,
			Voices:    8,
		},
		Tags: TagConfig{
			Names: []string{"bullet", "background", "screen_texture", "player"},
		},
		Targets: []TargetConfig{
			{Name: "main", Width: 60, Height: 30},
		},
		Passes: []PassConfig{
			{
				ID: "background", Order: 1, Include: []string{"background"},
				Target: "main", Effect: "background", Clear: "black",
				Camera: CameraConfig{Zoom: [2]float32{1.0 / 3, 1.0 / 6}},
			},
			{
				ID: "main", Order: 2, Exclude: []string{"background", "screen_texture"},
				Target: "main", Effect: "sprite", Clear: "discard",
				Camera: CameraConfig{Zoom: [2]float32{1.0 / 3, 1.0 / 6}},
			},
			{
				ID: "screen", Order: 3, Include: []string{"screen_texture"},
				Target: "framebuffer", Reads: []string{"main"}, Effect: "screenspacequad", Clear: "black",
				Camera: CameraConfig{Position: [2]float32{30, 15}, Zoom: [2]float32{1, 1}, Center: true, FitView: true},
			},
		},
		Time: TimeConfig{
			FrameRate:        60,
			MaxDelta:         100 * time.Millisecond,
			DeathCooldown:    time.Second,
			RumbleFor:        500 * time.Millisecond,
			ProgressDuration: 10 * time.Second,
		},
		Arena: ArenaConfig{Width: 180, Height: 180},
		Emitter: EmitterConfig{
			Pattern:      "spiral",
			Radius:       120,
			BaseSpeed:    50,
			Accel:        5,
			BulletRadius: 4,
			Sprite:       "blink",
		},
		Player: PlayerConfig{
			Speed:    100,
			Radius:   3,
			Collider: 1,
			Deadzone: 0.2,
		},
		Audio: AudioConfig{Enabled: true, Volume: 0.6},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Dir:    "logs",
		},
		Metrics: MetricsConfig{
			Interval: time.Second,
			Retain:   time.Minute,
		},
	}
}

// Validate checks ranges and cross references that decoding cannot
// Render graph ordering is checked later by the compositor
func (c *Config) Validate() error {
	p := c.Pools
	if p.Entities <= 0 || p.Colliders <= 0 || p.Behaviors <= 0 || p.Visuals <= 0 || p.Sprites <= 0 || p.Voices <= 0 {
		return errors.New("pools: every capacity must be positive")
	}
	if p.Entities > 1<<24 {
		return errors.Errorf("pools: %d entities exceeds the handle index range", p.Entities)
	}

	if len(c.Tags.Names) > 64 {
		return errors.Errorf("tags: %d names exceeds 64", len(c.Tags.Names))
	}
	known := make(map[string]bool, len(c.Tags.Names))
	for _, n := range c.Tags.Names {
		if n == "" {
			return errors.New("tags: empty name")
		}
		if known[n] {
			return errors.Errorf("tags: %q declared twice", n)
		}
		known[n] = true
	}

	if len(c.Passes) == 0 {
		return errors.New("passes: at least one pass required")
	}
	for _, pass := range c.Passes {
		for _, n := range append(append([]string(nil), pass.Include...), pass.Exclude...) {
			if !known[n] {
				return errors.Errorf("pass %q: unknown tag %q", pass.ID, n)
			}
		}
	}

	t := c.Time
	if t.FrameRate <= 0 || t.MaxDelta <= 0 {
		return errors.New("time: frame_rate and max_delta must be positive")
	}
	if t.ProgressDuration <= 0 {
		return errors.New("time: progress_duration must be positive")
	}
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return errors.New("arena: size must be positive")
	}
	if c.Emitter.Pattern == "" {
		return errors.New("emitter: pattern required")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return errors.Errorf("logging: unknown format %q", c.Logging.Format)
	}
	return nil
}

// FrameInterval returns the target duration of one frame
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Time.FrameRate)
}
