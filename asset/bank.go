package asset

import (
	_ "embed"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed sprites.yaml
var defaultBank []byte

// ClipDef is one glyph animation
type ClipDef struct {
	Frames string        `yaml:"frames"`
	Delay  time.Duration `yaml:"delay"`
	Loop   bool          `yaml:"loop"`
	Goto   string        `yaml:"goto"` // Clip started when a non-looping clip ends

	glyphs []rune
}

// SpriteDef is a named set of clips
type SpriteDef struct {
	Default string              `yaml:"default"`
	Clips   map[string]*ClipDef `yaml:"clips"`
}

// Bank holds every sprite definition by name
type Bank struct {
	Sprites map[string]*SpriteDef `yaml:"sprites"`
}

// DefaultBank parses the embedded sprite bank
func DefaultBank() (*Bank, error) {
	return ParseBank(defaultBank)
}

// LoadBank reads a sprite bank from a YAML file
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read sprite bank %s", path)
	}
	b, err := ParseBank(data)
	if err != nil {
		return nil, errors.Wrapf(err, "sprite bank %s", path)
	}
	return b, nil
}

// ParseBank decodes and validates a sprite bank
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrap(err, "decode sprite bank")
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Bank) validate() error {
	if len(b.Sprites) == 0 {
		return errors.New("sprite bank is empty")
	}
	for name, s := range b.Sprites {
		if len(s.Clips) == 0 {
			return errors.Errorf("sprite %q has no clips", name)
		}
		if s.Default != "" {
			if _, ok := s.Clips[s.Default]; !ok {
				return errors.Errorf("sprite %q default clip %q not defined", name, s.Default)
			}
		}
		for clip, c := range s.Clips {
			c.glyphs = []rune(c.Frames)
			if len(c.glyphs) == 0 {
				return errors.Errorf("sprite %q clip %q has no frames", name, clip)
			}
			if c.Delay <= 0 {
				return errors.Errorf("sprite %q clip %q needs a positive delay", name, clip)
			}
			if c.Goto != "" {
				if _, ok := s.Clips[c.Goto]; !ok {
					return errors.Errorf("sprite %q clip %q jumps to unknown clip %q", name, clip, c.Goto)
				}
			}
		}
	}
	return nil
}

// Names returns the sprite names in sorted order
func (b *Bank) Names() []string {
	out := make([]string, 0, len(b.Sprites))
	for n := range b.Sprites {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
