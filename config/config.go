package config

import (
	"sort"
	"strings"

	"github.com/milk9111/jazz2conv/jj2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EpisodeName replaces the display name of an episode. Match, when set, must
// equal the legacy display name for the replacement to apply.
type EpisodeName struct {
	Match string `yaml:"match"`
	Name  string `yaml:"name"`
}

// Config holds the tables that place legacy content in the converted layout.
type Config struct {
	// KnownLevels maps episode → level → file name prefix.
	KnownLevels   map[string]map[string]string `yaml:"known_levels"`
	SpecialLevels map[string]string            `yaml:"special_levels"`
	EpisodeNames  map[string]EpisodeName       `yaml:"episode_names"`
	EpisodeOrder  [][]string                   `yaml:"episode_order"`
	SkipEpisodes  []string                     `yaml:"skip_episodes"`
	SupersededBy  map[string]string            `yaml:"superseded_by"`
}

// Load reads the config at file, or the embedded default when file is empty.
func Load(file string) (*Config, error) {
	name := file
	if name == "" {
		name = defaultName
	}
	data, err := ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "config: load %s", name)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", name)
	}
	return cfg, nil
}

// Default returns the embedded config.
func Default() (*Config, error) {
	return Load("")
}

// Parse decodes and validates a YAML config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]string)
	for _, ep := range sortedKeys(c.KnownLevels) {
		for level, prefix := range c.KnownLevels[ep] {
			level = strings.ToLower(level)
			if other, ok := seen[level]; ok {
				return errors.Errorf("level %q is listed in episodes %q and %q", level, other, ep)
			}
			if strings.HasPrefix(prefix, ":") {
				return errors.Errorf("level %q: prefix %q is reserved for special levels", level, prefix)
			}
			seen[level] = ep
		}
	}
	for level, target := range c.SpecialLevels {
		if !strings.HasPrefix(target, ":") {
			return errors.Errorf("special level %q: target %q must start with ':'", level, target)
		}
		if ep, ok := seen[strings.ToLower(level)]; ok {
			return errors.Errorf("special level %q is also listed in episode %q", level, ep)
		}
	}
	for old, repl := range c.SupersededBy {
		if old == repl {
			return errors.Errorf("episode %q supersedes itself", old)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Placement is the converted location of a level.
type Placement struct {
	Episode string
	// Prefix is prepended to the level name with an underscore. A prefix
	// starting with ':' replaces the level name.
	Prefix string
}

// Catalog answers placement and naming questions for one source directory.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	levels   map[string]Placement
	names    map[string]EpisodeName
	prev     map[string]string
	next     map[string]string
	skip     map[string]bool
	redirect map[string]string
}

// Catalog resolves the config against the episodes present in the source
// directory. available may be nil when no episode is present.
func (c *Config) Catalog(available func(episode string) bool) *Catalog {
	present := func(ep string) bool { return available != nil && available(ep) }

	cat := &Catalog{
		levels:   make(map[string]Placement),
		names:    c.EpisodeNames,
		prev:     make(map[string]string),
		next:     make(map[string]string),
		skip:     make(map[string]bool),
		redirect: make(map[string]string),
	}
	for _, ep := range c.SkipEpisodes {
		cat.skip[strings.ToLower(ep)] = true
	}
	for old, repl := range c.SupersededBy {
		if present(repl) {
			cat.skip[old] = true
			cat.redirect[old] = repl
		}
	}

	for ep, levels := range c.KnownLevels {
		target := ep
		if repl, ok := cat.redirect[ep]; ok {
			target = repl
		}
		for level, prefix := range levels {
			cat.levels[strings.ToLower(level)] = Placement{Episode: target, Prefix: prefix}
		}
	}
	for level, target := range c.SpecialLevels {
		cat.levels[strings.ToLower(level)] = Placement{Prefix: target}
	}

	for _, chain := range c.EpisodeOrder {
		for i := 1; i < len(chain); i++ {
			cat.next[chain[i-1]] = chain[i]
			cat.prev[chain[i]] = chain[i-1]
		}
	}
	return cat
}

// Placement returns the known placement of a level token.
func (c *Catalog) Placement(level string) (Placement, bool) {
	p, ok := c.levels[strings.ToLower(level)]
	return p, ok
}

// ConvertToken maps a level reference to its converted token. Its method
// value is a jj2.TokenConversion.
func (c *Catalog) ConvertToken(level string) jj2.LevelToken {
	p, ok := c.Placement(level)
	switch {
	case !ok:
		return jj2.LevelToken{Level: level}
	case p.Prefix == "":
		return jj2.LevelToken{Episode: p.Episode, Level: level}
	case strings.HasPrefix(p.Prefix, ":"):
		return jj2.LevelToken{Episode: p.Episode, Level: p.Prefix}
	default:
		return jj2.LevelToken{Episode: p.Episode, Level: p.Prefix + "_" + level}
	}
}

// LevelPath returns the output path of a level relative to the episodes
// directory.
func (c *Catalog) LevelPath(level string) string {
	level = strings.ToLower(level)
	return OutputPath(c.ConvertToken(level), level)
}

// SkipEpisode reports whether an episode is left out of the conversion.
func (c *Catalog) SkipEpisode(token string) bool {
	return c.skip[strings.ToLower(token)]
}

// EpisodeName returns the display name of a converted episode. Its method
// value is a jj2.NameConversion.
func (c *Catalog) EpisodeName(e *jj2.Episode) string {
	if n, ok := c.names[e.Token]; ok && (n.Match == "" || n.Match == e.DisplayName) {
		return n.Name
	}
	return CleanDisplayName(e.DisplayName)
}

// CleanDisplayName strips legacy formatting: '#' starts a color cycle and '@'
// is a line break.
func CleanDisplayName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '#':
		case '@':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PrevNext returns the episodes linked before and after e. Its method value is
// a jj2.PrevNextConversion.
func (c *Catalog) PrevNext(e *jj2.Episode) (prev, next string) {
	return c.prev[e.Token], c.next[e.Token]
}
