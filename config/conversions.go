package config

import (
	"path"
	"strings"

	"github.com/milk9111/jazz2conv/jj2"
	"github.com/rs/zerolog/log"
)

// Conversions bundles the callbacks passed to the level and episode writers.
type Conversions struct {
	Tokens   jj2.TokenConversion
	Names    jj2.NameConversion
	PrevNext jj2.PrevNextConversion
}

// Conversions returns the catalog callbacks, overridden by the hooks of s
// where it defines them. s may be nil. Hook failures are logged and fall back
// to the catalog.
func (c *Catalog) Conversions(s *Script) Conversions {
	conv := Conversions{
		Tokens:   c.ConvertToken,
		Names:    c.EpisodeName,
		PrevNext: c.PrevNext,
	}
	if s == nil {
		return conv
	}

	if s.Defines(HookConvertToken) {
		conv.Tokens = func(level string) jj2.LevelToken {
			tok, ok, err := s.ConvertToken(level)
			if err != nil {
				log.Warn().Err(err).Str("token", level).Msg("config: token hook failed")
			}
			if ok {
				return tok
			}
			return c.ConvertToken(level)
		}
	}
	if s.Defines(HookEpisodeName) {
		conv.Names = func(e *jj2.Episode) string {
			name, ok, err := s.EpisodeName(e.Token, e.DisplayName)
			if err != nil {
				log.Warn().Err(err).Str("episode", e.Token).Msg("config: name hook failed")
			}
			if ok {
				return name
			}
			return c.EpisodeName(e)
		}
	}
	return conv
}

// LevelPath returns the output path of a level relative to the episodes
// directory, derived from its converted token.
func (c Conversions) LevelPath(level string) string {
	level = strings.ToLower(level)
	tok := jj2.LevelToken{Level: level}
	if c.Tokens != nil {
		tok = c.Tokens(level)
	}
	return OutputPath(tok, level)
}

// OutputPath maps a converted token to a path relative to the episodes
// directory, using forward slashes. Tokens outside any episode and special
// screens go to "unknown".
func OutputPath(tok jj2.LevelToken, level string) string {
	if tok.Episode == "" || tok.Level == "" || strings.HasPrefix(tok.Level, ":") {
		return path.Join("unknown", level+".j2l")
	}
	return path.Join(tok.Episode, tok.Level+".j2l")
}
