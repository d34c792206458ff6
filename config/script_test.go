package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/milk9111/jazz2conv/jj2"
)

const hookScript = `
text := import("text")

convert_token := func(level) {
	if text.has_prefix(level, "mp_") {
		return ["battle", text.trim_prefix(level, "mp_")]
	}
	return undefined
}

episode_name := func(token, display) {
	if token == "custom" {
		return text.to_upper(display)
	}
}
`

func TestScriptHooks(t *testing.T) {
	s, err := NewScript([]byte(hookScript))
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}
	if !s.Defines(HookConvertToken) || !s.Defines(HookEpisodeName) {
		t.Fatalf("expected both hooks to be defined")
	}

	tok, ok, err := s.ConvertToken("mp_arena")
	if err != nil || !ok || tok != (jj2.LevelToken{Episode: "battle", Level: "arena"}) {
		t.Fatalf("unexpected token %+v ok=%v err=%v", tok, ok, err)
	}
	if _, ok, err := s.ConvertToken("castle1"); ok || err != nil {
		t.Fatalf("expected undefined result, got ok=%v err=%v", ok, err)
	}

	name, ok, err := s.EpisodeName("custom", "My Episode")
	if err != nil || !ok || name != "MY EPISODE" {
		t.Fatalf("unexpected name %q ok=%v err=%v", name, ok, err)
	}
	if _, ok, err := s.EpisodeName("prince", "x"); ok || err != nil {
		t.Fatalf("expected undefined result, got ok=%v err=%v", ok, err)
	}
}

func TestScriptErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"wrong_arity", `convert_token := func(level) { return [level] }`},
		{"wrong_type", `convert_token := func(level) { return 5 }`},
		{"non_string", `convert_token := func(level) { return [1, 2] }`},
		{"runtime_error", `convert_token := func(level) { return level.missing.field }`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := NewScript([]byte(c.src))
			if err != nil {
				t.Fatalf("NewScript: %v", err)
			}
			if _, ok, err := s.ConvertToken("castle1"); ok || err == nil {
				t.Fatalf("expected an error, got ok=%v err=%v", ok, err)
			}
		})
	}

	if _, err := NewScript([]byte(`convert_token := func(`)); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestScriptWithoutHooks(t *testing.T) {
	s, err := NewScript([]byte(`x := 1`))
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}
	if s.Defines(HookConvertToken) || s.Defines(HookEpisodeName) {
		t.Fatalf("expected no hooks")
	}
	if _, ok, err := s.ConvertToken("castle1"); ok || err != nil {
		t.Fatalf("expected no result, got ok=%v err=%v", ok, err)
	}
}

func TestConversionsWithScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hooks.tengo")
	if err := os.WriteFile(path, []byte(hookScript), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	s, err := LoadScript(path)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	conv := defaultCatalog(t).Conversions(s)

	cases := []struct {
		level    string
		wantTok  jj2.LevelToken
		wantPath string
	}{
		{"mp_arena", jj2.LevelToken{Episode: "battle", Level: "arena"}, "battle/arena.j2l"},
		{"castle1", jj2.LevelToken{Episode: "prince", Level: "01_castle1"}, "prince/01_castle1.j2l"},
		{"custom", jj2.LevelToken{Level: "custom"}, "unknown/custom.j2l"},
	}
	for _, c := range cases {
		t.Run(c.level, func(t *testing.T) {
			if got := conv.Tokens(c.level); got != c.wantTok {
				t.Fatalf("expected %+v, got %+v", c.wantTok, got)
			}
			if got := conv.LevelPath(c.level); got != c.wantPath {
				t.Fatalf("expected path %q, got %q", c.wantPath, got)
			}
		})
	}

	if got := conv.Names(&jj2.Episode{Token: "custom", DisplayName: "a@b"}); got != "A@B" {
		t.Fatalf("expected script name, got %q", got)
	}
	if got := conv.Names(&jj2.Episode{Token: "share", DisplayName: "#Shareware@Levels"}); got != "Shareware Demo" {
		t.Fatalf("expected config name, got %q", got)
	}
}

func TestConversionsWithoutScript(t *testing.T) {
	conv := defaultCatalog(t).Conversions(nil)
	if got := conv.Tokens("castle1"); got.Level != "01_castle1" {
		t.Fatalf("unexpected token %+v", got)
	}
	if prev, _ := conv.PrevNext(&jj2.Episode{Token: "monk"}); prev != "flash" {
		t.Fatalf("expected flash, got %q", prev)
	}
	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.tengo")); err == nil {
		t.Fatalf("expected error for a missing script")
	}
}

func TestScriptConcurrentCalls(t *testing.T) {
	s, err := NewScript([]byte(hookScript))
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, ok, err := s.ConvertToken("mp_arena")
			if err != nil || !ok || tok.Level != "arena" {
				errs <- "unexpected result"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatalf("%s", msg)
	}
}
