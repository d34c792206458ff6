package config

import (
	"os"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/jazz2conv/jj2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Hook names a script may define.
const (
	HookConvertToken = "convert_token"
	HookEpisodeName  = "episode_name"
)

// scriptModules are the tengo standard modules a hook script may import.
var scriptModules = []string{"text", "fmt", "math", "enum"}

// Script runs the optional conversion hooks of a tengo script:
//
//	convert_token := func(level) { return ["prince", "01_" + level] }
//	episode_name := func(token, display) { return undefined }
//
// Returning undefined defers to the config. A Script serializes calls and is
// safe for concurrent use.
type Script struct {
	mu       sync.Mutex
	compiled *tengo.Compiled
	hooks    map[string]bool
}

// LoadScript compiles the hook script at file.
func LoadScript(file string) (*Script, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "config: load script")
	}
	s, err := NewScript(src)
	if err != nil {
		return nil, errors.Wrapf(err, "config: script %s", file)
	}
	return s, nil
}

// NewScript compiles a hook script.
func NewScript(src []byte) (*Script, error) {
	sc := tengo.NewScript(src)
	sc.SetImports(stdlib.GetModuleMap(scriptModules...))
	compiled, err := sc.Run()
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}

	s := &Script{hooks: make(map[string]bool)}
	var dispatch strings.Builder
	dispatch.WriteString("\n__result := undefined\n")
	for hook, arity := range map[string]int{HookConvertToken: 1, HookEpisodeName: 2} {
		if !compiled.IsDefined(hook) {
			continue
		}
		s.hooks[hook] = true
		args := make([]string, arity)
		for i := range args {
			args[i] = "__args[" + string(rune('0'+i)) + "]"
		}
		dispatch.WriteString("if __hook == \"" + hook + "\" { __result = " + hook + "(" + strings.Join(args, ", ") + ") }\n")
	}

	script := tengo.NewScript(append(append([]byte(nil), src...), dispatch.String()...))
	script.SetImports(stdlib.GetModuleMap(scriptModules...))
	_ = script.Add("__hook", "")
	_ = script.Add("__args", []any{})
	s.compiled, err = script.Compile()
	if err != nil {
		return nil, errors.Wrap(err, "compile hooks")
	}

	log.Debug().Bool(HookConvertToken, s.hooks[HookConvertToken]).Bool(HookEpisodeName, s.hooks[HookEpisodeName]).Msg("config: script loaded")
	return s, nil
}

// Defines reports whether the script defines hook.
func (s *Script) Defines(hook string) bool {
	return s.hooks[hook]
}

func (s *Script) call(hook string, args ...any) (*tengo.Variable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.compiled.Set("__hook", hook); err != nil {
		return nil, err
	}
	if err := s.compiled.Set("__args", args); err != nil {
		return nil, err
	}
	if err := s.compiled.Run(); err != nil {
		return nil, errors.Wrapf(err, "run %s", hook)
	}
	return s.compiled.Get("__result"), nil
}

// ConvertToken calls convert_token. ok is false when the hook is missing or
// returned undefined.
func (s *Script) ConvertToken(level string) (tok jj2.LevelToken, ok bool, err error) {
	if !s.hooks[HookConvertToken] {
		return tok, false, nil
	}
	v, err := s.call(HookConvertToken, level)
	if err != nil || v.IsUndefined() {
		return tok, false, err
	}

	arr := v.Array()
	if len(arr) != 2 {
		return tok, false, errors.Errorf("%s(%q) returned %s, want [episode, level]", HookConvertToken, level, v.ValueType())
	}
	ep, okEp := arr[0].(string)
	lvl, okLvl := arr[1].(string)
	if !okEp || !okLvl {
		return tok, false, errors.Errorf("%s(%q) returned non-string elements", HookConvertToken, level)
	}
	return jj2.LevelToken{Episode: ep, Level: lvl}, true, nil
}

// EpisodeName calls episode_name. ok is false when the hook is missing or
// returned undefined.
func (s *Script) EpisodeName(token, display string) (name string, ok bool, err error) {
	if !s.hooks[HookEpisodeName] {
		return "", false, nil
	}
	v, err := s.call(HookEpisodeName, token, display)
	if err != nil || v.IsUndefined() {
		return "", false, err
	}
	if v.ValueType() != "string" {
		return "", false, errors.Errorf("%s(%q) returned %s, want string", HookEpisodeName, token, v.ValueType())
	}
	return v.String(), true, nil
}
