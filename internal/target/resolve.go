package target

import (
	"fmt"
	"sort"
	"strings"

	"buble/internal/diag"
)

const issuesHint = "Please raise an issue at https://github.com/bublejs/buble/issues"

// conservative is the support assumed when no target is given.
const conservative Mask = 0b00010000000000000000001

// Error is a configuration error produced while resolving targets or
// transform overrides.
type Error struct {
	Code diag.Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Resolve turns {environment: version} pairs into transform decisions.
// An empty map assumes the most conservative runtime.
func Resolve(targets map[string]string) (Transforms, error) {
	mask := conservative
	if len(targets) > 0 {
		mask = Mask(All)
	}

	envs := make([]string, 0, len(targets))
	for env := range targets {
		envs = append(envs, env)
	}
	sort.Strings(envs)

	for _, env := range envs {
		e := findEnvironment(env)
		if e == nil {
			return 0, &Error{
				Code: diag.CfgUnknownEnvironment,
				Msg:  fmt.Sprintf("Unknown environment '%s'. %s", env, issuesHint),
			}
		}
		support, ok := Support(env, targets[env])
		if !ok {
			return 0, &Error{
				Code: diag.CfgUnknownVersion,
				Msg: fmt.Sprintf("Support data exists for the following versions of %s: %s. %s",
					env, strings.Join(Versions(env), ", "), issuesHint),
			}
		}
		mask &= support
	}

	var t Transforms
	for f := Feature(0); f < NumMatrixFeatures; f++ {
		if mask&(1<<f) == 0 {
			t |= 1 << f
		}
	}
	return t, nil
}

// Apply layers explicit overrides on top of base. The "modules" key sets
// both moduleImport and moduleExport unless those are given explicitly.
func Apply(base Transforms, overrides map[string]bool) (Transforms, error) {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	t := base
	for _, name := range names {
		on := overrides[name]
		if name == "modules" {
			if _, ok := overrides[ModuleImport.String()]; !ok {
				t = t.With(ModuleImport, on)
			}
			if _, ok := overrides[ModuleExport.String()]; !ok {
				t = t.With(ModuleExport, on)
			}
			continue
		}
		f, ok := Lookup(name)
		if !ok {
			return 0, &Error{Code: diag.CfgUnknownTransform, Msg: fmt.Sprintf("Unknown transform '%s'", name)}
		}
		t = t.With(f, on)
	}
	return t, nil
}

// ParseTargets parses the command line form "chrome:55,node:8".
func ParseTargets(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, part := range splitList(s) {
		env, version, ok := strings.Cut(part, ":")
		if !ok || env == "" || version == "" {
			return nil, fmt.Errorf("invalid target %q (expected env:version)", part)
		}
		out[strings.ToLower(strings.TrimSpace(env))] = strings.TrimSpace(version)
	}
	return out, nil
}

// ParseOverrides turns "-y a,b" / "-n c" lists into an override map.
func ParseOverrides(yes, no string) map[string]bool {
	out := make(map[string]bool)
	for _, name := range splitList(yes) {
		out[name] = true
	}
	for _, name := range splitList(no) {
		out[name] = false
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
