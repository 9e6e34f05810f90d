package appdir

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand replaces a leading ~ with the home directory and expands
// environment variables. $VAR and ${VAR} work everywhere; on Windows
// %VAR% works too and ~\ is accepted. Unset %VAR% references are kept.
func (env Env) Expand(p string) string {
	if p == "" {
		return p
	}
	expanded := os.Expand(p, env.getenv)
	if env.GOOS == "windows" {
		expanded = env.expandPercent(expanded)
	}

	if expanded == "~" {
		if home, err := env.home(); err == nil {
			return home
		}
		return expanded
	}
	if strings.HasPrefix(expanded, "~/") || (env.GOOS == "windows" && strings.HasPrefix(expanded, `~\`)) {
		if home, err := env.home(); err == nil {
			return filepath.Join(home, expanded[2:])
		}
	}
	return expanded
}

// Resolve expands p and anchors a relative result at dataDir. An empty p
// resolves to name inside dataDir.
func (env Env) Resolve(dataDir, p, name string) string {
	p = env.Expand(p)
	switch {
	case p == "":
		return filepath.Join(dataDir, name)
	case filepath.IsAbs(p):
		return p
	default:
		return filepath.Join(dataDir, p)
	}
}

func (env Env) getenv(key string) string {
	if env.Getenv == nil {
		return ""
	}
	return env.Getenv(key)
}

func (env Env) expandPercent(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] != '%' {
			b.WriteByte(p[i])
			i++
			continue
		}
		end := strings.IndexByte(p[i+1:], '%')
		if end < 0 {
			b.WriteString(p[i:])
			break
		}
		key := p[i+1 : i+1+end]
		if val := env.getenv(key); key != "" && val != "" {
			b.WriteString(val)
			i += end + 2
			continue
		}
		// %% or an unset variable: keep the % and rescan from the next byte.
		b.WriteByte('%')
		i++
	}
	return b.String()
}
