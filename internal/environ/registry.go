package environ

import (
	"os"
	"sort"
	"strings"
)

// Environment — именованное удалённое окружение (production, sandbox, ...).
type Environment struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Token       string `json:"-"`
	Description string `json:"description"`
}

// Configured reports whether the environment has both a base URL and a token.
func (e Environment) Configured() bool {
	return e.URL != "" && e.Token != ""
}

type wellKnown struct {
	key         string
	name        string
	urlVar      string
	tokenVar    string
	description string
}

var wellKnownEnvironments = []wellKnown{
	{"production", "Production", "PRODUCTION_URL", "PRODUCTION_ADMIN_TOKEN", "Основное рабочее окружение"},
	{"sandbox", "Sandbox", "SANDBOX_URL", "SANDBOX_ADMIN_TOKEN", "Тестовое окружение"},
	{"admin", "Admin", "ADMIN_URL", "ADMIN_ADMIN_TOKEN", "Консоль администрирования"},
}

const (
	dynamicPrefix      = "ENV_"
	dynamicURLSuffix   = "_URL"
	dynamicTokenSuffix = "_TOKEN"
)

// Registry rebuilds the environment map from process env vars on every call,
// so configuration changes apply without a restart. It holds no state.
type Registry struct{}

func NewRegistry() *Registry {
	return &Registry{}
}

// List returns every environment that has at least a URL or a token set.
// Partially configured entries are surfaced on purpose instead of hidden.
func (r *Registry) List() map[string]Environment {
	out := make(map[string]Environment)

	for _, wk := range wellKnownEnvironments {
		env := Environment{
			Key:         wk.key,
			Name:        wk.name,
			URL:         strings.TrimSpace(os.Getenv(wk.urlVar)),
			Token:       strings.TrimSpace(os.Getenv(wk.tokenVar)),
			Description: wk.description,
		}
		if env.URL != "" || env.Token != "" {
			out[env.Key] = env
		}
	}

	for key, env := range discoverDynamic() {
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = env
	}

	return out
}

// Keys returns the registry keys in a stable order: well-known environments
// first, then dynamic ones sorted by name.
func (r *Registry) Keys() []string {
	list := r.List()
	keys := make([]string, 0, len(list))
	for _, wk := range wellKnownEnvironments {
		if _, ok := list[wk.key]; ok {
			keys = append(keys, wk.key)
			delete(list, wk.key)
		}
	}
	rest := make([]string, 0, len(list))
	for key := range list {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Get resolves a single environment key against a fresh snapshot.
func (r *Registry) Get(key string) (Environment, bool) {
	env, ok := r.List()[key]
	return env, ok
}

// discoverDynamic folds ENV_<NAME>_URL / ENV_<NAME>_TOKEN pairs into
// environment entries keyed by <name> lower-cased. All of the naming
// convention matching lives here.
func discoverDynamic() map[string]Environment {
	out := make(map[string]Environment)

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, dynamicPrefix) {
			continue
		}

		var envName, suffix string
		switch {
		case strings.HasSuffix(name, dynamicURLSuffix):
			envName = name[len(dynamicPrefix) : len(name)-len(dynamicURLSuffix)]
			suffix = dynamicURLSuffix
		case strings.HasSuffix(name, dynamicTokenSuffix):
			envName = name[len(dynamicPrefix) : len(name)-len(dynamicTokenSuffix)]
			suffix = dynamicTokenSuffix
		default:
			continue
		}
		if envName == "" {
			continue
		}

		key := strings.ToLower(envName)
		env, exists := out[key]
		if !exists {
			env = Environment{
				Key:         key,
				Name:        envName,
				Description: "Дополнительное окружение",
			}
		}
		if suffix == dynamicURLSuffix {
			env.URL = strings.TrimSpace(value)
		} else {
			env.Token = strings.TrimSpace(value)
		}
		out[key] = env
	}

	for key, env := range out {
		if env.URL == "" && env.Token == "" {
			delete(out, key)
		}
	}
	return out
}
