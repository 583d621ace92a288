package analyzer

import (
	"fmt"
	"log/slog"
	"strings"
)

// Registry holds the constructed analyzers, split into the active set and
// the black-listed set. A registry is an immutable value: enable, disable,
// and custom-data changes persist their state and then build a fresh
// registry, re-running every constructor so constructor-time validation
// sees the new state.
type Registry struct {
	enabled  map[string]Analyzer
	disabled map[string]Analyzer
	order    []string
}

// BuildInputs is the persisted state a registry is constructed from.
type BuildInputs struct {
	// Disabled is the persisted black-list of codenames.
	Disabled []string
	// CustomData maps codename to user-supplied settings.
	CustomData map[string]map[string]string
}

// Build constructs a registry from the static registration table. A
// factory that errors is logged and omitted entirely; one that asks to be
// disabled is omitted silently. Neither aborts the build.
func Build(registrations []Registration, inputs BuildInputs, env Env, logger *slog.Logger) *Registry {
	blackListed := make(map[string]struct{}, len(inputs.Disabled))
	for _, codename := range inputs.Disabled {
		blackListed[codename] = struct{}{}
	}

	reg := &Registry{
		enabled:  make(map[string]Analyzer),
		disabled: make(map[string]Analyzer),
	}
	for _, registration := range registrations {
		codename := registration.Codename
		if _, dup := reg.enabled[codename]; dup {
			if logger != nil {
				logger.Warn("duplicate analyzer codename", "codename", codename)
			}
			continue
		}
		if _, dup := reg.disabled[codename]; dup {
			continue
		}

		instanceEnv := env
		instanceEnv.CustomData = inputs.CustomData[codename]
		result := registration.New(instanceEnv)
		if result.Err != nil {
			if logger != nil {
				logger.Warn("analyzer construction failed",
					"codename", codename, "error", result.Err.Error())
			}
			continue
		}
		if result.Disabled {
			continue
		}
		if got := result.Analyzer.Codename(); got != codename {
			if logger != nil {
				logger.Warn("analyzer codename mismatch",
					"registered", codename, "reported", got)
			}
			continue
		}

		if _, listed := blackListed[codename]; listed {
			reg.disabled[codename] = result.Analyzer
		} else {
			reg.enabled[codename] = result.Analyzer
		}
	}

	reg.order = sortedCodenames(reg.enabled)
	return reg
}

// Resolve maps a subscription entry, URL or literal work id, to the owning
// analyzer and canonical work id. Enabled analyzers are consulted in
// stable codename order; the first match wins. When no URL pattern
// matches, the entry is treated as a work id and looked up by prefix.
func (r *Registry) Resolve(entry string) (Analyzer, string, bool) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil, "", false
	}
	for _, codename := range r.order {
		if workID, ok := r.enabled[codename].URLToWorkID(entry); ok {
			return r.enabled[codename], workID, true
		}
	}
	if a, ok := r.ByWorkID(entry); ok {
		return a, entry, true
	}
	return nil, "", false
}

// ByWorkID finds the enabled analyzer owning a work id.
func (r *Registry) ByWorkID(workID string) (Analyzer, bool) {
	codename, _, err := SplitWorkID(workID)
	if err != nil {
		return nil, false
	}
	a, ok := r.enabled[codename]
	return a, ok
}

// Description is the read-only presentation view of one analyzer.
type Description struct {
	Codename    string
	DisplayName string
	SiteHost    string
	Info        string
	Enabled     bool
	CustomData  map[string]string
}

// Describe returns the presentation view of one analyzer, enabled or not.
func (r *Registry) Describe(codename string, customData map[string]map[string]string) (Description, error) {
	a, enabled := r.enabled[codename]
	if !enabled {
		var known bool
		a, known = r.disabled[codename]
		if !known {
			return Description{}, fmt.Errorf("unknown analyzer %q", codename)
		}
	}
	return Description{
		Codename:    a.Codename(),
		DisplayName: a.DisplayName(),
		SiteHost:    a.SiteHost(),
		Info:        a.Info(),
		Enabled:     enabled,
		CustomData:  customData[codename],
	}, nil
}

// ListAll returns presentation views for every known analyzer sorted by
// codename, disabled ones included.
func (r *Registry) ListAll(customData map[string]map[string]string) []Description {
	all := make(map[string]Analyzer, len(r.enabled)+len(r.disabled))
	for codename, a := range r.enabled {
		all[codename] = a
	}
	for codename, a := range r.disabled {
		all[codename] = a
	}

	descriptions := make([]Description, 0, len(all))
	for _, codename := range sortedCodenames(all) {
		desc, err := r.Describe(codename, customData)
		if err != nil {
			continue
		}
		descriptions = append(descriptions, desc)
	}
	return descriptions
}

// Known reports whether a codename exists in either set.
func (r *Registry) Known(codename string) bool {
	if _, ok := r.enabled[codename]; ok {
		return true
	}
	_, ok := r.disabled[codename]
	return ok
}

// EnabledCodenames lists active analyzers in resolution order.
func (r *Registry) EnabledCodenames() []string {
	return append([]string(nil), r.order...)
}
