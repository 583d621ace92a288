package analyzer

import (
	"fmt"
	"strings"
)

// ParseCustomSpec parses the CLI custom-data form
// "codename/key1=value1,key2=value2". An empty pair list clears the
// analyzer's custom data.
func ParseCustomSpec(spec string) (codename string, data map[string]string, err error) {
	codename, rest, found := strings.Cut(strings.TrimSpace(spec), "/")
	codename = strings.TrimSpace(codename)
	if !found || codename == "" {
		return "", nil, fmt.Errorf("malformed custom data spec %q: want codename/key=value,...", spec)
	}

	data = map[string]string{}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return codename, data, nil
	}
	for _, pair := range strings.Split(rest, ",") {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return "", nil, fmt.Errorf("malformed custom data pair %q in %q", pair, spec)
		}
		data[key] = strings.TrimSpace(value)
	}
	return codename, data, nil
}

// ValidateCustomData trial-constructs an analyzer with the proposed data
// and discards the instance. A validation failure must leave persisted
// state untouched, so this runs before anything is written.
func ValidateCustomData(registrations []Registration, codename string, data map[string]string, env Env) error {
	for _, registration := range registrations {
		if registration.Codename != codename {
			continue
		}
		env.CustomData = data
		result := registration.New(env)
		if result.Err != nil {
			return fmt.Errorf("analyzer %s rejected custom data: %w", codename, result.Err)
		}
		return nil
	}
	return fmt.Errorf("unknown analyzer %q", codename)
}
