package duckdb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leapxfer/pkg/dialect"
)

// Params holds DuckDB-specific connection parameters, decoded from
// core.ConnConfig.Params.
type Params struct {
	// Extensions to install and load on every connection (e.g. "httpfs", "json").
	Extensions []string `mapstructure:"extensions"`

	// Settings applied with SET on every connection (e.g. memory_limit, threads).
	Settings map[string]string `mapstructure:"settings"`

	// Secrets created once after opening, for reading from cloud storage.
	Secrets []SecretConfig `mapstructure:"secrets"`
}

// SecretConfig defines a DuckDB secret.
type SecretConfig struct {
	Type     string `mapstructure:"type"`
	Provider string `mapstructure:"provider"`
	Region   string `mapstructure:"region"`
	// Scope is a string or a list of strings.
	Scope    any    `mapstructure:"scope"`
	KeyID    string `mapstructure:"key_id"`
	Secret   string `mapstructure:"secret"`
	Endpoint string `mapstructure:"endpoint"`
	URLStyle string `mapstructure:"url_style"`
	UseSSL   *bool  `mapstructure:"use_ssl"`
}

func parseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid duckdb params: %w", err)
	}
	return p, nil
}

// setupStatements returns the per-connection statements for p, settings in
// key order so connections are configured identically.
func (p *Params) setupStatements() []string {
	stmts := make([]string, 0, 2*len(p.Extensions)+len(p.Settings))
	for _, ext := range p.Extensions {
		stmts = append(stmts, "INSTALL "+ext, "LOAD "+ext)
	}
	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmts = append(stmts, fmt.Sprintf("SET %s = %s", k, dialect.QuoteString(p.Settings[k])))
	}
	return stmts
}

func buildCreateSecretSQL(s SecretConfig) string {
	opts := []string{"TYPE " + s.Type}
	if s.Provider != "" {
		opts = append(opts, "PROVIDER "+s.Provider)
	}
	if s.Region != "" {
		opts = append(opts, "REGION "+dialect.QuoteString(s.Region))
	}
	if scope := scopeSQL(s.Scope); scope != "" {
		opts = append(opts, "SCOPE "+scope)
	}
	if s.KeyID != "" {
		opts = append(opts, "KEY_ID "+dialect.QuoteString(s.KeyID))
	}
	if s.Secret != "" {
		opts = append(opts, "SECRET "+dialect.QuoteString(s.Secret))
	}
	if s.Endpoint != "" {
		opts = append(opts, "ENDPOINT "+dialect.QuoteString(s.Endpoint))
	}
	if s.URLStyle != "" {
		opts = append(opts, "URL_STYLE "+dialect.QuoteString(s.URLStyle))
	}
	if s.UseSSL != nil {
		opts = append(opts, fmt.Sprintf("USE_SSL %t", *s.UseSSL))
	}
	return "CREATE SECRET (\n    " + strings.Join(opts, ",\n    ") + "\n)"
}

func scopeSQL(scope any) string {
	var items []string
	switch v := scope.(type) {
	case nil:
		return ""
	case string:
		return dialect.QuoteString(v)
	case []string:
		items = v
	case []any:
		for _, x := range v {
			items = append(items, fmt.Sprint(x))
		}
	default:
		return dialect.QuoteString(fmt.Sprint(v))
	}
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = dialect.QuoteString(it)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}
