package clickhouse

import (
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-viper/mapstructure/v2"
)

// Params holds ClickHouse-specific connection parameters, decoded from
// core.ConnConfig.Params.
type Params struct {
	// Protocol is "native" (default) or "http".
	Protocol string `mapstructure:"protocol"`
	// Compression is "lz4", "zstd", "gzip" or "none".
	Compression string `mapstructure:"compression"`
	// Secure enables TLS.
	Secure bool `mapstructure:"secure"`
	// SkipVerify disables TLS certificate verification.
	SkipVerify  bool          `mapstructure:"skip_verify"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	// Settings are server settings sent with every query.
	Settings     map[string]any `mapstructure:"settings"`
	MaxOpenConns int            `mapstructure:"max_open_conns"`
}

func parseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid clickhouse params: %w", err)
	}
	return p, nil
}

func (p *Params) protocol() (clickhouse.Protocol, error) {
	switch strings.ToLower(p.Protocol) {
	case "", "native":
		return clickhouse.Native, nil
	case "http":
		return clickhouse.HTTP, nil
	default:
		return 0, fmt.Errorf("unknown clickhouse protocol %q", p.Protocol)
	}
}

func (p *Params) compression() (*clickhouse.Compression, error) {
	switch strings.ToLower(p.Compression) {
	case "":
		return nil, nil
	case "none":
		return &clickhouse.Compression{Method: clickhouse.CompressionNone}, nil
	case "lz4":
		return &clickhouse.Compression{Method: clickhouse.CompressionLZ4}, nil
	case "zstd":
		return &clickhouse.Compression{Method: clickhouse.CompressionZSTD}, nil
	case "gzip":
		return &clickhouse.Compression{Method: clickhouse.CompressionGZIP}, nil
	default:
		return nil, fmt.Errorf("unknown clickhouse compression %q", p.Compression)
	}
}
