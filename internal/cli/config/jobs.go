package config

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/leapxfer/internal/transfer"
	"github.com/leapstack-labs/leapxfer/pkg/core"
)

// BatchJobs converts the configured jobs into runner jobs. When names is
// non-empty only those jobs are returned, in configuration order.
func (c *Config) BatchJobs(names ...string) ([]transfer.Job, error) {
	known := make(map[string]bool, len(c.Jobs))
	for _, j := range c.Jobs {
		known[j.Name] = true
	}
	for _, n := range names {
		if !known[n] {
			return nil, fmt.Errorf("job %q not found in configuration", n)
		}
	}

	jobs := make([]transfer.Job, 0, len(c.Jobs))
	for _, j := range c.Jobs {
		if len(names) > 0 && !slices.Contains(names, j.Name) {
			continue
		}
		joins := make([]core.Join, 0, len(j.Joins))
		for _, jn := range j.Joins {
			joins = append(joins, core.Join{Table: jn.Table, On: jn.On})
		}
		jobs = append(jobs, transfer.Job{
			Name:      j.Name,
			Direction: transfer.Direction(j.Direction),
			Source:    c.endpoint(j.Source),
			Target:    c.endpoint(j.Target),
			Columns:   j.Columns,
			Joins:     joins,
		})
	}
	return jobs, nil
}

func (c *Config) endpoint(ep EndpointConfig) transfer.Endpoint {
	return transfer.Endpoint{
		Conn:      MergeConn(c.Database, ep.Conn).ToConnConfig(),
		Table:     ep.Table,
		Path:      ep.Path,
		Delimiter: delimiterRune(ep.Delimiter, c.DelimiterRune()),
	}
}
