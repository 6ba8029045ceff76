package cli

// Drivers register themselves with the adapter registry in init().
import (
	_ "github.com/leapstack-labs/leapxfer/pkg/adapters/clickhouse"
	_ "github.com/leapstack-labs/leapxfer/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapxfer/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapxfer/pkg/adapters/sqlite"
)
