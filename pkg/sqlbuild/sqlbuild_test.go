package sqlbuild

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/leapstack-labs/leapxfer/pkg/core"
	"github.com/leapstack-labs/leapxfer/pkg/dialects/clickhouse"
	"github.com/leapstack-labs/leapxfer/pkg/dialects/postgres"
	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		sel  *Select
		want string
	}{
		{
			name: "star",
			sel:  NewSelect("db.events"),
			want: "SELECT * FROM db.events",
		},
		{
			name: "projection and limit",
			sel:  NewSelect("db.events", "id", "name").Limit(100),
			want: "SELECT id, name FROM db.events LIMIT 100",
		},
		{
			name: "limit zero is kept",
			sel:  NewSelect("db.events").Limit(0),
			want: "SELECT * FROM db.events LIMIT 0",
		},
		{
			name: "joins in order",
			sel: NewSelect("db.events", "events.id", "users.name").
				Join("db.users", "events.user_id = users.id").
				Join("db.orgs", "users.org_id = orgs.id"),
			want: "SELECT events.id, users.name FROM db.events " +
				"JOIN db.users ON events.user_id = users.id " +
				"JOIN db.orgs ON users.org_id = orgs.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.String())
		})
	}
}

func TestSelect_OneJoinPerPair(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("N joins produce N JOIN clauses in order", prop.ForAll(
		func(n int) bool {
			s := NewSelect("db.base")
			for i := 0; i < n; i++ {
				s.Join(fmt.Sprintf("db.t%d", i), fmt.Sprintf("base.id = t%d.id", i))
			}
			var joins []string
			for _, c := range s.Clauses() {
				if strings.HasPrefix(c, "JOIN ") {
					joins = append(joins, c)
				}
			}
			if len(joins) != n {
				return false
			}
			for i, c := range joins {
				if !strings.HasPrefix(c, fmt.Sprintf("JOIN db.t%d ON", i)) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 12),
	))

	properties.TestingRun(t)
}

func TestCreateTable(t *testing.T) {
	defs := []ColumnDef{
		{Name: "id", Kind: core.KindInt},
		{Name: "active", Kind: core.KindBool},
		{Name: "blob", Kind: core.KindUnknown},
	}

	assert.Equal(t,
		"CREATE TABLE db.fresh (`id` Int64, `active` UInt8, `blob` String) ENGINE = MergeTree() ORDER BY tuple()",
		CreateTable(clickhouse.ClickHouse, "db.fresh", defs))

	assert.Equal(t,
		`CREATE TABLE public.fresh ("id" BIGINT, "active" SMALLINT, "blob" TEXT)`,
		CreateTable(postgres.Postgres, "public.fresh", defs))
}

func TestCreateTable_NullableColumns(t *testing.T) {
	defs := []ColumnDef{
		{Name: "id", Kind: core.KindInt},
		{Name: "score", Kind: core.KindInt, Nullable: true},
		{Name: "note", Kind: core.KindUnknown, Nullable: true},
	}

	assert.Equal(t,
		"CREATE TABLE db.fresh (`id` Int64, `score` Nullable(Int64), `note` Nullable(String)) ENGINE = MergeTree() ORDER BY tuple()",
		CreateTable(clickhouse.ClickHouse, "db.fresh", defs))

	// postgres columns accept NULL as declared
	assert.Equal(t,
		`CREATE TABLE public.fresh ("id" BIGINT, "score" BIGINT, "note" TEXT)`,
		CreateTable(postgres.Postgres, "public.fresh", defs))
}

func TestInsert(t *testing.T) {
	cols := []string{"id", "active"}
	assert.Equal(t, "INSERT INTO db.t (`id`, `active`)", Insert(clickhouse.ClickHouse, "db.t", cols))
	assert.Equal(t, `INSERT INTO public.t ("id", "active") VALUES ($1, $2)`, Insert(postgres.Postgres, "public.t", cols))
}
