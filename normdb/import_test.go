package normdb

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qtest "github.com/teranos/standoff/internal/testing"
)

const seedTSV = `# normalization seed
entity	gnd	G1	global
attr	gnd	G1	Name	Ada Lovelace
attr	gnd	G1	Category	Person

link	local	e42	G1
link	local	e42	G2
link	local	e42	G1
`

func TestImport(t *testing.T) {
	db := qtest.CreateTestDB(t)
	ctx := context.Background()

	result, err := Import(ctx, db, strings.NewReader(seedTSV))
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Entities: 1, Attributes: 2, Links: 2, Skipped: 1}, result)

	store := NewSQLStore(db, nil)

	scope, err := store.ScopeOf(ctx, "gnd", "G1")
	require.NoError(t, err)
	assert.Equal(t, ScopeGlobal, scope)

	scope, err = store.ScopeOf(ctx, "local", "e42")
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, scope, "link rows create undeclared entities as local")

	links, err := store.GlobalLinksOf(ctx, "local", "e42")
	require.NoError(t, err)
	assert.Equal(t, []string{"G1", "G2"}, links)

	attrs, err := store.AttributesOf(ctx, "gnd", "G1")
	require.NoError(t, err)
	assert.Equal(t, []Attribute{{"Name", "Ada Lovelace"}, {"Category", "Person"}}, attrs)
}

func TestImport_UpdatesScope(t *testing.T) {
	db := qtest.CreateTestDB(t)
	ctx := context.Background()

	_, err := Import(ctx, db, strings.NewReader("entity\tgnd\tG1\tlocal\n"))
	require.NoError(t, err)
	_, err = Import(ctx, db, strings.NewReader("entity\tgnd\tG1\tglobal\n"))
	require.NoError(t, err)

	scope, err := NewSQLStore(db, nil).ScopeOf(ctx, "gnd", "G1")
	require.NoError(t, err)
	assert.Equal(t, ScopeGlobal, scope)
}

func TestImport_RejectsBadRowsAtomically(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{"bad scope", "entity\tgnd\tG1\tshared\n", "scope"},
		{"short attr", "entity\tgnd\tG1\tglobal\nattr\tgnd\tG1\tName\n", "line 2"},
		{"unknown kind", "entity\tgnd\tG1\tglobal\nalias\tgnd\tG1\tX\n", "unknown row kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := qtest.CreateTestDB(t)

			_, err := Import(context.Background(), db, strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)

			var count int
			require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM norm_entities").Scan(&count))
			assert.Zero(t, count, "a failed import writes nothing")
		})
	}
}
