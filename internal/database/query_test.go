package database

import (
	"strings"
	"testing"
)

func TestBuildItemsQuery_Empty(t *testing.T) {
	where, args := buildItemsQuery(ItemFilter{})
	if where != "" {
		t.Errorf("where = %q, want empty", where)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuildItemsQuery_ArgNumbering(t *testing.T) {
	minFloat := 0.05
	maxFloat := 0.30
	where, args := buildItemsQuery(ItemFilter{
		Rarity:   "Covert",
		FloatMin: &minFloat,
		FloatMax: &maxFloat,
		Search:   "redline",
	})

	if len(args) != 5 {
		t.Fatalf("args = %v, want 5 placeholders (search binds the pattern twice)", args)
	}
	for _, placeholder := range []string{"$1", "$2", "$3", "$4", "$5"} {
		if !strings.Contains(where, placeholder) {
			t.Errorf("where clause missing %s: %q", placeholder, where)
		}
	}
	if args[0] != "Covert" || args[1] != 0.05 || args[2] != 0.30 {
		t.Errorf("argument order wrong: %v", args)
	}
	if args[3] != "%redline%" || args[4] != "%redline%" {
		t.Errorf("search pattern args wrong: %v", args)
	}
	if !strings.HasPrefix(where, "WHERE ") {
		t.Errorf("where = %q, want WHERE prefix", where)
	}
	if strings.Count(where, " AND ")+1 < 4 {
		t.Errorf("predicates must be AND-combined: %q", where)
	}
}

func TestBuildItemsQuery_DecorationFilters(t *testing.T) {
	where, args := buildItemsQuery(ItemFilter{StickerName: "Titan"})
	if args[0] != "%Titan%" {
		t.Errorf("sticker pattern arg = %v", args[0])
	}
	if !strings.Contains(where, "IN (SELECT item_asset_id FROM item_stickers") {
		t.Errorf("sticker filter must match through a subquery: %q", where)
	}
	if !strings.Contains(where, "type = 'sticker'") {
		t.Errorf("sticker filter must pin the decoration type: %q", where)
	}

	where, _ = buildItemsQuery(ItemFilter{PatchName: "Unicorn"})
	if !strings.Contains(where, "type = 'patch'") {
		t.Errorf("patch filter must pin type patch: %q", where)
	}
}

// A sticker filter combined with the default rarity sort must stay a plain
// SELECT: a DISTINCT here would make the rarity CASE in ORDER BY invalid.
func TestListItemsSQL_DecorationFilterSortable(t *testing.T) {
	countSQL, pageSQL, args := listItemsSQL(ItemFilter{
		StickerName: "Titan",
		Page:        1,
		Limit:       50,
	})

	if strings.Contains(pageSQL, "DISTINCT") || strings.Contains(countSQL, "DISTINCT") {
		t.Errorf("decoration filter must not force DISTINCT: %q", pageSQL)
	}
	if strings.Contains(pageSQL, "JOIN") {
		t.Errorf("decoration filter must not join the outer query: %q", pageSQL)
	}
	if !strings.Contains(pageSQL, "ORDER BY CASE items.rarity") {
		t.Errorf("default sort must order by the rarity rank: %q", pageSQL)
	}
	if !strings.Contains(pageSQL, "LIMIT $2 OFFSET $3") {
		t.Errorf("limit/offset placeholders must follow the filter args: %q", pageSQL)
	}
	if len(args) != 3 || args[0] != "%Titan%" || args[1] != 50 || args[2] != 0 {
		t.Errorf("args = %v, want pattern, limit 50, offset 0", args)
	}
}

func TestBuildItemsQuery_BooleanFlags(t *testing.T) {
	where, args := buildItemsQuery(ItemFilter{HasStickers: true, HasPatches: true})
	if len(args) != 0 {
		t.Errorf("boolean flags take no arguments, got %v", args)
	}
	if !strings.Contains(where, "items.has_stickers = true") ||
		!strings.Contains(where, "items.has_patches = true") {
		t.Errorf("where = %q", where)
	}
}

func TestOrderClause(t *testing.T) {
	if got := orderClause("float_asc"); got != "items.float_value ASC" {
		t.Errorf("float_asc = %q", got)
	}
	if got := orderClause("newest"); got != "items.last_seen_at DESC" {
		t.Errorf("newest = %q", got)
	}
	// Unknown or empty sort falls back to rarity descending.
	if got := orderClause(""); got != sortClauses["rarity_desc"] {
		t.Errorf("default sort = %q", got)
	}
	if got := orderClause("bogus"); got != sortClauses["rarity_desc"] {
		t.Errorf("unknown sort = %q", got)
	}
}

func TestRarityRankSQLMirrorsModel(t *testing.T) {
	// The SQL CASE and models.RarityRank must agree or rarity sorting
	// diverges from rarity filtering.
	pairs := map[string]string{
		"Contraband":       "WHEN 'Contraband' THEN 10",
		"Covert":           "WHEN 'Covert' THEN 8",
		"Classified":       "WHEN 'Classified' THEN 7",
		"Restricted":       "WHEN 'Restricted' THEN 6",
		"Mil-Spec Grade":   "WHEN 'Mil-Spec Grade' THEN 5",
		"Industrial Grade": "WHEN 'Industrial Grade' THEN 4",
		"Consumer Grade":   "WHEN 'Consumer Grade' THEN 3",
	}
	for label, clause := range pairs {
		if !strings.Contains(rarityRankSQL, clause) {
			t.Errorf("rarityRankSQL missing %q for %s", clause, label)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 50, 0},
		{1, 50, 1},
		{50, 50, 1},
		{51, 50, 2},
		{105, 50, 3},
	}
	for _, tt := range tests {
		if got := totalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
