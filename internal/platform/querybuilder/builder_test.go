package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("teams").
		Where(Eq("league_id", "140"), IsNull("deleted_at")).
		OrderBy("name").
		Limit(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM teams WHERE league_id = $1 AND deleted_at IS NULL ORDER BY name LIMIT 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "140" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ExprRenumbersPlaceholders(t *testing.T) {
	query, args, err := Select("*").
		From("matches").
		Where(
			Eq("season", "2025"),
			Expr("(home_team_public_id = ? OR away_team_public_id = ?)", "esp-rma", "esp-rma"),
			IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM matches WHERE season = $1 AND (home_team_public_id = $2 OR away_team_public_id = $3) AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[1] != "esp-rma" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_WithUpsertSuffix(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("public_id", "name").
		Values("esp-rma", "Real Madrid").
		Suffix("ON CONFLICT (public_id) WHERE deleted_at IS NULL DO UPDATE SET name = EXCLUDED.name").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (public_id, name) VALUES ($1, $2) ON CONFLICT (public_id) WHERE deleted_at IS NULL DO UPDATE SET name = EXCLUDED.name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "esp-rma" || args[1] != "Real Madrid" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("quiniela_slips").
		Set("finished", true).
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "slip-1"), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE quiniela_slips SET finished = $1, updated_at = NOW() WHERE public_id = $2 AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != true || args[1] != "slip-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		PublicID string `db:"public_id"`
		Season   string `db:"season"`
		Skipped  int    `db:"-"`
	}

	query, args, err := InsertModel("quiniela_configs", row{PublicID: "cfg-1", Season: "2025"}, "")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO quiniela_configs (public_id, season) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "cfg-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
