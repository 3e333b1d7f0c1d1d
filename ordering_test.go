package pagescope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Direction_Valid(t *testing.T) {
	tests := []struct {
		name  string
		in    Direction
		valid bool
	}{
		{"ASC valid", DirectionASC, true},
		{"DESC valid", DirectionDESC, true},
		{"lower case invalid", Direction("asc"), false},
		{"empty invalid", Direction(""), false},
	}
	for _, tt := range tests {
		if got := tt.in.Valid(); got != tt.valid {
			t.Errorf("%s: Valid=%v want %v", tt.name, got, tt.valid)
		}
	}
}

func Test_Orderings_validate(t *testing.T) {
	tests := []struct {
		name string
		ord  Orderings
		ok   bool
	}{
		{"empty is fine", Orderings{}, true},
		{"invalid direction", Orderings{{Column: "id", Direction: "bad"}}, false},
		{"empty column", Orderings{{Column: "", Direction: DirectionASC}}, false},
		{"forbidden symbols", Orderings{{Column: "id; DROP TABLE users", Direction: DirectionASC}}, false},
		{"valid list", Orderings{Asc("id"), Desc("users.created_at")}, true},
	}
	for _, tt := range tests {
		if err := tt.ord.validate(); (err == nil) != tt.ok {
			t.Errorf("%s: ok=%v err=%v", tt.name, tt.ok, err)
		}
	}
}

func Test_Orderings_ToSQL(t *testing.T) {
	ord := Orderings{Asc("a"), Desc("b")}

	require.Equal(t, []string{"a ASC", "b DESC"}, ord.ToSQLSlice())
	require.Equal(t, "a ASC, b DESC", ord.ToSQL())
	require.Equal(t, "", Orderings(nil).ToSQL())
}

func Test_Orderings_Merge(t *testing.T) {
	base := Orderings{Asc("id")}
	merged := base.Merge(Desc("id"), Asc("created_at"))

	require.Equal(t, Orderings{Desc("id"), Asc("created_at")}, merged)
	require.Equal(t, Orderings{Asc("id")}, base, "merge must not modify the receiver")
}

func Test_ParseSort(t *testing.T) {
	mapping := ColumnMapping{
		"id":   "t.id",
		"name": "t.name",
	}

	tests := []struct {
		name string
		in   []string
		ok   bool
		want Orderings
	}{
		{"too many fields", []string{"id asc nulls"}, false, nil},
		{"unknown alias", []string{"idx asc"}, false, nil},
		{"bad direction", []string{"id up"}, false, nil},
		{"bare column is ascending", []string{"id"}, true, Orderings{Asc("t.id")}},
		{"dash prefix is descending", []string{"-name"}, true, Orderings{Desc("t.name")}},
		{"valid asc", []string{"id asc"}, true, Orderings{Asc("t.id")}},
		{"valid desc", []string{"name DESC"}, true, Orderings{Desc("t.name")}},
		{"repeated column keeps last", []string{"id", "name", "-id"}, true, Orderings{Asc("t.name"), Desc("t.id")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSort(tt.in, mapping)
			if !tt.ok {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func Test_ParseSort_SuggestsClosestAlias(t *testing.T) {
	_, err := ParseSort([]string{"nmae"}, ColumnMapping{"id": "id", "name": "name"})

	require.ErrorContains(t, err, "closest: 'name'")
}

func Test_closestAlias(t *testing.T) {
	aliases := []ColumnAlias{"id", "name", "created_at"}
	tests := []struct {
		name string
		in   ColumnAlias
		out  ColumnAlias
	}{
		{"closest to id", "idx", "id"},
		{"closest to name", "nme", "name"},
		{"closest to created_at", "createdat", "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := closestAlias(tt.in, aliases); got != tt.out {
				t.Errorf("%s: got %s want %s", tt.name, got, tt.out)
			}
		})
	}
}
