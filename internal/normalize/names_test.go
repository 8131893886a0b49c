package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func record(t *testing.T, raw string) Record {
	t.Helper()
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return rec
}

func TestNamesEquivalentShapes(t *testing.T) {
	want := []string{"Action", "Drama"}

	tests := []struct {
		name string
		raw  string
	}{
		{"comma-joined string", `{"genres": "Action, Drama"}`},
		{"array of strings", `{"genres": ["Action", "Drama"]}`},
		{"array of name objects", `{"genres": [{"name": "Action"}, {"name": "Drama"}]}`},
		{"array of Name objects", `{"genres": [{"Name": "Action"}, {"Name": "Drama"}]}`},
		{"array of NameEN objects", `{"genres": [{"NameEN": "Action"}, {"NameEN": "Drama"}]}`},
		{"untrimmed string", `{"genres": " Action ,  Drama "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record(t, tt.raw)
			require.Equal(t, want, Names(rec["genres"]))
		})
	}
}

func TestNamesDiscardsEmpties(t *testing.T) {
	rec := record(t, `{"genres": [{"name": "Action"}, {"name": ""}, {}, "  ", "Drama"]}`)
	require.Equal(t, []string{"Action", "Drama"}, Names(rec["genres"]))
}

func TestNamesSingleObject(t *testing.T) {
	rec := record(t, `{"genres": {"name": "Action"}}`)
	require.Equal(t, []string{"Action"}, Names(rec["genres"]))
}

func TestNamesUnusableShapes(t *testing.T) {
	require.Nil(t, Names(nil))
	require.Nil(t, Names(42.0))
	require.Nil(t, Names(true))
	require.Nil(t, Names([]any{}))
	require.Nil(t, Names([]any{map[string]any{"id": 1.0}}))
}

func TestCreditNamesSplitsAnd(t *testing.T) {
	got := CreditNames("Joel Coen and Ethan Coen, Frances McDormand")
	require.Equal(t, []string{"Joel Coen", "Ethan Coen", "Frances McDormand"}, got)
}

func TestNamesFromFirstUsableSource(t *testing.T) {
	rec := record(t, `{
		"actors_abridged": [],
		"actors": [{"name": "Willem Dafoe"}, {"name": "Robert Pattinson"}]
	}`)
	got := CreditNamesFrom(rec, "actors_abridged", "actors")
	require.Equal(t, []string{"Willem Dafoe", "Robert Pattinson"}, got)
}

func TestNamesFromPrefersEarlierSource(t *testing.T) {
	rec := record(t, `{
		"actors_abridged": [{"name": "Abridged Actor"}],
		"actors": [{"name": "Full Actor"}]
	}`)
	got := CreditNamesFrom(rec, "actors_abridged", "actors")
	require.Equal(t, []string{"Abridged Actor"}, got)
}
