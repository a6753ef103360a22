package postgres

import "testing"

func TestRebind(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM memos WHERE id = ?", "SELECT * FROM memos WHERE id = $1"},
		{"INSERT INTO todos (a, b, c) VALUES (?, ?, ?)", "INSERT INTO todos (a, b, c) VALUES ($1, $2, $3)"},
		{"UPDATE x SET a = ? WHERE b = ? AND c = ?", "UPDATE x SET a = $1 WHERE b = $2 AND c = $3"},
	}

	for _, tc := range cases {
		if got := rebind(tc.in); got != tc.want {
			t.Errorf("rebind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
