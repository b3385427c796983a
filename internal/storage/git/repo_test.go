package git

import (
	"errors"
	"os"
	"slices"
	"testing"
)

func openTest(t *testing.T) *Repo {
	t.Helper()
	g, err := Open(t.TempDir(), "Test User", "test@example.com")
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// save writes content to name and commits it.
func save(t *testing.T, g *Repo, name, content string) bool {
	t.Helper()
	changed, err := g.Update(t.Context(), "save "+content, func() ([]string, error) {
		return []string{name}, os.WriteFile(g.Path(name), []byte(content), 0o600)
	})
	if err != nil {
		t.Fatal(err)
	}
	return changed
}

func subjects(t *testing.T, g *Repo, path string, limit int) []string {
	t.Helper()
	log, err := g.Log(path, limit)
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, c := range log {
		out = append(out, c.Subject)
	}
	return out
}

func TestOpen(t *testing.T) {
	dir := t.TempDir() + "/ws"
	g, err := Open(dir, "a", "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir + "/.git"); err != nil {
		t.Fatal(err)
	}
	save(t, g, "a.md", "x")
	g, err = Open(dir, "a", "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got := subjects(t, g, "", 0); len(got) != 1 {
		t.Errorf("reopened log = %v", got)
	}
}

func TestRepo_empty(t *testing.T) {
	g := openTest(t)
	if log, err := g.Log("a.md", 10); err != nil || len(log) != 0 {
		t.Errorf("Log() = %v, %v", log, err)
	}
	if _, err := g.Show("HEAD", "a.md"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Show(HEAD) = %v, want ErrNotFound", err)
	}
}

func TestRepo_Update(t *testing.T) {
	g := openTest(t)
	if !save(t, g, "a.md", "v1") {
		t.Error("first save made no commit")
	}
	if save(t, g, "a.md", "v1") {
		t.Error("identical save made a commit")
	}
	if err := os.WriteFile(g.Path("stray.md"), []byte("untracked"), 0o600); err != nil {
		t.Fatal(err)
	}
	if save(t, g, "a.md", "v1") {
		t.Error("untracked file caused a commit")
	}
	boom := errors.New("boom")
	if _, err := g.Update(t.Context(), "x", func() ([]string, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("Update() = %v, want %v", err, boom)
	}
	if changed, err := g.Update(t.Context(), "x", func() ([]string, error) { return nil, nil }); changed || err != nil {
		t.Errorf("Update(nothing) = %v, %v", changed, err)
	}
	if got := subjects(t, g, "", 0); !slices.Equal(got, []string{"save v1"}) {
		t.Errorf("log = %v", got)
	}
}

func TestRepo_Log(t *testing.T) {
	g := openTest(t)
	for _, v := range []string{"v1", "v2", "v3"} {
		save(t, g, "a.md", v)
	}
	save(t, g, "b.csv", "other")
	if got, want := subjects(t, g, "a.md", 10), []string{"save v3", "save v2", "save v1"}; !slices.Equal(got, want) {
		t.Errorf("Log(a.md) = %v, want %v", got, want)
	}
	if got := subjects(t, g, "a.md", 2); len(got) != 2 {
		t.Errorf("Log(a.md, 2) = %v", got)
	}
	if got := subjects(t, g, "", 0); len(got) != 4 || got[0] != "save other" {
		t.Errorf("Log() = %v", got)
	}
}

func TestRepo_Show(t *testing.T) {
	g := openTest(t)
	save(t, g, "a.md", "content v1")
	save(t, g, "a.md", "content v2")
	log, err := g.Log("a.md", 0)
	if err != nil || len(log) != 2 {
		t.Fatalf("Log() = %v, %v", log, err)
	}
	tests := []struct {
		rev, path, want string
	}{
		{log[1].Hash, "a.md", "content v1"},
		{log[1].Hash[:8], "a.md", "content v1"},
		{"HEAD", "a.md", "content v2"},
	}
	for _, tt := range tests {
		got, err := g.Show(tt.rev, tt.path)
		if err != nil || string(got) != tt.want {
			t.Errorf("Show(%s) = %q, %v, want %q", tt.rev, got, err, tt.want)
		}
	}
	for _, rev := range []string{"not-a-rev", "0123456789012345678901234567890123456789"} {
		if _, err := g.Show(rev, "a.md"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Show(%s) = %v, want ErrNotFound", rev, err)
		}
	}
	if _, err := g.Show("HEAD", "missing.md"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Show(missing) = %v, want ErrNotFound", err)
	}
}
