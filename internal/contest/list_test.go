package contest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveSingleDir(t *testing.T) {
	dir := t.TempDir()

	contests, err := Resolve(dir, "2023-01-28T12", 48)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(contests) != 1 || contests[0].Dir != dir || contests[0].Hours != 48 {
		t.Errorf("contests = %v", contests)
	}
}

func TestResolveCommaSeparated(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()

	contests, err := Resolve(a+","+b, "2023-01-28", 24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(contests) != 2 {
		t.Fatalf("len = %d, want 2", len(contests))
	}
}

func TestResolveDirRequiresWindow(t *testing.T) {
	dir := t.TempDir()

	if _, err := Resolve(dir, "", 0); err == nil {
		t.Error("Resolve without -start/-hrs succeeded, want error")
	}
}

func TestResolveMissingDir(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "nope"), "2023-01-28", 24); err == nil {
		t.Error("Resolve of a nonexistent directory succeeded, want error")
	}
}

func TestResolveListFile(t *testing.T) {
	base := t.TempDir()
	dirA := filepath.Join(base, "a")
	dirB := filepath.Join(base, "b")
	for _, d := range []string{dirA, dirB} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	list := filepath.Join(base, "contests.txt")
	writeFile(t, list, "# comment\n\n"+dirA+" 2023-01-28T12 48\n"+dirB+"\n")

	contests, err := Resolve("@"+list, "2022-11-26", 24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(contests) != 2 {
		t.Fatalf("len = %d, want 2", len(contests))
	}
	if contests[0].Hours != 48 || contests[1].Hours != 24 {
		t.Errorf("hours = %d, %d; want 48, 24", contests[0].Hours, contests[1].Hours)
	}
}

func TestResolveListFileBareDirNeedsWindow(t *testing.T) {
	base := t.TempDir()
	list := filepath.Join(base, "contests.txt")
	writeFile(t, list, base+"\n")

	if _, err := Resolve("@"+list, "", 0); err == nil {
		t.Error("bare directory line without global -start/-hrs succeeded, want error")
	}
}

func TestResolveListFileBadLine(t *testing.T) {
	base := t.TempDir()
	list := filepath.Join(base, "contests.txt")
	writeFile(t, list, base+" 2023-01-28\n") // two fields

	if _, err := Resolve("@"+list, "", 0); err == nil {
		t.Error("two-field line succeeded, want error")
	}
}

func TestResolveManifest(t *testing.T) {
	base := t.TempDir()
	dirA := filepath.Join(base, "a")
	if err := os.Mkdir(dirA, 0o755); err != nil {
		t.Fatal(err)
	}

	man := filepath.Join(base, "contests.toml")
	writeFile(t, man, "[[contest]]\ndir = \""+dirA+"\"\nstart = \"2023-01-28T12\"\nhours = 48\n")

	contests, err := Resolve(man, "", 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(contests) != 1 || contests[0].Hours != 48 {
		t.Errorf("contests = %v", contests)
	}
}

func TestResolveManifestMissingDirKey(t *testing.T) {
	base := t.TempDir()
	man := filepath.Join(base, "contests.toml")
	writeFile(t, man, "[[contest]]\nstart = \"2023-01-28\"\nhours = 24\n")

	if _, err := Resolve(man, "", 0); err == nil {
		t.Error("manifest without dir key succeeded, want error")
	}
}
