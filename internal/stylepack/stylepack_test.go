package stylepack

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauern/styleimport/internal/model"
	"github.com/klauern/styleimport/internal/util"
)

func TestPathsCheck(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "export.json")
	master := filepath.Join(dir, "style-pack.json")
	styles := filepath.Join(dir, "styles")
	util.WriteFile(t, source, "[]")
	util.WriteFile(t, master, "[]")
	if err := os.Mkdir(styles, 0o750); err != nil {
		t.Fatal(err)
	}
	notDir := filepath.Join(dir, "plain")
	util.WriteFile(t, notDir, "")

	tests := map[string]struct {
		paths   Paths
		wantErr string
	}{
		"all present": {
			paths: Paths{Source: source, Master: master, StylesDir: styles},
		},
		"missing source": {
			paths:   Paths{Source: filepath.Join(dir, "nope.json"), Master: master, StylesDir: styles},
			wantErr: "source file",
		},
		"missing styles dir": {
			paths:   Paths{Source: source, Master: master, StylesDir: filepath.Join(dir, "gone")},
			wantErr: "project root",
		},
		"styles dir is a file": {
			paths:   Paths{Source: source, Master: master, StylesDir: notDir},
			wantErr: "not a directory",
		},
		"missing master": {
			paths:   Paths{Source: source, Master: filepath.Join(dir, "other.json"), StylesDir: styles},
			wantErr: "other.json",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.paths.Check()
			if tt.wantErr == "" {
				util.AssertNoError(t, err)
				return
			}
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Check() error = %v, want ErrNotFound", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Check() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := map[string]struct {
		input     string
		wantNames []string
		wantErr   string
	}{
		"two styles": {
			input:     `[{"name":"A","sections":[{"code":"a{}"}]},{"name":"B","sections":[]}]`,
			wantNames: []string{"A", "B"},
		},
		"empty list": {
			input:     `[]`,
			wantNames: []string{},
		},
		"extra fields allowed": {
			input:     `[{"name":"A","sections":[{"code":"","urls":[]}],"id":3,"usercssData":{}}]`,
			wantNames: []string{"A"},
		},
		"invalid json": {
			input:   `[{"name":`,
			wantErr: "malformed",
		},
		"not an array": {
			input:   `{"name":"A","sections":[]}`,
			wantErr: "root",
		},
		"missing name": {
			input:   `[{"sections":[]}]`,
			wantErr: "name",
		},
		"name not a string": {
			input:   `[{"name":7,"sections":[]}]`,
			wantErr: "0.name",
		},
		"section without code": {
			input:   `[{"name":"A","sections":[{"start":0}]}]`,
			wantErr: "code",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			styles, err := Parse([]byte(tt.input))
			if tt.wantErr != "" {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("Parse() error = %v, want ErrMalformed", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Parse() error = %q, want it to mention %q", err, tt.wantErr)
				}
				return
			}
			util.AssertNoError(t, err)
			if len(styles) != len(tt.wantNames) {
				t.Fatalf("got %d styles, want %d", len(styles), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				util.AssertEqual(t, styles[i].Name, want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	util.WriteFile(t, path, `[{"name":"Solar Flare 2","sections":[{"code":"a > b {}"},{"code":"c{}"}]}]`)

	styles, err := Load(path)
	util.AssertNoError(t, err)
	if len(styles) != 1 {
		t.Fatalf("got %d styles, want 1", len(styles))
	}
	util.AssertEqual(t, styles[0].Code(), "a > b {}c{}")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNormalize(t *testing.T) {
	var src model.Style
	input := `{"name":"Dark Stylus","enabled":false,"updateUrl":"https://example.com/u","md5Url":"https://example.com/m","originalMd5":"abc","url":"https://example.com","sections":[{"code":"x"}],"_rev":1,"updateDate":1,"id":9}`
	if err := src.UnmarshalJSON([]byte(input)); err != nil {
		t.Fatal(err)
	}
	other := model.NewStyle("Some Theme", "y")

	ticks := int64(0)
	n := Normalizer{
		Enabled: func(name string) bool { return name == "Dark Stylus" },
		Now: func() time.Time {
			ticks++
			return time.UnixMilli(1_700_000_000_000 + ticks)
		},
	}

	out, err := n.Normalize([]*model.Style{&src, other})
	util.AssertNoError(t, err)
	if len(out) != 2 {
		t.Fatalf("got %d styles, want 2", len(out))
	}

	if !out[0].Enabled() {
		t.Error("Dark Stylus should be enabled")
	}
	if out[1].Enabled() {
		t.Error("Some Theme should be disabled")
	}

	for _, s := range out {
		for _, key := range []string{model.KeyUpdateURL, model.KeyMD5URL, model.KeyOriginalMD5, model.KeyURL} {
			raw, ok := s.Get(key)
			if !ok || string(raw) != "null" {
				t.Errorf("%s %s = %s, want null", s.Name, key, raw)
			}
		}
		date, _ := s.Get(model.KeyUpdateDate)
		rev, _ := s.Get(model.KeyRev)
		if string(date) != string(rev) {
			t.Errorf("%s updateDate %s != _rev %s", s.Name, date, rev)
		}
	}

	date0, _ := out[0].Get(model.KeyUpdateDate)
	date1, _ := out[1].Get(model.KeyUpdateDate)
	util.AssertEqual(t, string(date0), "1700000000001")
	util.AssertEqual(t, string(date1), "1700000000002")

	wantKeys := "name,enabled,updateUrl,md5Url,originalMd5,url,sections,_rev,updateDate,id"
	util.AssertEqual(t, strings.Join(out[0].Keys(), ","), wantKeys)

	wantNewKeys := "name,sections,enabled,updateUrl,md5Url,originalMd5,url,updateDate,_rev"
	util.AssertEqual(t, strings.Join(out[1].Keys(), ","), wantNewKeys)

	if raw, _ := src.Get(model.KeyUpdateURL); string(raw) == "null" {
		t.Error("Normalize modified its input")
	}
}

func TestEncode(t *testing.T) {
	styles := []*model.Style{model.NewStyle("A", "a > b { content: \"&\" }")}

	data, err := Encode(styles, 4)
	util.AssertNoError(t, err)

	want := "[\n" +
		"    {\n" +
		"        \"name\": \"A\",\n" +
		"        \"sections\": [\n" +
		"            {\n" +
		"                \"code\": \"a > b { content: \\\"&\\\" }\"\n" +
		"            }\n" +
		"        ]\n" +
		"    }\n" +
		"]"
	if string(data) != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", data, want)
	}

	empty, err := Encode(nil, 4)
	util.AssertNoError(t, err)
	util.AssertEqual(t, string(empty), "[]")
}

func TestEncodeZeroIndent(t *testing.T) {
	styles := []*model.Style{model.NewStyle("A", "a{}"), model.NewStyle("B")}

	data, err := Encode(styles, 0)
	util.AssertNoError(t, err)

	want := "[\n" +
		"{\n" +
		"\"name\": \"A\",\n" +
		"\"sections\": [\n" +
		"{\n" +
		"\"code\": \"a{}\"\n" +
		"}\n" +
		"]\n" +
		"},\n" +
		"{\n" +
		"\"name\": \"B\",\n" +
		"\"sections\": []\n" +
		"}\n" +
		"]"
	if string(data) != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", data, want)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style-pack.json")
	util.WriteFile(t, path, "[]")
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatal(err)
	}

	n := Normalizer{Enabled: func(name string) bool { return name == "Global Theme" }}
	styles, err := n.Normalize([]*model.Style{
		model.NewStyle("Global Theme", "body{}"),
		model.NewStyle("B", "b{}", "c{}"),
	})
	util.AssertNoError(t, err)

	util.AssertNoError(t, Save(path, styles, 4))

	info, err := os.Stat(path)
	util.AssertNoError(t, err)
	util.AssertEqual(t, info.Mode().Perm(), os.FileMode(0o640))

	loaded, err := Load(path)
	util.AssertNoError(t, err)
	if len(loaded) != 2 {
		t.Fatalf("got %d styles, want 2", len(loaded))
	}
	for i, s := range loaded {
		util.AssertEqual(t, s.Name, styles[i].Name)
		if !model.SectionsEqual(s.Sections, styles[i].Sections) {
			t.Errorf("%s sections changed across round trip", s.Name)
		}
		for _, key := range []string{model.KeyUpdateURL, model.KeyMD5URL, model.KeyOriginalMD5, model.KeyURL} {
			raw, _ := s.Get(key)
			util.AssertEqual(t, string(raw), "null")
		}
	}
	if !loaded[0].Enabled() || loaded[1].Enabled() {
		t.Error("enabled flags not persisted")
	}

	entries, err := os.ReadDir(dir)
	util.AssertNoError(t, err)
	if len(entries) != 1 {
		t.Errorf("expected only the master file in %s, found %d entries", dir, len(entries))
	}
}

func TestSaveMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "style-pack.json")
	if err := Save(path, nil, 4); err == nil {
		t.Error("expected error when the directory does not exist")
	}
}
