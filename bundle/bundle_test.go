package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/phanxgames/electric"
)

func sampleBundle() *Bundle {
	return &Bundle{
		HTML:   "<canvas id=stage></canvas>",
		Script: "function on_frame(dt) end",
		Style:  "body { margin: 0 }",
		Scene:  []byte("elements: []\n"),
		Config: []byte("[runtime]\ndebug = true\n"),
		Extras: map[string][]byte{
			"img/hero.png": {0x89, 'P', 'N', 'G'},
			"README.txt":   []byte("hi"),
		},
	}
}

func zipOf(t *testing.T, files ...[2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f[0])
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(f[1])); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestWriteRead(t *testing.T) {
	want := sampleBundle()
	var buf bytes.Buffer
	if err := want.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.HTML != want.HTML || got.Script != want.Script || got.Style != want.Style {
		t.Errorf("text entries differ: %+v", got)
	}
	if !bytes.Equal(got.Scene, want.Scene) || !bytes.Equal(got.Config, want.Config) {
		t.Error("scene or config differ")
	}
	if len(got.Extras) != 2 || !bytes.Equal(got.Extras["img/hero.png"], want.Extras["img/hero.png"]) {
		t.Errorf("extras = %v", got.Extras)
	}
}

func TestNamesOrder(t *testing.T) {
	got := sampleBundle().Names()
	want := []string{EntryHTML, EntryScript, EntryStyle, EntryScene, EntryConfig, "README.txt", "img/hero.png"}
	if !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestReadAnyHTML(t *testing.T) {
	data := zipOf(t,
		[2]string{"assets/", ""},
		[2]string{"game.js", "legacy"},
		[2]string{"play.html", "<p>play</p>"},
		[2]string{"other.html", "<p>other</p>"},
		[2]string{"main.lua", "x = 1"},
		[2]string{"theme.css", "a{}"},
	)
	b, err := Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if b.HTML != "<p>play</p>" {
		t.Errorf("HTML = %q, want first html entry", b.HTML)
	}
	if b.Script != "x = 1" || b.Style != "a{}" {
		t.Errorf("script/style = %q/%q", b.Script, b.Style)
	}
	if _, ok := b.Extras["other.html"]; !ok {
		t.Error("second html file should be kept as an extra")
	}
	if _, ok := b.Extras["game.js"]; !ok {
		t.Error("js file should be kept as an extra")
	}
}

func TestReadPrefersIndex(t *testing.T) {
	data := zipOf(t,
		[2]string{"a.html", "a"},
		[2]string{"index.html", "index"},
	)
	b, err := Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if b.HTML != "index" {
		t.Errorf("HTML = %q, want index", b.HTML)
	}
}

func TestMissingHTML(t *testing.T) {
	data := zipOf(t, [2]string{"script.lua", "x = 1"})
	if _, err := Read(bytes.NewReader(data), int64(len(data))); !errors.Is(err, ErrMissingEntry) {
		t.Errorf("Read err = %v, want ErrMissingEntry", err)
	}
	var buf bytes.Buffer
	if err := (&Bundle{Script: "x"}).Write(&buf); !errors.Is(err, ErrMissingEntry) {
		t.Errorf("Write err = %v, want ErrMissingEntry", err)
	}
}

func TestReadNotZip(t *testing.T) {
	data := []byte("not a zip")
	if _, err := Read(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("expected error for non-zip data")
	}
}

func TestCreateOpen(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "demo")
	if err := sampleBundle().Create(name); err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := Open(name + Ext)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b.Script != sampleBundle().Script {
		t.Errorf("Script = %q", b.Script)
	}
	if _, err := Open(filepath.Join(dir, "missing.elecplayer")); err == nil {
		t.Error("expected error opening a missing file")
	}
}

func TestMount(t *testing.T) {
	rt, err := electric.New(electric.NewRecordingSurface(), electric.NewManualFrames())
	if err != nil {
		t.Fatal(err)
	}
	b := &Bundle{
		HTML:   "<canvas></canvas>",
		Config: []byte("[runtime]\nmax_delta_time = 0.1\n"),
		Scene: []byte(`
background: navy
elements:
  - type: rectangle
    id: box
    x: 0
    y: 0
    width: 10
    height: 10
    vx: 0
`),
		Script: `
loaded = false
function on_load() loaded = true end
function on_frame(dt)
  if loaded then electric.move("box", 10, 0) end
end`,
	}
	m, err := b.Mount(rt)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer m.Close()

	if got := rt.Config().Runtime.MaxDeltaTime; got != 0.1 {
		t.Errorf("max_delta_time = %v, want 0.1", got)
	}
	if rt.Background() != electric.MustParseColor("navy") {
		t.Errorf("background = %v, want navy", rt.Background())
	}
	box, ok := m.Objects["box"].(*electric.Rectangle)
	if !ok {
		t.Fatalf("box = %T", m.Objects["box"])
	}
	rt.Step(0.016)
	if box.X != 10 {
		t.Errorf("box.X = %v, want 10", box.X)
	}
}

func TestMountErrors(t *testing.T) {
	rt, err := electric.New(electric.NewRecordingSurface(), electric.NewManualFrames())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		b    *Bundle
	}{
		{"bad config", &Bundle{HTML: "x", Config: []byte("[runtime]\nmax_delta_time = -1\n")}},
		{"bad script", &Bundle{HTML: "x", Script: "function ("}},
		{"bad scene", &Bundle{HTML: "x", Scene: []byte("elements: {")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.b.Mount(rt); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAsset(t *testing.T) {
	b := sampleBundle()
	if data, err := b.Asset("README.txt"); err != nil || string(data) != "hi" {
		t.Errorf("Asset = %q, %v", data, err)
	}
	if _, err := b.Asset("nope"); err == nil {
		t.Error("expected error for missing asset")
	}
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"page.html":      "<p>x</p>",
		"logic.lua":      "y = 2",
		"scene.yml":      "elements: []",
		"electric.toml":  "[runtime]\n",
		"img/sprite.png": "png",
		"sfx/hit.wav":    "wav",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	b, err := FromDir(dir)
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}
	if b.HTML != "<p>x</p>" || b.Script != "y = 2" || string(b.Scene) != "elements: []" {
		t.Errorf("entries = %+v", b)
	}
	if len(b.Config) == 0 {
		t.Error("config not picked")
	}
	want := []string{"img/sprite.png", "sfx/hit.wav"}
	var got []string
	for n := range b.Extras {
		got = append(got, n)
	}
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Errorf("extras = %v, want %v", got, want)
	}
}

func TestFromDirMissingHTML(t *testing.T) {
	if _, err := FromDir(t.TempDir()); !errors.Is(err, ErrMissingEntry) {
		t.Errorf("err = %v, want ErrMissingEntry", err)
	}
}

func TestExampleBundle(t *testing.T) {
	b, err := FromDir(filepath.Join("..", "examples", "bundle"))
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}
	rt, err := electric.New(electric.NewRecordingSurface(), electric.NewManualFrames())
	if err != nil {
		t.Fatal(err)
	}
	m, err := b.Mount(rt)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer m.Close()

	for _, id := range []string{"paddle", "drop", "sparks", "score", "reset"} {
		if _, ok := m.Objects[id]; !ok {
			t.Errorf("object %q missing", id)
		}
	}
	rt.KeyDown("ArrowRight")
	paddle := m.Objects["paddle"].(*electric.Rectangle)
	x0 := paddle.X
	for range 10 {
		rt.Step(0.05)
	}
	if paddle.X <= x0 {
		t.Errorf("paddle did not move right: %v -> %v", x0, paddle.X)
	}
	if err := m.Engine.Err(); err != nil {
		t.Fatalf("script error: %v", err)
	}
	score := m.Objects["score"].(*electric.Label)
	score.Text = "stale"
	if !rt.Click(400, 20) {
		t.Fatal("reset button did not take the click")
	}
	if score.Text != "score: 0" {
		t.Errorf("score after reset = %q", score.Text)
	}
}
