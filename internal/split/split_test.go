package split

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/r00tm4st3r/Split-Targets/internal/domain"
)

type recorder struct {
	chunks      []string
	written     []int
	dryValid    int
	dryChunks   int
	doneValid   int
	doneCalled  bool
	dryRunCalls int
}

func (r *recorder) ChunkWritten(path string, written, known int) {
	r.chunks = append(r.chunks, path)
	r.written = append(r.written, written)
}

func (r *recorder) DryRun(valid, chunks int) {
	r.dryRunCalls++
	r.dryValid, r.dryChunks = valid, chunks
}

func (r *recorder) Done(valid int) {
	r.doneCalled = true
	r.doneValid = valid
}

func writeInput(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "targets.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out
}

func baseOptions(input, outDir string) Options {
	return Options{
		Input:        input,
		LinesPerFile: 3,
		StartIndex:   DefaultStartIndex,
		Exclusions:   domain.NewExclusions(nil),
		OutputDir:    outDir,
		CrossChunk:   true,
	}
}

var sevenUnique = []string{
	"8.8.8.8",
	"https://example.com/login",
	"api.example.org",
	"1.1.1.1:8443",
	"http://[2606:4700::6810:84e5]/",
	"cdn.example.net",
	"9.9.9.9",
}

func TestRun_ChunkSizing(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	input := writeInput(t, in, sevenUnique...)

	rec := &recorder{}
	opts := baseOptions(input, out)
	opts.Reporter = rec

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	wantFiles := []string{
		filepath.Join(out, "targets-2.txt"),
		filepath.Join(out, "targets-3.txt"),
		filepath.Join(out, "targets-4.txt"),
	}
	if len(res.Files) != len(wantFiles) {
		t.Fatalf("Files = %v, want %v", res.Files, wantFiles)
	}
	for i, want := range wantFiles {
		if res.Files[i] != want {
			t.Errorf("Files[%d] = %q, want %q", i, res.Files[i], want)
		}
	}

	wantSizes := []int{3, 3, 1}
	for i, p := range res.Files {
		if got := len(readLines(t, p)); got != wantSizes[i] {
			t.Errorf("%s has %d lines, want %d", p, got, wantSizes[i])
		}
	}

	if res.ValidLines != 7 || res.Chunks != 3 || !res.AnyWritten {
		t.Errorf("result = %+v, want 7 valid lines, 3 chunks, AnyWritten", res)
	}
	if res.BaseName != filepath.Join(out, "targets") {
		t.Errorf("BaseName = %q", res.BaseName)
	}
	if !rec.doneCalled || rec.doneValid != 7 || len(rec.chunks) != 3 {
		t.Errorf("reporter = %+v", rec)
	}
}

func TestRun_StartIndex(t *testing.T) {
	input := writeInput(t, t.TempDir(), sevenUnique...)
	out := t.TempDir()

	opts := baseOptions(input, out)
	opts.StartIndex = 10
	opts.LinesPerFile = 5

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(out, "targets-10.txt"), filepath.Join(out, "targets-11.txt")}
	if len(res.Files) != 2 || res.Files[0] != want[0] || res.Files[1] != want[1] {
		t.Fatalf("Files = %v, want %v", res.Files, want)
	}
}

func TestRun_DryRun(t *testing.T) {
	input := writeInput(t, t.TempDir(), sevenUnique...)
	out := t.TempDir()

	rec := &recorder{}
	opts := baseOptions(input, out)
	opts.DryRun = true
	opts.Reporter = rec

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.ValidLines != 7 || res.Chunks != 3 {
		t.Fatalf("dry run = %d lines / %d chunks, want 7 / 3", res.ValidLines, res.Chunks)
	}
	if len(res.Files) != 0 || res.AnyWritten {
		t.Fatalf("dry run produced files: %+v", res)
	}
	if rec.dryRunCalls != 1 || rec.dryValid != 7 || rec.dryChunks != 3 || rec.doneCalled {
		t.Fatalf("reporter = %+v", rec)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run wrote %d entries to %s", len(entries), out)
	}
}

func TestRun_Exclusion(t *testing.T) {
	input := writeInput(t, t.TempDir(),
		"192.168.1.5",
		"http://10.0.0.1/admin",
		"23.45.67.89",
		"https://104.16.1.1/",
		"8.8.8.8",
		"not a url at all",
	)
	out := t.TempDir()

	opts := baseOptions(input, out)
	opts.LinesPerFile = 100

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 1 {
		t.Fatalf("Files = %v, want one chunk", res.Files)
	}
	got := readLines(t, res.Files[0])
	want := []string{"8.8.8.8", "not a url at all"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("chunk = %v, want %v", got, want)
	}
}

func TestRun_Deduplication(t *testing.T) {
	input := writeInput(t, t.TempDir(),
		"a.example.com", "b.example.com", "a.example.com",
		"c.example.com", "  b.example.com  ", "d.example.com",
		"a.example.com",
	)
	out := t.TempDir()

	res, err := Run(context.Background(), baseOptions(input, out))
	if err != nil {
		t.Fatal(err)
	}

	counts := map[string]int{}
	for _, p := range res.Files {
		for _, l := range readLines(t, p) {
			counts[l]++
		}
	}
	for _, l := range []string{"a.example.com", "b.example.com", "c.example.com", "d.example.com"} {
		if counts[l] != 1 {
			t.Errorf("%s appears %d times across chunks, want 1", l, counts[l])
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	input := writeInput(t, t.TempDir(), append(sevenUnique, "8.8.8.8", "cdn.example.net")...)
	out := t.TempDir()
	opts := baseOptions(input, out)

	first, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	before := map[string][]string{}
	for _, p := range first.Files {
		before[p] = readLines(t, p)
	}

	rec := &recorder{}
	opts.Reporter = rec
	second, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.AnyWritten {
		t.Fatalf("second run reported new lines")
	}
	for i, n := range rec.written {
		if n != 0 {
			t.Errorf("chunk %s: second run wrote %d lines", rec.chunks[i], n)
		}
	}
	for _, p := range second.Files {
		if strings.Join(readLines(t, p), "|") != strings.Join(before[p], "|") {
			t.Errorf("%s changed on second run", p)
		}
	}
}

func TestRun_MissingInput(t *testing.T) {
	out := t.TempDir()
	res, err := Run(context.Background(), baseOptions(filepath.Join(out, "nope.txt"), out))
	if !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("err = %v, want ErrInputNotFound", err)
	}
	if len(res.Files) != 0 || res.ValidLines != 0 {
		t.Fatalf("result = %+v, want empty", res)
	}
}

func TestRun_InvalidLinesPerFile(t *testing.T) {
	input := writeInput(t, t.TempDir(), "8.8.8.8")
	opts := baseOptions(input, t.TempDir())
	opts.LinesPerFile = 0

	if _, err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for zero lines per file")
	}
}

func TestRun_Canceled(t *testing.T) {
	input := writeInput(t, t.TempDir(), sevenUnique...)
	out := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, baseOptions(input, out))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("canceled run returned files: %v", res.Files)
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 0 {
		t.Fatalf("canceled run wrote %d files", len(entries))
	}
}

func TestRun_WrapInput(t *testing.T) {
	input := writeInput(t, t.TempDir(), sevenUnique...)
	opts := baseOptions(input, t.TempDir())
	opts.DryRun = true

	var gotSize int64
	opts.WrapInput = func(r io.Reader, size int64) io.Reader {
		gotSize = size
		return r
	}
	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	st, _ := os.Stat(input)
	if gotSize != st.Size() {
		t.Fatalf("WrapInput size = %d, want %d", gotSize, st.Size())
	}
}

func TestRun_VeryLongLine(t *testing.T) {
	long := strings.Repeat("a", 17<<20) + ".example.com"
	input := writeInput(t, t.TempDir(), "8.8.8.8", long, "9.9.9.9")
	opts := baseOptions(input, t.TempDir())
	opts.LinesPerFile = 10

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.ValidLines != 3 || len(res.Files) != 1 {
		t.Fatalf("ValidLines = %d, files = %v, want 3 lines in 1 file", res.ValidLines, res.Files)
	}

	b, err := os.ReadFile(res.Files[0])
	if err != nil {
		t.Fatal(err)
	}
	if want := "8.8.8.8\n" + long + "\n9.9.9.9\n"; string(b) != want {
		t.Fatalf("chunk file has %d bytes, want %d", len(b), len(want))
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "/tmp/scope.txt", want: filepath.Join("out", "scope")},
		{input: "scope.list.txt", want: filepath.Join("out", "scope.list")},
		{input: "scope", want: filepath.Join("out", "scope")},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := BaseName("out", tt.input); got != tt.want {
				t.Errorf("BaseName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
