package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hoanghai1803/adcraft/internal/models"
)

// newTestStore creates a Store in a temp directory whose clock returns the
// given times in order.
func newTestStore(t *testing.T, times ...time.Time) *Store {
	t.Helper()

	s := NewStore(filepath.Join(t.TempDir(), "json_outputs"))
	i := 0
	s.now = func() time.Time {
		if i >= len(times) {
			t.Fatalf("clock called %d times, only %d times provided", i+1, len(times))
		}
		now := times[i]
		i++
		return now
	}
	return s
}

func sampleRecord() models.OutputRecord {
	return models.OutputRecord{
		RequestParameters: models.GenerationRequest{
			ProductName:        "Çay & Kahve",
			ProductDescription: "<Taze> demleme",
			TargetAudience:     "Öğrenciler",
			Platform:           models.PlatformMeta,
			Tone:               models.ToneFriendly,
			Keywords:           []string{"çay", "kahve"},
			NumHeadlines:       1,
			NumCTAs:            1,
			NumSlogans:         1,
		},
		GeneratedContent: models.AdCopyResult{
			Headlines: []models.AdCopyItem{{Text: "Güne başla", CharCount: 10, OverLimit: true}},
			Body:      models.BodyText{Text: "Taze çay", CharCount: 8},
			CTAs:      []models.AdCopyItem{{Text: "Hemen al", CharCount: 8}},
			Slogans:   []models.AdCopyItem{},
		},
		RawLLMResponse: "**1. Reklam Başlıkları (1 adet):**\n- Güne başla",
	}
}

func TestSaveWritesRecord(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)
	s := newTestStore(t, at)

	name, err := s.Save(context.Background(), sampleRecord())
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if name != "reklam_metni_20260314_092653.json" {
		t.Errorf("name = %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"{\n    \"request_parameters\": {\n        \"product_name\": \"Çay & Kahve\"",
		`"product_description": "<Taze> demleme"`,
		`"generated_content"`,
		`"body": {`,
		`"raw_llm_response"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("saved JSON missing %q:\n%s", want, text)
		}
	}
	for _, unwanted := range []string{`\u0026`, `\u003c`, "over_limit", "OverLimit"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("saved JSON should not contain %q", unwanted)
		}
	}

	leftovers, _ := filepath.Glob(filepath.Join(s.dir, "*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local))
	rec := sampleRecord()

	name, err := s.Save(context.Background(), rec)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Get(context.Background(), name)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	// OverLimit is display-only and is not persisted.
	rec.GeneratedContent.Headlines[0].OverLimit = false
	if !reflect.DeepEqual(*got, rec) {
		t.Errorf("Get() =\n%+v\nwant\n%+v", *got, rec)
	}
}

func TestSaveSameSecondOverwrites(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	s := newTestStore(t, at, at.Add(500*time.Millisecond))

	first := sampleRecord()
	second := sampleRecord()
	second.RawLLMResponse = "second"

	n1, _ := s.Save(context.Background(), first)
	n2, err := s.Save(context.Background(), second)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if n1 != n2 {
		t.Fatalf("names differ: %q vs %q", n1, n2)
	}

	got, _ := s.Get(context.Background(), n2)
	if got.RawLLMResponse != "second" {
		t.Errorf("RawLLMResponse = %q, want the later record", got.RawLLMResponse)
	}
}

func TestList(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.Local)
	s := newTestStore(t, base, base.Add(time.Hour), base.Add(time.Minute))

	for i := 0; i < 3; i++ {
		if _, err := s.Save(context.Background(), sampleRecord()); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}
	// Foreign files are ignored.
	os.WriteFile(filepath.Join(s.dir, "notes.txt"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(s.dir, "reklam_metni_bad.json"), []byte("{}"), 0o644)

	entries, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	want := []string{
		"reklam_metni_20260501_130000.json",
		"reklam_metni_20260501_120100.json",
		"reklam_metni_20260501_120000.json",
	}
	if len(entries) != len(want) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Errorf("entries[%d].Name = %q, want %q", i, e.Name, want[i])
		}
		if e.Size <= 0 {
			t.Errorf("entries[%d].Size = %d", i, e.Size)
		}
	}
	if !entries[0].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("CreatedAt = %v, want %v", entries[0].CreatedAt, base.Add(time.Hour))
	}
}

func TestListMissingDirectory(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))

	entries, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("entries = %v, want empty non-nil slice", entries)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	os.MkdirAll(s.dir, 0o755)
	os.WriteFile(filepath.Join(filepath.Dir(s.dir), "secret.json"), []byte("{}"), 0o644)

	names := []string{
		"reklam_metni_20990101_000000.json",
		"../secret.json",
		"reklam_metni_20260101_000000.json/../../secret.json",
		"",
		"notes.txt",
	}
	for _, name := range names {
		if _, err := s.Get(context.Background(), name); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrNotFound", name, err)
		}
	}
}

func TestSaveCancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Save(ctx, sampleRecord()); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(s.dir); !os.IsNotExist(err) {
		t.Error("no directory should be created for a cancelled save")
	}
}
