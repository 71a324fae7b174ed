package translation

import (
	"fmt"
	"testing"
)

type recordingTranslator struct {
	calls []string
}

func (r *recordingTranslator) Translate(text, targetLang string) (string, error) {
	r.calls = append(r.calls, text+"->"+targetLang)
	return fmt.Sprintf("[%s] %s", targetLang, text), nil
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		name    string
		samples []string
		want    string
	}{
		{"spanish", []string{"el amor que tienes por la vida"}, "es"},
		{"english", []string{"what brings you joy in your life"}, "en"},
		{"empty", nil, "en"},
		{"punctuation", []string{"¿Que te gusta de tu casa?"}, "es"},
		{"whitespace only", []string{"   "}, "en"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectLanguage(tc.samples); got != tc.want {
				t.Errorf("DetectLanguage(%v) = %q, want %q", tc.samples, got, tc.want)
			}
		})
	}
}

func TestCachePutGet(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	th := TextHash("hello")
	if _, ok, err := cache.Get(th, "es"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Put(th, "es", "hola"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok, err := cache.Get(th, "es")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || got != "hola" {
		t.Errorf("Get = (%q, %v), want (hola, true)", got, ok)
	}

	// Same text, different target language, is a distinct entry.
	if _, ok, _ := cache.Get(th, "en"); ok {
		t.Error("different target language must miss")
	}
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	th := TextHash("persist me")
	if err := first.Put(th, "en", "persisted"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	second, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	got, ok, err := second.Get(th, "en")
	if err != nil || !ok || got != "persisted" {
		t.Errorf("fresh instance Get = (%q, %v, %v), want (persisted, true, nil)", got, ok, err)
	}
}

func TestTranslateUsesCache(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	translator := &recordingTranslator{}

	first, err := Translate("hello", "es", cache, translator)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	second, err := Translate("hello", "es", cache, translator)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if len(translator.calls) != 1 {
		t.Errorf("translator called %d times, want 1", len(translator.calls))
	}
	if first != second || first != "[es] hello" {
		t.Errorf("Translate = %q / %q, want [es] hello twice", first, second)
	}
}

func TestEnsureBilingual(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	translator := &recordingTranslator{}

	en, es, err := EnsureBilingual("hello", "en", cache, translator)
	if err != nil {
		t.Fatalf("EnsureBilingual failed: %v", err)
	}
	if en != "hello" || es != "[es] hello" {
		t.Errorf("got (%q, %q), want (hello, [es] hello)", en, es)
	}

	en, es, err = EnsureBilingual("hola", "es", cache, translator)
	if err != nil {
		t.Fatalf("EnsureBilingual failed: %v", err)
	}
	if en != "[en] hola" || es != "hola" {
		t.Errorf("got (%q, %q), want ([en] hola, hola)", en, es)
	}
}
