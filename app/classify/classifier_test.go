package classify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDispatcherClassify(t *testing.T) {
	d := NewDispatcher(map[string]Classifier{
		"ynet": ClassifierFunc(func(text string) bool { return text == "accident" }),
	})

	got, err := d.Classify("ynet", "accident")
	if err != nil || !got {
		t.Errorf("Expected (true, nil), got: (%v, %v)", got, err)
	}

	got, err = d.Classify("ynet", "weather")
	if err != nil || got {
		t.Errorf("Expected (false, nil), got: (%v, %v)", got, err)
	}
}

func TestDispatcherMissingClassifierFailsLoudly(t *testing.T) {
	d := NewDispatcher(map[string]Classifier{})

	_, err := d.Classify("walla", "תאונה")
	if !errors.Is(err, ErrNoClassifier) {
		t.Errorf("Expected ErrNoClassifier, got: %v", err)
	}
}

func TestDispatcherIsImmutable(t *testing.T) {
	classifiers := map[string]Classifier{"ynet": NewsFlashKeywords}
	d := NewDispatcher(classifiers)
	delete(classifiers, "ynet")

	if _, err := d.Classify("ynet", "x"); err != nil {
		t.Errorf("Dispatcher must not share the caller's map, got: %v", err)
	}
}

func TestDispatcherCovers(t *testing.T) {
	d := Default()

	if err := d.Covers([]string{"ynet", "walla"}); err != nil {
		t.Errorf("Expected default dispatcher to cover the scrape sources, got: %v", err)
	}

	err := d.Covers([]string{"ynet", "maariv"})
	if !errors.Is(err, ErrNoClassifier) {
		t.Errorf("Expected ErrNoClassifier for maariv, got: %v", err)
	}
}

func TestDefaultSources(t *testing.T) {
	got := Default().Sources()
	want := []string{"twitter", "walla", "ynet"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got: %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got: %v", want, got)
		}
	}
}

func TestNewsFlashKeywords(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "רוכב אופנוע נפצע קשה בתאונה בכביש 4", want: true},
		{text: "הולך רגל נפגע מרכב ברחוב הרצל", want: true},
		{text: "תְּאוּנָה בצומת גולני", want: true},
		{text: "פועל נפצע בתאונת עבודה באתר בנייה", want: false},
		{text: "תחזית: גשם בצפון", want: false},
		{text: "", want: false},
	}

	for _, tt := range tests {
		if got := NewsFlashKeywords.Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestTweetKeywords(t *testing.T) {
	if !TweetKeywords.Classify("צוותי מד\"א מעניקים טיפול לאחר התנגשות בין שני רכבים") {
		t.Error("Expected collision tweet to be an accident")
	}
	if TweetKeywords.Classify("צוותי מד\"א מעניקים טיפול לגבר לאחר נפילה מגובה") {
		t.Error("Expected fall tweet not to be an accident")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classifiers.yml")
	content := `classifiers:
  ynet:
    include: ["crash"]
    exclude: ["work accident"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got, _ := d.Classify("ynet", "Crash on Highway 1"); !got {
		t.Error("Expected loaded keywords to match")
	}
	if got, _ := d.Classify("ynet", "crash after work accident"); got {
		t.Error("Expected exclude keyword to win")
	}
	if _, err := d.Classify("walla", "crash"); !errors.Is(err, ErrNoClassifier) {
		t.Errorf("Expected only configured sources, got: %v", err)
	}
}

func TestLoadRejectsEmptyInclude(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classifiers.yml")
	if err := os.WriteFile(path, []byte("classifiers:\n  ynet:\n    exclude: [x]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for classifier without include keywords")
	}
}
