package classify

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lysyi3m/flash-comb/app/newsflash"
	"gopkg.in/yaml.v3"
)

// KeywordClassifier reports an accident when the text contains one of the
// include keywords and none of the exclude keywords.
type KeywordClassifier struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

func (k KeywordClassifier) Classify(text string) bool {
	normalized := newsflash.NormalizeText(text)
	if normalized == "" {
		return false
	}

	for _, kw := range k.Exclude {
		if strings.Contains(normalized, newsflash.NormalizeText(kw)) {
			return false
		}
	}

	for _, kw := range k.Include {
		if strings.Contains(normalized, newsflash.NormalizeText(kw)) {
			return true
		}
	}

	return false
}

// NewsFlashKeywords matches accident reports in news site flashes
var NewsFlashKeywords = KeywordClassifier{
	Include: []string{
		"תאונ", "התנגש", "נפגע", "נפצע", "נהרג", "הולך רגל", "הולכת רגל",
		"נדרס", "נדרסה", "דריסה", "התהפך", "התהפכה", "רוכב אופנוע", "רוכב אופניים", "קורקינט",
	},
	Exclude: []string{
		"תאונת עבודה", "פיגוע", "יריות", "נדקר", "טביעה", "שריפה", "רקטה", "ביטוח",
	},
}

// TweetKeywords matches accident reports in emergency service tweets
var TweetKeywords = KeywordClassifier{
	Include: []string{
		"תאונ", "התנגשות", "פגיעת", "נפגע", "הולך רגל", "הולכת רגל", "רוכב", "דריסה", "התהפכות",
	},
	Exclude: []string{
		"נפילה", "טביעה", "תאונת עבודה", "חבלה", "יריות",
	},
}

// Default returns the dispatcher for the news sites and the twitter archive.
func Default() *Dispatcher {
	return NewDispatcher(map[string]Classifier{
		"ynet":    NewsFlashKeywords,
		"walla":   NewsFlashKeywords,
		"twitter": TweetKeywords,
	})
}

type keywordsFile struct {
	Classifiers map[string]KeywordClassifier `yaml:"classifiers"`
}

// Load reads per-source keyword classifiers from a YAML file. An empty path
// yields Default().
func Load(path string) (*Dispatcher, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file keywordsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	classifiers := make(map[string]Classifier, len(file.Classifiers))
	for source, kc := range file.Classifiers {
		if len(kc.Include) == 0 {
			return nil, fmt.Errorf("classifier %s must have at least one include keyword", source)
		}
		classifiers[source] = kc
	}

	d := NewDispatcher(classifiers)
	slog.Debug("Classifiers loaded", "path", path, "sources", d.Sources())
	return d, nil
}
