package classify

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrNoClassifier is returned for a source without a registered classifier.
// It is never folded into a negative classification.
var ErrNoClassifier = errors.New("no classifier registered for source")

// Classifier decides whether a text reports a road accident
type Classifier interface {
	Classify(text string) bool
}

type ClassifierFunc func(text string) bool

func (f ClassifierFunc) Classify(text string) bool {
	return f(text)
}

// Dispatcher routes a text to the classifier registered for its source
type Dispatcher struct {
	classifiers map[string]Classifier
}

func NewDispatcher(classifiers map[string]Classifier) *Dispatcher {
	return &Dispatcher{classifiers: maps.Clone(classifiers)}
}

func (d *Dispatcher) Classify(source, text string) (bool, error) {
	c, ok := d.classifiers[source]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNoClassifier, source)
	}
	return c.Classify(text), nil
}

// Sources returns the registered source names, sorted
func (d *Dispatcher) Sources() []string {
	return slices.Sorted(maps.Keys(d.classifiers))
}

// Covers checks that every given source has a classifier.
func (d *Dispatcher) Covers(sources []string) error {
	var missing []string
	for _, s := range sources {
		if _, ok := d.classifiers[s]; !ok {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrNoClassifier, missing)
	}
	return nil
}
