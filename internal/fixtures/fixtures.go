// Package fixtures embeds the sample consumption records used offline.
package fixtures

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/Veraticus/card-insights/internal/model"
	"gopkg.in/yaml.v3"
)

// NegativePie keys the all-refund category record, which has no module type of its own.
const NegativePie = "negativePie"

//go:embed records.yaml
var recordsYAML []byte

// Fixture is a sample record and the reply text that accompanies it.
type Fixture struct {
	Response string                  `yaml:"response"`
	Record   model.ConsumptionRecord `yaml:"record"`
}

type document struct {
	Records map[string]Fixture `yaml:"records"`
}

var (
	loadOnce sync.Once
	loaded   map[string]Fixture
	loadErr  error
)

// Parse decodes a fixture document.
func Parse(data []byte) (map[string]Fixture, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	for key := range doc.Records {
		if key != NegativePie && !model.ModuleType(key).Valid() {
			return nil, fmt.Errorf("unknown fixture key %q", key)
		}
	}
	return doc.Records, nil
}

// Load returns every embedded fixture keyed by module type or NegativePie.
// The returned map is shared and must not be modified.
func Load() (map[string]Fixture, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(recordsYAML)
	})
	return loaded, loadErr
}

// Get looks up one fixture by key.
func Get(key string) (Fixture, error) {
	all, err := Load()
	if err != nil {
		return Fixture{}, err
	}
	f, ok := all[key]
	if !ok {
		return Fixture{}, fmt.Errorf("no fixture for %q", key)
	}
	return f, nil
}

// Record returns a copy of the fixture record for a module type.
func Record(t model.ModuleType) (model.ConsumptionRecord, error) {
	f, err := Get(string(t))
	if err != nil {
		return model.ConsumptionRecord{}, err
	}
	return clone(f.Record), nil
}

// Keys lists fixture keys in sorted order.
func Keys() ([]string, error) {
	all, err := Load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func clone(r model.ConsumptionRecord) model.ConsumptionRecord {
	out := r
	out.Details = append([]model.DetailRecord(nil), r.Details...)
	out.TwoStoresInfo = append([]model.StoreInfo(nil), r.TwoStoresInfo...)
	if r.MultipleStores != nil {
		out.MultipleStores = model.Bool(*r.MultipleStores)
	}
	return out
}
