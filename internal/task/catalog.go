package task

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Info is the display metadata attached to a task. It belongs to the UI
// layer; the session controller never reads it.
type Info struct {
	Name            string   `yaml:"name"`
	BPM             string   `yaml:"bpm"`
	Description     string   `yaml:"description"`
	Characteristics []string `yaml:"characteristics"`
	Color           string   `yaml:"color"`
	Track           TrackRef `yaml:"track"`
}

var catalog = mustParseCatalog(catalogYAML)

func mustParseCatalog(data []byte) map[Task]Info {
	c, err := parseCatalog(data)
	if err != nil {
		panic("task: embedded catalog: " + err.Error())
	}
	return c
}

func parseCatalog(data []byte) (map[Task]Info, error) {
	var raw map[string]Info
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[Task]Info, len(All))
	for _, t := range All {
		info, ok := raw[t.String()]
		if !ok {
			return nil, fmt.Errorf("missing entry for %s", t)
		}
		if info.Track == "" {
			return nil, fmt.Errorf("%s has no track", t)
		}
		out[t] = info
	}
	return out, nil
}

// Lookup returns the display metadata for t. It panics for tasks outside the
// enumeration.
func Lookup(t Task) Info {
	info, ok := catalog[t]
	if !ok {
		panic(fmt.Sprintf("task: no catalog entry for %s", t))
	}
	return info
}
