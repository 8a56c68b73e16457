package harness

import (
	"fmt"
	"os"

	"github.com/chmouel/wcexpect/internal/models"
	"github.com/chmouel/wcexpect/internal/wc"
	"gopkg.in/yaml.v3"
)

// fixtureItem is the YAML form of one model item. An item without content
// is a directory.
type fixtureItem struct {
	Path         string  `yaml:"path"`
	Content      *string `yaml:"content,omitempty"`
	TextStatus   string  `yaml:"text_status,omitempty"`
	PropStatus   string  `yaml:"prop_status,omitempty"`
	Revision     *int64  `yaml:"revision,omitempty"`
	Kind         string  `yaml:"kind,omitempty"`
	Locked       bool    `yaml:"locked,omitempty"`
	Switched     bool    `yaml:"switched,omitempty"`
	CheckContent bool    `yaml:"check_content,omitempty"`
}

type fixture struct {
	Items []fixtureItem `yaml:"items"`
}

// LoadFixture reads a YAML fixture file into a model.
func LoadFixture(path string) (*wc.Model, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	m, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return m, nil
}

// ParseFixture decodes a YAML fixture into a model.
func ParseFixture(data []byte) (*wc.Model, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	m := wc.New()
	for i, fi := range f.Items {
		if m.Get(fi.Path) != nil {
			return nil, fmt.Errorf("item %d: duplicate path %q", i, fi.Path)
		}
		var item *wc.Item
		if fi.Content != nil {
			item = m.AddFile(fi.Path, *fi.Content)
		} else {
			item = m.AddDir(fi.Path)
		}
		if err := fi.apply(item); err != nil {
			return nil, fmt.Errorf("item %q: %w", fi.Path, err)
		}
	}
	return m, nil
}

func (fi fixtureItem) apply(item *wc.Item) error {
	var err error
	if fi.TextStatus != "" {
		if item.TextStatus, err = models.ParseStatusKind(fi.TextStatus); err != nil {
			return err
		}
	}
	if fi.PropStatus != "" {
		if item.PropStatus, err = models.ParseStatusKind(fi.PropStatus); err != nil {
			return err
		}
	}
	if fi.Kind != "" {
		if item.KindOverride, err = models.ParseNodeKind(fi.Kind); err != nil {
			return err
		}
	}
	if fi.Revision != nil {
		item.Revision = *fi.Revision
	}
	item.Locked = fi.Locked
	item.Switched = fi.Switched
	item.CheckContent = fi.CheckContent
	return nil
}

// MarshalFixture encodes m in the fixture format, items ordered by path.
func MarshalFixture(m *wc.Model) ([]byte, error) {
	var f fixture
	for _, item := range m.Items() {
		fi := fixtureItem{
			Path:         item.Path(),
			Locked:       item.Locked,
			Switched:     item.Switched,
			CheckContent: item.CheckContent,
		}
		if content, ok := item.Content(); ok {
			fi.Content = &content
		}
		if item.TextStatus != models.StatusNormal {
			fi.TextStatus = item.TextStatus.String()
		}
		if item.PropStatus != models.StatusNone {
			fi.PropStatus = item.PropStatus.String()
		}
		if item.KindOverride != models.NodeNone {
			fi.Kind = item.KindOverride.String()
		}
		if item.Revision != models.InvalidRevision {
			rev := item.Revision
			fi.Revision = &rev
		}
		f.Items = append(f.Items, fi)
	}
	return yaml.Marshal(&f)
}
