package claymarch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"claymarch/claybuf"

	"github.com/soypat/geometry/ms3"
)

// sceneFile is the on-disk JSON schema. Objects keep their ids so
// selection and tooling references survive a round trip.
type sceneFile struct {
	Objects  []Primitive `json:"objects"`
	Selected []uint32    `json:"selected,omitempty"`
	Control  []ms3.Vec   `json:"control,omitempty"`
}

// Save writes the scene as indented JSON.
func (s *Scene) Save(w io.Writer) error {
	f := sceneFile{Objects: s.prims, Selected: s.SelectedIDs(), Control: s.ctrl}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// SaveFile saves the scene to a JSON file with said filename.
func (s *Scene) SaveFile(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := s.Save(fp); err != nil {
		return err
	}
	return fp.Sync()
}

// LoadScene reads a scene from JSON, validating object kinds and ids.
func LoadScene(r io.Reader) (*Scene, error) {
	var f sceneFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	s := NewScene()
	for _, pr := range f.Objects {
		switch pr.Kind {
		case claybuf.KindSphere, claybuf.KindBox:
		default:
			return nil, fmt.Errorf("object %d: unknown kind %d", pr.ID, pr.Kind)
		}
		if pr.ID == 0 {
			return nil, fmt.Errorf("object with zero id")
		}
		if s.index(pr.ID) >= 0 {
			return nil, fmt.Errorf("duplicate object id %d", pr.ID)
		}
		if pr.Scale == (ms3.Vec{}) {
			pr.Scale = ms3.Vec{X: 1, Y: 1, Z: 1}
		}
		s.prims = append(s.prims, pr)
		if pr.ID >= s.nextID {
			s.nextID = pr.ID + 1
		}
	}
	for _, id := range f.Selected {
		if s.index(id) >= 0 {
			s.selected[id] = true
		}
	}
	s.ctrl = slices.Clone(f.Control)
	return s, nil
}

// LoadSceneFile loads a scene from a JSON file with said filename.
func LoadSceneFile(filename string) (*Scene, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return LoadScene(fp)
}
