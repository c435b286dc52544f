package catalog

import (
	"fmt"
	gomath "math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/socketforge/pkg/math"
)

// anchorSpec describes an anchor transform in the catalog file as a
// position plus Euler rotation in degrees (applied X, then Y, then Z).
type anchorSpec struct {
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
}

type moduleSpec struct {
	Name string       `yaml:"name"`
	In   *anchorSpec  `yaml:"in"`
	Out  []anchorSpec `yaml:"out"`
}

type fileSpec struct {
	Modules []moduleSpec `yaml:"modules"`
}

// LoadFile loads a module catalog from a YAML file.
func LoadFile(path string) ([]Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) ([]Module, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	modules := make([]Module, 0, len(spec.Modules))
	for i, ms := range spec.Modules {
		if ms.Name == "" {
			return nil, fmt.Errorf("catalog module %d has no name", i)
		}

		in := math.Identity()
		if ms.In != nil {
			in = ms.In.mat4()
		}

		out := make([]math.Mat4, 0, len(ms.Out))
		for _, as := range ms.Out {
			out = append(out, as.mat4())
		}

		modules = append(modules, Module{Name: ms.Name, In: in, Out: out})
	}

	return modules, nil
}

func (a anchorSpec) mat4() math.Mat4 {
	m := math.Translate(a.Position[0], a.Position[1], a.Position[2])
	m = m.Mul(math.RotateZ(radians(a.Rotation[2])))
	m = m.Mul(math.RotateY(radians(a.Rotation[1])))
	m = m.Mul(math.RotateX(radians(a.Rotation[0])))
	return m
}

func radians(deg float32) float32 {
	return deg * float32(gomath.Pi) / 180
}
