package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"
	"gopkg.in/yaml.v3"
)

// Image is a container image reference, like "hydrosphere/serving-runtime-python-3.8:3.0.0".
type Image struct {
	Repository string
	Tag        string
}

func (i *Image) Equal(o *Image) bool {
	if (i == nil) || (o == nil) {
		return (i == nil) && (o == nil)
	}
	return i.Repository == o.Repository &&
		i.Tag == o.Tag
}

// parse string as Image Tag, and update itself.
//
// this spec is based on docker image tag spec[^1].
// When tag is omitted, it is "latest".
//
// [^1]: https://docs.docker.com/engine/reference/commandline/tag/#description
func (i *Image) Parse(s string) error {
	// [<repository>[:<port>]/]<name>:<tag>

	ref, err := name.NewTag(s, name.WithDefaultRegistry(""))
	if err != nil {
		return err
	}

	i.Repository = ref.Repository.Name()
	i.Tag = ref.TagStr()
	return nil
}

func (i *Image) marshal() string {
	if i.Repository == "" && i.Tag == "" {
		return ""
	}
	return fmt.Sprintf(`%s:%s`, i.Repository, i.Tag)
}

func (i Image) MarshalJSON() ([]byte, error) {
	b := bytes.NewBufferString(`"`)
	b.WriteString(i.marshal())
	b.WriteString(`"`)
	return b.Bytes(), nil
}

func (i Image) MarshalYAML() (interface{}, error) {
	n := yaml.Node{
		Kind:  yaml.ScalarNode,
		Value: i.marshal(),
		Style: yaml.DoubleQuotedStyle,
	}
	return n, nil
}

// set parses expr, or resets to zero Image when expr is empty.
func (i *Image) set(expr string) error {
	if expr == "" {
		*i = Image{}
		return nil
	}
	return i.Parse(expr)
}

func (i *Image) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		*i = Image{}
		return nil
	}
	expr := new(string)
	if err := node.Decode(expr); err != nil {
		return err
	}
	return i.set(*expr)
}

// UnmarshalJSON accepts a reference string. null and "" are zero Image.
func (i *Image) UnmarshalJSON(b []byte) error {
	expr := new(string)
	if err := json.Unmarshal(b, expr); err != nil {
		return err
	}
	return i.set(*expr)
}

func (i *Image) String() string {
	return i.marshal()
}
