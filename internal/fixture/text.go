package fixture

import (
	"encoding/base64"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zostay/go-pstmail/item"
)

// text is a fixture string property. A plain scalar is UTF-8 text. A mapping
// with a base64 key holds 8-bit text in the item's code page:
//
//	subject: {base64: Q2Fm6Q==}
type text item.Text

func (t *text) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = text(item.UTF8Text(node.Value))
		return nil

	case yaml.MappingNode:
		var raw struct {
			Base64 string `yaml:"base64"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}

		data, err := base64.StdEncoding.DecodeString(raw.Base64)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*t = text(item.Text{Value: string(data)})
		return nil
	}

	return fmt.Errorf("line %d: text must be a string or a base64 mapping", node.Line)
}

func (t text) item() item.Text {
	return item.Text(t)
}

// data is fixture binary content, written either as a plain string or as a
// base64 mapping like text.
type data []byte

func (d *data) UnmarshalYAML(node *yaml.Node) error {
	var t text
	if err := t.UnmarshalYAML(node); err != nil {
		return err
	}
	*d = data(t.Value)
	return nil
}
