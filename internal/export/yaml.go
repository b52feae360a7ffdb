package export

import (
	"io"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/iksnae/convolog/conversations"
)

// YAMLExporter exports conversations in YAML format
type YAMLExporter struct{}

// Export exports a conversation to YAML format. The record is walked in
// stored order and rebuilt as a yaml document, so output is stable across
// runs.
func (e *YAMLExporter) Export(c *conversations.Conversation, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(yamlNodeFromJSON(gjson.ParseBytes(c.Raw())))
}

func yamlNodeFromJSON(v gjson.Result) *yaml.Node {
	switch {
	case v.IsObject():
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.ForEach(func(key, value gjson.Result) bool {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key.String()},
				yamlNodeFromJSON(value))
			return true
		})
		return node
	case v.IsArray():
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		v.ForEach(func(_, value gjson.Result) bool {
			node.Content = append(node.Content, yamlNodeFromJSON(value))
			return true
		})
		return node
	case v.Type == gjson.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case v.Type == gjson.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.String()}
	default:
		// Booleans and numbers keep their literal form; the encoder
		// resolves the tag.
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v.Raw}
	}
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
