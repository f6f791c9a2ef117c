package ontology

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/standoff/errors"
)

// Format is the encoding of an ontology document
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the document format from a file extension; JSON otherwise.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// document mirrors the on-disk layout shared by all three formats
type document struct {
	BaseNamespace string `json:"base_namespace" yaml:"base_namespace" toml:"base_namespace"`
	BaseURL       string `json:"base_url" yaml:"base_url" toml:"base_url"`
	Version       string `json:"version" yaml:"version" toml:"version"`

	Namespaces orderedNamespaces `json:"namespaces" yaml:"namespaces" toml:"-"`
	// TOML loses table order on decode; Parse restores it from MetaData.Keys
	NamespaceTable map[string]string `json:"-" yaml:"-" toml:"namespaces"`

	CategoryMap     map[string]string `json:"category_map" yaml:"category_map" toml:"category_map"`
	RelationshipMap map[string]string `json:"relationship_map" yaml:"relationship_map" toml:"relationship_map"`
	ExtendedMap     map[string]string `json:"extended_rdf_map" yaml:"extended_rdf_map" toml:"extended_rdf_map"`
	StringLiterals  map[string]string `json:"string_literals" yaml:"string_literals" toml:"string_literals"`
	ClassLiterals   map[string]string `json:"class_literals" yaml:"class_literals" toml:"class_literals"`

	Predicates Predicates `json:"predicates" yaml:"predicates" toml:"predicates"`
}

// Parse decodes, defaults and validates an ontology document.
// Every failure is marked errors.ErrConfigUnavailable.
func Parse(data []byte, format Format) (*Config, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.WrapConfigUnavailable(err, "decode JSON ontology")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.WrapConfigUnavailable(err, "decode YAML ontology")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, errors.WrapConfigUnavailable(err, "decode TOML ontology")
		}
		for _, key := range md.Keys() {
			if len(key) == 2 && key[0] == "namespaces" {
				doc.Namespaces = append(doc.Namespaces, Namespace{Prefix: key[1], URI: doc.NamespaceTable[key[1]]})
			}
		}
	default:
		return nil, errors.Mark(errors.Newf("unknown ontology format %q", format), errors.ErrConfigUnavailable)
	}

	cfg := &Config{
		BaseNamespace:   doc.BaseNamespace,
		BaseURL:         doc.BaseURL,
		Version:         doc.Version,
		Namespaces:      []Namespace(doc.Namespaces),
		CategoryMap:     doc.CategoryMap,
		RelationshipMap: doc.RelationshipMap,
		ExtendedMap:     doc.ExtendedMap,
		StringLiterals:  doc.StringLiterals,
		ClassLiterals:   doc.ClassLiterals,
		Predicates:      doc.Predicates,
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapConfigUnavailable(err, "invalid ontology")
	}
	return cfg, nil
}

// orderedNamespaces decodes a prefix→URI object keeping document order
type orderedNamespaces []Namespace

func (o *orderedNamespaces) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("namespaces must be an object of prefix to URI")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		prefix, _ := keyTok.(string)
		var uri string
		if err := dec.Decode(&uri); err != nil {
			return errors.Wrapf(err, "namespace %q", prefix)
		}
		*o = append(*o, Namespace{Prefix: prefix, URI: uri})
	}

	_, err = dec.Token()
	return err
}

func (o *orderedNamespaces) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Newf("line %d: namespaces must be a mapping of prefix to URI", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var uri string
		if err := node.Content[i+1].Decode(&uri); err != nil {
			return errors.Wrapf(err, "namespace %q", node.Content[i].Value)
		}
		*o = append(*o, Namespace{Prefix: node.Content[i].Value, URI: uri})
	}
	return nil
}
