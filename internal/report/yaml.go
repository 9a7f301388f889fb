package report

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type yamlReport struct {
	ID          string       `yaml:"id,omitempty"`
	Format      string       `yaml:"format"`
	Source      string       `yaml:"source,omitempty"`
	Diagnostics []string     `yaml:"diagnostics,omitempty"`
	Sheets      []*yamlSheet `yaml:"sheets"`
}

type yamlSheet struct {
	Name    string       `yaml:"name"`
	Columns []string     `yaml:"columns"`
	Rows    []*yaml.Node `yaml:"rows"`
}

// WriteYAML writes the report as one YAML document. Each row is a mapping
// from column name to cell, in column order.
func WriteYAML(w io.Writer, r *Report) error {
	doc := yamlReport{
		ID:          r.ID,
		Format:      r.Format,
		Source:      r.Source,
		Diagnostics: r.Diagnostics,
	}
	for _, sheet := range r.Sheets {
		ys := &yamlSheet{Name: sheet.Name, Columns: sheet.ColumnNames(), Rows: []*yaml.Node{}}
		for _, row := range sheet.Rows {
			node, err := rowNode(ys.Columns, row)
			if err != nil {
				return errors.Wrapf(err, "Failed to encode row of %q", sheet.Name)
			}
			ys.Rows = append(ys.Rows, node)
		}
		doc.Sheets = append(doc.Sheets, ys)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return errors.Wrap(err, "Failed to encode report")
	}
	return errors.Wrap(enc.Close(), "Failed to encode report")
}

func rowNode(columns []string, row []interface{}) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, name := range columns {
		var value yaml.Node
		if i < len(row) {
			if err := value.Encode(row[i]); err != nil {
				return nil, err
			}
		} else {
			value = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}, &value)
	}
	return node, nil
}
