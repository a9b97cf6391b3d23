package manifest

import (
	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"
)

const filesKey = "files"

// entryOrder lists entry names in the order the document declares them
func entryOrder(format Format, data []byte) ([]string, error) {
	if format == FormatYAML {
		return yamlEntryOrder(data)
	}
	return tomlEntryOrder(data)
}

func tomlEntryOrder(data []byte) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var table []string
	p := unstable.Parser{}
	p.Reset(data)
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyParts(expr.Key())
			if len(table) >= 2 && table[0] == filesKey {
				add(table[1])
			}
		case unstable.KeyValue:
			full := append(append([]string(nil), table...), keyParts(expr.Key())...)
			switch {
			case len(full) >= 2 && full[0] == filesKey:
				// [files] kitty = { ... } or files.kitty.source = "..."
				add(full[1])
			case len(full) == 1 && full[0] == filesKey && expr.Value().Kind == unstable.InlineTable:
				// files = { kitty = { ... } }
				it := expr.Value().Children()
				for it.Next() {
					child := it.Node()
					if child.Kind != unstable.KeyValue {
						continue
					}
					if parts := keyParts(child.Key()); len(parts) > 0 {
						add(parts[0])
					}
				}
			}
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return names, nil
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

func yamlEntryOrder(data []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil
	}

	var names []string
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != filesKey {
			continue
		}
		files := root.Content[i+1]
		if files.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(files.Content); j += 2 {
			names = append(names, files.Content[j].Value)
		}
	}
	return names, nil
}
