package rbac

import "gopkg.in/yaml.v3"

// LoadYAML decodes a YAML policy document and validates it via Load,
// preserving the declared order of the "roles" mapping. A plain
// map[string]any decode (what Load accepts directly) loses YAML mapping
// order, which matters here because role resolution is first-match;
// LoadYAML walks the document's yaml.Node tree instead so RoleEntry
// order survives the round trip.
func LoadYAML(data []byte) (*Policy, error) {
	var generic map[string]any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, &ConfigInvalidError{Message: "invalid YAML: " + err.Error()}
	}
	if generic == nil {
		generic = map[string]any{}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigInvalidError{Message: "invalid YAML: " + err.Error()}
	}
	if len(doc.Content) == 0 {
		return Load(generic)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Load(generic)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, valueNode := root.Content[i], root.Content[i+1]
		if key.Value != "roles" || valueNode.Kind != yaml.MappingNode {
			continue
		}

		entries := make([]RoleEntry, 0, len(valueNode.Content)/2)
		for j := 0; j+1 < len(valueNode.Content); j += 2 {
			nameNode, roleNode := valueNode.Content[j], valueNode.Content[j+1]
			var roleMap map[string]any
			if err := roleNode.Decode(&roleMap); err != nil {
				return nil, &ConfigInvalidError{
					Path:    "roles." + nameNode.Value,
					Message: "invalid role document: " + err.Error(),
				}
			}
			entries = append(entries, RoleEntry{Name: nameNode.Value, Value: roleMap})
		}
		generic["roles"] = entries
		break
	}

	return Load(generic)
}
