package domain

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// Package is the project metadata read from package.json.
type Package struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Homepage    string `json:"homepage"`
	Author      any    `json:"author"`
	License     string `json:"license"`
	// Extra holds every top-level field, including the ones above.
	Extra map[string]any `json:"-"`
}

// ParsePackage decodes a package.json document.
func ParsePackage(data []byte) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, zerr.Wrap(err, ErrPackageManifest.Error())
	}
	if err := json.Unmarshal(data, &pkg.Extra); err != nil {
		return nil, zerr.Wrap(err, ErrPackageManifest.Error())
	}
	return &pkg, nil
}

// TemplateData returns the package as a generic map so templates can reach any field.
func (p *Package) TemplateData() map[string]any {
	if p == nil {
		return map[string]any{}
	}
	data := make(map[string]any, len(p.Extra)+6)
	for k, v := range p.Extra {
		data[k] = v
	}
	data["name"] = p.Name
	data["version"] = p.Version
	data["description"] = p.Description
	data["homepage"] = p.Homepage
	data["license"] = p.License
	if p.Author != nil {
		data["author"] = p.Author
	}
	return data
}
