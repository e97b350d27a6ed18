package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclFile is the top-level structure of an .hcl descriptor file:
//
//	module "nfc-test" {
//	  drawer {
//	    component = "DrawerItems"
//	  }
//	  route "nfc-test" {
//	    path       = "/nfc"
//	    components = { default = "NFC", menubar = "NFCMenuBar" }
//	  }
//	}
type hclFile struct {
	Modules []*hclModule `hcl:"module,block"`
}

type hclModule struct {
	Name   string      `hcl:"name,label"`
	Drawer *hclDrawer  `hcl:"drawer,block"`
	Routes []*hclRoute `hcl:"route,block"`
}

type hclDrawer struct {
	Component string       `hcl:"component,optional"`
	Label     string       `hcl:"label,optional"`
	Icon      string       `hcl:"icon,optional"`
	Children  []*hclDrawer `hcl:"item,block"`
}

type hclRoute struct {
	Name       string            `hcl:"name,label"`
	Path       string            `hcl:"path"`
	Components map[string]string `hcl:"components,optional"`
}

// parseHCL parses a single HCL file and returns its modules in block order.
func parseHCL(path string) ([]*fileDescriptor, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	out := make([]*fileDescriptor, 0, len(parsed.Modules))
	for _, m := range parsed.Modules {
		fd := &fileDescriptor{Name: m.Name}
		if m.Drawer != nil {
			d := m.Drawer.toFile()
			fd.Drawer = &d
		}
		for _, r := range m.Routes {
			fd.Routes = append(fd.Routes, fileRoute{Name: r.Name, Path: r.Path, Components: r.Components})
		}
		out = append(out, fd)
	}
	return out, nil
}

func (h *hclDrawer) toFile() fileDrawer {
	d := fileDrawer{Component: h.Component, Label: h.Label, Icon: h.Icon}
	for _, c := range h.Children {
		d.Children = append(d.Children, c.toFile())
	}
	return d
}
