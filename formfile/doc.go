// Package formfile loads form definitions from YAML, JSON, or TOML files.
//
// Format is auto-detected from extension (.yaml, .yml, .json, .toml).
// A definition lists the fields in order, an optional separator and
// optional pre-populated values keyed by label:
//
//	separator: ": "
//	fields:
//	  - label: Email
//	    configuration: email
//	    strategy: highest-priority
//	  - label: Full Name
//	    configuration: non-empty
//	    debounce: 500ms
//	    showRequirement: true
//	values:
//	  full_name: Jane Doe
//
// Example:
//
//	def, err := formfile.Load("signup.yaml", formfile.Options{})
//	form, err := formrig.NewLoader(def.Fields...).
//		WithSource(def.Values()).
//		Load(ctx, def.FormOptions()...)
package formfile
