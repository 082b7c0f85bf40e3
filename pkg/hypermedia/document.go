// Package hypermedia builds Mason documents: JSON bodies that carry their own
// navigational links and action affordances under @controls, with link relation
// namespaces under @namespaces. Builders here never touch storage; they are
// plain functions over already-resolved data so representations can be tested
// against fixed inputs.
package hypermedia

// Control is a single Mason control: a link or an action affordance.
type Control struct {
	Href     string      `json:"href"`
	Method   string      `json:"method,omitempty"`
	Encoding string      `json:"encoding,omitempty"`
	Title    string      `json:"title,omitempty"`
	Schema   interface{} `json:"schema,omitempty"`
	IsHrefT  bool        `json:"isHrefTemplate,omitempty"`
}

// Namespace declares a curie-style prefix for custom link relations.
type Namespace struct {
	Name string `json:"name"`
}

// Document is a Mason hypermedia document. Entity fields live at the top
// level next to the reserved @-prefixed members.
type Document map[string]interface{}

// NewDocument creates a document pre-populated with entity fields.
func NewDocument(fields map[string]interface{}) Document {
	doc := Document{}
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}

// AddNamespace registers a link relation namespace.
func (d Document) AddNamespace(prefix, uri string) Document {
	namespaces, ok := d["@namespaces"].(map[string]Namespace)
	if !ok {
		namespaces = map[string]Namespace{}
		d["@namespaces"] = namespaces
	}
	namespaces[prefix] = Namespace{Name: uri}
	return d
}

// AddControl attaches a GET link control under the given relation.
func (d Document) AddControl(relation, href string) Document {
	return d.AddControlFull(relation, Control{Href: href})
}

// AddControlPost attaches a POST affordance with a request schema.
func (d Document) AddControlPost(relation, title, href string, schema interface{}) Document {
	return d.AddControlFull(relation, Control{
		Href:     href,
		Method:   "POST",
		Encoding: "json",
		Title:    title,
		Schema:   schema,
	})
}

// AddControlPut attaches a PUT affordance with a request schema.
func (d Document) AddControlPut(relation, title, href string, schema interface{}) Document {
	return d.AddControlFull(relation, Control{
		Href:     href,
		Method:   "PUT",
		Encoding: "json",
		Title:    title,
		Schema:   schema,
	})
}

// AddControlDelete attaches a DELETE affordance.
func (d Document) AddControlDelete(title, href string) Document {
	return d.AddControlFull("imagenet_browser:delete", Control{
		Href:   href,
		Method: "DELETE",
		Title:  title,
	})
}

// AddControlFull attaches an arbitrary control under the given relation.
func (d Document) AddControlFull(relation string, ctrl Control) Document {
	controls, ok := d["@controls"].(map[string]Control)
	if !ok {
		controls = map[string]Control{}
		d["@controls"] = controls
	}
	controls[relation] = ctrl
	return d
}

// AddItems sets the embedded collection items.
func (d Document) AddItems(items []Document) Document {
	if items == nil {
		items = []Document{}
	}
	d["items"] = items
	return d
}

// Controls exposes the attached controls, mainly for tests.
func (d Document) Controls() map[string]Control {
	controls, _ := d["@controls"].(map[string]Control)
	return controls
}

// HasControl reports whether a control exists for the relation.
func (d Document) HasControl(relation string) bool {
	_, ok := d.Controls()[relation]
	return ok
}
