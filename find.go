package amisform

import "github.com/reoring/amisform/node"

// FindForm returns the first object in root whose type is "form" and whose
// name is formName, or nil.
func FindForm(root *node.Node, formName string) *node.Node {
	return node.Find(root, formMatcher(formName))
}

// FindForms returns every form object in root keyed by name. The first form
// wins when two share a name.
func FindForms(root *node.Node) map[string]*node.Node {
	out := map[string]*node.Node{}
	for _, f := range node.FindAll(root, isFormName) {
		name := f.Get("name").Text()
		if _, ok := out[name]; !ok {
			out[name] = f
		}
	}
	return out
}

func formMatcher(formName string) node.FindFunc {
	return func(key string, index int, value, parent *node.Node) bool {
		return isFormName(key, index, value, parent) && value.Text() == formName
	}
}

func isFormName(key string, _ int, _, parent *node.Node) bool {
	return key == "name" && parent.Get("type").Text() == "form"
}
