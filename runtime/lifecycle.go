package runtime

// Lifecycle is implemented by widgets that need mount/unmount hooks.
type Lifecycle interface {
	Mount()
	Unmount()
}

// Bindable widgets receive loop services before they are mounted.
type Bindable interface {
	Bind(services Services)
}

// Unbindable widgets release loop services after they are unmounted.
type Unbindable interface {
	Unbind()
}

// MountTree binds services and then calls Mount, parents before children.
// A zero Services skips binding.
func MountTree(root Widget, services Services) {
	walk(root, true, func(w Widget) {
		if b, ok := w.(Bindable); ok && !services.isZero() {
			b.Bind(services)
		}
		if m, ok := w.(Lifecycle); ok {
			m.Mount()
		}
	})
}

// UnmountTree calls Unmount and then Unbind, children before parents.
func UnmountTree(root Widget) {
	walk(root, false, func(w Widget) {
		if m, ok := w.(Lifecycle); ok {
			m.Unmount()
		}
		if u, ok := w.(Unbindable); ok {
			u.Unbind()
		}
	})
}

func walk(w Widget, preorder bool, visit func(Widget)) {
	if w == nil {
		return
	}
	if preorder {
		visit(w)
	}
	if children, ok := w.(ChildProvider); ok {
		for _, child := range children.ChildWidgets() {
			walk(child, preorder, visit)
		}
	}
	if !preorder {
		visit(w)
	}
}
