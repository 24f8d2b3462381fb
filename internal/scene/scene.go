// Package scene is the in-process scene graph the demo renders from.
// It models the pieces of a retained-mode 3D library the point-cloud demo
// needs: objects with identity, disposable geometry and materials, lights,
// a perspective camera and a renderer interface.
//
// A Scene is not safe for concurrent use. The application mutates and renders
// it from a single loop goroutine.
package scene

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Object is anything that can be attached to a Scene.
type Object interface {
	UUID() uuid.UUID
	Name() string
	Kind() string
	node() *Node
}

// Node carries the identity and transform shared by every scene object.
type Node struct {
	id       uuid.UUID
	name     string
	Position r3.Vec
	Visible  bool
}

func newNode(name string) Node {
	return Node{id: uuid.New(), name: name, Visible: true}
}

// UUID returns the object's identity.
func (n *Node) UUID() uuid.UUID { return n.id }

// Name returns the object's name.
func (n *Node) Name() string { return n.name }

// SetName renames the object.
func (n *Node) SetName(name string) { n.name = name }

func (n *Node) node() *Node { return n }

// Scene is an ordered collection of attached objects.
type Scene struct {
	Node
	objects []Object
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{Node: newNode("scene")}
}

// Kind reports "Scene".
func (s *Scene) Kind() string { return "Scene" }

// Add attaches obj. Adding an object that is already attached is a no-op.
func (s *Scene) Add(obj Object) {
	if obj == nil || s.indexOf(obj) >= 0 {
		return
	}
	s.objects = append(s.objects, obj)
}

// Remove detaches obj and reports whether it was attached.
func (s *Scene) Remove(obj Object) bool {
	i := s.indexOf(obj)
	if i < 0 {
		return false
	}
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	return true
}

// Contains reports whether obj is attached.
func (s *Scene) Contains(obj Object) bool {
	return s.indexOf(obj) >= 0
}

// Len returns the number of attached objects.
func (s *Scene) Len() int { return len(s.objects) }

// Objects returns a copy of the attached objects in insertion order.
func (s *Scene) Objects() []Object {
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Points returns the attached point clouds in insertion order.
func (s *Scene) Points() []*Points {
	var out []*Points
	for _, obj := range s.objects {
		if p, ok := obj.(*Points); ok {
			out = append(out, p)
		}
	}
	return out
}

// Lookup finds an attached object by identity.
func (s *Scene) Lookup(id uuid.UUID) (Object, bool) {
	for _, obj := range s.objects {
		if obj.UUID() == id {
			return obj, true
		}
	}
	return nil, false
}

func (s *Scene) indexOf(obj Object) int {
	if obj == nil {
		return -1
	}
	id := obj.UUID()
	for i, o := range s.objects {
		if o.UUID() == id {
			return i
		}
	}
	return -1
}
