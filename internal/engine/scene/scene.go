// Package scene owns renderable objects and hands out opaque handles
// for them. It is the engine-side stand-in for a renderer's scene graph.
package scene

// Object is anything placeable in the scene.
type Object interface {
	// WorldPosition returns the object's world-space position.
	WorldPosition() (x, y, z float64)
}

// Handle identifies an object owned by a Graph. The zero Handle is
// never issued.
type Handle int64

// Graph owns a set of scene objects. Ownership of an object transfers
// to the graph on Add and back to the caller on Remove.
type Graph struct {
	nextID  Handle
	objects map[Handle]Object
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{objects: make(map[Handle]Object)}
}

// Add inserts obj and returns its handle.
func (g *Graph) Add(obj Object) Handle {
	g.nextID++
	h := g.nextID
	g.objects[h] = obj
	return h
}

// Remove detaches the object and returns it to the caller for disposal.
// Removing an unknown handle is a no-op.
func (g *Graph) Remove(h Handle) (Object, bool) {
	obj, ok := g.objects[h]
	if ok {
		delete(g.objects, h)
	}
	return obj, ok
}

// WorldPosition reports the position of the object behind h.
func (g *Graph) WorldPosition(h Handle) (x, y, z float64, ok bool) {
	obj, found := g.objects[h]
	if !found {
		return 0, 0, 0, false
	}
	x, y, z = obj.WorldPosition()
	return x, y, z, true
}

// Contains reports whether h is currently in the graph.
func (g *Graph) Contains(h Handle) bool {
	_, ok := g.objects[h]
	return ok
}

// Len returns the number of objects in the graph.
func (g *Graph) Len() int { return len(g.objects) }

// ForEach calls fn for every object in the graph. fn must not mutate
// the graph.
func (g *Graph) ForEach(fn func(h Handle, obj Object)) {
	for h, obj := range g.objects {
		fn(h, obj)
	}
}
