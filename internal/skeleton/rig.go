package skeleton

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/spatial"
)

// Bone describes one entry of a Rig.
type Bone struct {
	Name    string
	Parent  string
	Local   spatial.Transform
	HasBody bool
}

type rigBone struct {
	name    string
	parent  int
	local   spatial.Transform
	hasBody bool
}

// Rig is a Skeleton whose hierarchy is fixed at creation and whose local
// rotations can be animated at runtime.
type Rig struct {
	mu sync.RWMutex

	bones            []rigBone
	index            map[string]int
	bodies           []string
	componentToWorld spatial.Transform
}

// NewRig creates a rig from the given bones. Parents may be listed after their
// children but must exist.
func NewRig(bones []Bone, componentToWorld spatial.Transform) (*Rig, error) {
	rig := &Rig{
		index:            map[string]int{},
		componentToWorld: componentToWorld,
	}

	for i, bone := range bones {
		if _, exists := rig.index[bone.Name]; exists {
			return nil, fmt.Errorf("duplicate bone name: %s", bone.Name)
		}
		rig.index[bone.Name] = i
	}

	for _, bone := range bones {
		parent := IndexNone
		if len(bone.Parent) > 0 {
			idx, ok := rig.index[bone.Parent]
			if !ok {
				return nil, fmt.Errorf("bone %s: no parent bone with name '%s' found", bone.Name, bone.Parent)
			}
			parent = idx
		}

		local := bone.Local
		if local.Rotation.Len() == 0 {
			local.Rotation = mgl64.QuatIdent()
		}

		rig.bones = append(rig.bones, rigBone{
			name:    bone.Name,
			parent:  parent,
			local:   local,
			hasBody: bone.HasBody,
		})
		if bone.HasBody {
			rig.bodies = append(rig.bodies, bone.Name)
		}
	}

	return rig, nil
}

func (r *Rig) NumBones() int {
	return len(r.bones)
}

func (r *Rig) FindBoneIndex(name string) int {
	if idx, ok := r.index[name]; ok {
		return idx
	}
	return IndexNone
}

func (r *Rig) BoneName(index int) string {
	if index < 0 || index >= len(r.bones) {
		return ""
	}
	return r.bones[index].name
}

func (r *Rig) ParentIndex(index int) int {
	if index < 0 || index >= len(r.bones) {
		return IndexNone
	}
	return r.bones[index].parent
}

func (r *Rig) LocalTransform(index int) spatial.Transform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bones[index].local
}

// SetLocalRotation replaces the animated rotation of a bone relative to its parent.
func (r *Rig) SetLocalRotation(index int, rotation mgl64.Quat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bones[index].local.Rotation = rotation
}

func (r *Rig) ComponentToWorld() spatial.Transform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.componentToWorld
}

func (r *Rig) SetComponentToWorld(transform spatial.Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.componentToWorld = transform
}

func (r *Rig) Bodies() []string {
	result := make([]string, len(r.bodies))
	copy(result, r.bodies)
	return result
}

func (r *Rig) ForEachBodyBelow(name string, includeSelf bool, fn func(bodyName string)) int {
	root := r.FindBoneIndex(name)
	if root == IndexNone {
		return 0
	}

	count := 0
	for _, body := range r.bodies {
		idx := r.index[body]
		if (includeSelf && idx == root) || IsBelow(r, idx, root) {
			fn(body)
			count++
		}
	}
	return count
}

// ComponentSpaceTransform returns the transform of a bone relative to the rig root.
func (r *Rig) ComponentSpaceTransform(index int) (spatial.Transform, bool) {
	world, ok := ComputeTargetTransform(r, index)
	if !ok {
		return world, false
	}
	return world.Mul(r.ComponentToWorld().Inverse()), true
}
