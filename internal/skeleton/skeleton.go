package skeleton

import (
	"github.com/markusressel/jointdrive/internal/spatial"
)

const IndexNone = -1

// Skeleton is the bone hierarchy the joint controller reads its targets from.
type Skeleton interface {
	NumBones() int
	// FindBoneIndex returns IndexNone if no bone with the given name exists
	FindBoneIndex(name string) int
	BoneName(index int) string
	// ParentIndex returns IndexNone for a root bone
	ParentIndex(index int) int
	// LocalTransform is the animated transform of a bone relative to its parent
	LocalTransform(index int) spatial.Transform
	ComponentToWorld() spatial.Transform

	// Bodies returns the names of all bones that carry a rigid body, in body order.
	Bodies() []string
	// ForEachBodyBelow calls fn for every body at (if includeSelf) or below the
	// named bone and returns the number of calls.
	ForEachBodyBelow(name string, includeSelf bool, fn func(bodyName string)) int
}

// Animator advances the pose of a skeleton.
type Animator interface {
	Advance(dt float64)
}

// ComputeTargetTransform concatenates the local transforms from the given bone
// up to the root and maps the result into world space.
// It returns false if the parent chain loops.
func ComputeTargetTransform(skel Skeleton, boneIndex int) (spatial.Transform, bool) {
	if boneIndex < 0 || boneIndex >= skel.NumBones() {
		return spatial.Identity(), false
	}

	visited := map[int]bool{boneIndex: true}
	result := skel.LocalTransform(boneIndex)
	current := skel.ParentIndex(boneIndex)
	for current != IndexNone {
		if visited[current] {
			return spatial.Identity(), false
		}
		visited[current] = true
		result = result.Mul(skel.LocalTransform(current))
		current = skel.ParentIndex(current)
	}

	return result.Mul(skel.ComponentToWorld()), true
}

// IsBelow reports whether bone is a strict descendant of ancestor.
func IsBelow(skel Skeleton, bone int, ancestor int) bool {
	visited := map[int]bool{bone: true}
	current := skel.ParentIndex(bone)
	for current != IndexNone {
		if current == ancestor {
			return true
		}
		if visited[current] {
			return false
		}
		visited[current] = true
		current = skel.ParentIndex(current)
	}
	return false
}
