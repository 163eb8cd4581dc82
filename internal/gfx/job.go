package gfx

import "fmt"

// KeyLength is the size of the symmetric key carried by each job for the
// downstream attribute encryption step.
const KeyLength = 16

// Handle identifies a remote node or a pending upload.
type Handle uint64

// TargetKind tags which referent a Target carries.
type TargetKind int

const (
	// TargetNode references a committed remote node.
	TargetNode TargetKind = iota + 1
	// TargetUpload references a pending upload.
	TargetUpload
)

// Target is the destination of a job's generated attributes: either a
// committed remote node or a pending upload, never both. The zero Target is
// invalid; use NodeTarget or UploadTarget.
type Target struct {
	kind   TargetKind
	handle Handle
}

// NodeTarget returns a Target referencing a committed node.
func NodeTarget(h Handle) Target { return Target{kind: TargetNode, handle: h} }

// UploadTarget returns a Target referencing a pending upload.
func UploadTarget(h Handle) Target { return Target{kind: TargetUpload, handle: h} }

// Kind returns the target's tag, zero for an invalid target.
func (t Target) Kind() TargetKind { return t.kind }

// Handle returns the referenced node or upload handle.
func (t Target) Handle() Handle { return t.handle }

// Valid reports whether the target carries a referent.
func (t Target) Valid() bool { return t.kind == TargetNode || t.kind == TargetUpload }

func (t Target) String() string {
	switch t.kind {
	case TargetNode:
		return fmt.Sprintf("node:%x", uint64(t.handle))
	case TargetUpload:
		return fmt.Sprintf("upload:%x", uint64(t.handle))
	default:
		return "invalid"
	}
}

// Job is one thumbnail/preview generation request. It is created at
// submission, owned by the request queue, then exclusively by the worker,
// then by the response queue, and finally released by the draining client.
type Job struct {
	// Path is the local path of the source file.
	Path string

	// Attrs lists the requested attributes in catalog order; result slots
	// in Images align with this list.
	Attrs []Attr

	// Target is where the finished attributes belong.
	Target Target

	// Key is the job's owned copy of the symmetric key for downstream
	// encryption. Zeroed on Release.
	Key [KeyLength]byte

	// Images holds one encoded buffer per requested attribute, aligned by
	// index with Attrs. Its length always equals len(Attrs) once the job
	// is delivered; a nil or empty slot means that dimension failed.
	Images [][]byte
}

func newJob(path string, target Target, key []byte, attrs []Attr) *Job {
	j := &Job{
		Path:   path,
		Attrs:  attrs,
		Target: target,
	}
	copy(j.Key[:], key)
	return j
}

// Dimensions resolves the job's attribute list to its dimension list, in
// the same order as the result slots.
func (j *Job) Dimensions() []Dimension {
	dims := make([]Dimension, len(j.Attrs))
	for i, a := range j.Attrs {
		dims[i] = Dimensions[a]
	}
	return dims
}

// Release zeroes the job's key material and drops the result buffers. The
// job must not be used afterwards.
func (j *Job) Release() {
	for i := range j.Key {
		j.Key[i] = 0
	}
	j.Images = nil
}
