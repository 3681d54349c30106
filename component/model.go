package component

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Model is the handle of a pretrained model as exposed by the loading collaborator.
type Model interface {
	// UID returns the unique identifier of the model instance.
	UID() string

	// StorageRef returns the configured storage reference, or "" if the model has none.
	StorageRef() string

	// InputCols returns the input columns the model is configured with.
	InputCols() []string

	// SetInputCols reconfigures the model's input columns.
	SetInputCols(cols []string)

	// OutputCol returns the output column of the model.
	OutputCol() string

	// Clone returns an independent copy of the handle.
	Clone() Model
}

// Handle is the in-memory Model used for components resolved from the registry.
type Handle struct {
	class      string
	uid        string
	nlpRef     string
	language   string
	storageRef string
	inputCols  []string
	outputCol  string
}

// NewHandle creates a handle for an annotator class. The UID follows the
// CLASS_<hex> shape used by the execution engine.
func NewHandle(class, nlpRef, language string) *Handle {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return &Handle{
		class:    class,
		uid:      strings.ToUpper(class) + "_" + id[:12],
		nlpRef:   nlpRef,
		language: language,
	}
}

// WithStorageRef sets the storage reference parameter and returns the handle.
func (h *Handle) WithStorageRef(ref string) *Handle {
	h.storageRef = ref
	return h
}

// WithColumns sets input and output columns and returns the handle.
func (h *Handle) WithColumns(inputs []string, output string) *Handle {
	h.inputCols = slices.Clone(inputs)
	h.outputCol = output
	return h
}

// Class returns the annotator class the handle was created for.
func (h *Handle) Class() string { return h.class }

// NLPRef returns the pretrained model name.
func (h *Handle) NLPRef() string { return h.nlpRef }

// Language returns the pretrained model language.
func (h *Handle) Language() string { return h.language }

func (h *Handle) UID() string        { return h.uid }
func (h *Handle) StorageRef() string { return h.storageRef }
func (h *Handle) OutputCol() string  { return h.outputCol }

func (h *Handle) InputCols() []string {
	return slices.Clone(h.inputCols)
}

func (h *Handle) SetInputCols(cols []string) {
	h.inputCols = slices.Clone(cols)
}

func (h *Handle) Clone() Model {
	cp := *h
	cp.inputCols = slices.Clone(h.inputCols)
	return &cp
}

// String returns the UID, matching how model handles print.
func (h *Handle) String() string {
	return h.uid
}
