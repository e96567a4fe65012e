package interaction

// UndoableAction is a reversible user-facing operation, independent of the
// Command Processor's resource commands — it tracks higher-level actions like
// adding or removing a drawing.
type UndoableAction struct {
	Description string
	Execute     func()
	Undo        func()
}

// CommandHistory is a generic undo/redo stack for UndoableActions.
type CommandHistory struct {
	undoStack []UndoableAction
	redoStack []UndoableAction
}

// NewCommandHistory returns an empty CommandHistory.
func NewCommandHistory() *CommandHistory {
	return &CommandHistory{}
}

// Execute runs action.Execute, pushes it onto the undo stack, and clears the
// redo stack (a new action invalidates the redo branch).
func (h *CommandHistory) Execute(action UndoableAction) {
	action.Execute()
	h.undoStack = append(h.undoStack, action)
	h.redoStack = nil
}

// Undo reverses the most recent action. Returns false if there is nothing to undo.
func (h *CommandHistory) Undo() bool {
	if len(h.undoStack) == 0 {
		return false
	}
	action := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	action.Undo()
	h.redoStack = append(h.redoStack, action)
	return true
}

// Redo re-applies the most recently undone action. Returns false if there is nothing to redo.
func (h *CommandHistory) Redo() bool {
	if len(h.redoStack) == 0 {
		return false
	}
	action := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	action.Execute()
	h.undoStack = append(h.undoStack, action)
	return true
}

// CanUndo reports whether Undo would succeed.
func (h *CommandHistory) CanUndo() bool { return len(h.undoStack) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *CommandHistory) CanRedo() bool { return len(h.redoStack) > 0 }

// UndoCount and RedoCount report stack depths, useful for UI display.
func (h *CommandHistory) UndoCount() int { return len(h.undoStack) }
func (h *CommandHistory) RedoCount() int { return len(h.redoStack) }

// Clear empties both stacks.
func (h *CommandHistory) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// UndoDescription returns the description of the next action Undo would
// reverse, or "" if the undo stack is empty.
func (h *CommandHistory) UndoDescription() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Description
}

// RedoDescription returns the description of the next action Redo would
// re-apply, or "" if the redo stack is empty.
func (h *CommandHistory) RedoDescription() string {
	if len(h.redoStack) == 0 {
		return ""
	}
	return h.redoStack[len(h.redoStack)-1].Description
}
