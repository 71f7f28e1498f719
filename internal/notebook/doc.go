// Package notebook composes the helpers that act on the current notebook.
//
// Service ties together the session resolver, the front-end command channel
// and the HTML exporter. SaveAsHTML is the one orchestrated operation: it
// triggers a save, resolves the notebook path, waits for the save to land
// and exports the file next to the source or into a target folder.
//
// Save completion is not observable through the front-end, so the wait polls
// the document's modification time and gives up after a configurable grace
// period, then exports whatever is on disk.
package notebook
