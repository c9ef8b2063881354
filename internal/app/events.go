package app

import (
	"github.com/bethropolis/prose/internal/event"
	"github.com/bethropolis/prose/internal/logger"
)

func (a *App) subscribeEvents() {
	a.eventManager.Subscribe(event.TypeDocumentModified, a.handleDocumentChangedForStatus)
	a.eventManager.Subscribe(event.TypeDocumentSaved, a.handleDocumentChangedForStatus)
	a.eventManager.Subscribe(event.TypeDocumentLoaded, a.handleDocumentLoadedForStatus)
	a.eventManager.Subscribe(event.TypePasteDegraded, a.handlePasteDegraded)
	a.eventManager.Subscribe(event.TypeUploadStarted, a.handleUploadProgress)
	a.eventManager.Subscribe(event.TypeMediaInserted, a.handleUploadProgress)
	a.eventManager.Subscribe(event.TypeUploadFailed, a.handleUploadFailed)
}

// handleDocumentChangedForStatus refreshes the modified indicator.
func (a *App) handleDocumentChangedForStatus(e event.Event) bool {
	a.statusBar.SetFileInfo(a.editor.FilePath(), a.editor.IsModified())
	return false
}

func (a *App) handleDocumentLoadedForStatus(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentLoadedData); ok {
		a.statusBar.SetFileInfo(data.FilePath, false)
	}
	a.requestRedraw()
	return false
}

func (a *App) handlePasteDegraded(e event.Event) bool {
	if data, ok := e.Data.(event.PasteDegradedData); ok {
		logger.WarnTagf("paste", "App: %v", data.Reason)
	}
	a.statusBar.SetTemporaryMessage("Pasted as plain text")
	return false
}

func (a *App) handleUploadProgress(e event.Event) bool {
	data, ok := e.Data.(event.UploadData)
	if !ok {
		return false
	}
	a.statusBar.SetUploads(data.InFlight)
	if e.Type == event.TypeMediaInserted {
		a.statusBar.SetTemporaryMessage("Inserted %s", data.File)
	}
	return false
}

func (a *App) handleUploadFailed(e event.Event) bool {
	data, ok := e.Data.(event.UploadData)
	if !ok {
		return false
	}
	logger.ErrorTagf("media", "App: upload of %s failed: %v", data.File, data.Err)
	a.statusBar.SetUploads(data.InFlight)
	a.statusBar.SetTemporaryMessage("Upload failed: %s: %v", data.File, data.Err)
	return false
}
