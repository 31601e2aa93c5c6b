package dashboard

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hannaerdza/titanic-visualization/internal/errors"
)

const (
	MsgSelectFile     = "Please select a file to upload"
	MsgUploadSuccess  = "File uploaded successfully"
	msgUploadFailedFm = "Upload failed: %s"
)

// SelectedFile is a file chosen for upload, already converted to CSV
type SelectedFile struct {
	Name    string
	Content []byte
}

// UploadState is the upload form's state
type UploadState struct {
	Selected *SelectedFile
	Status   Status
	Error    string
	Success  string
}

// UploadView is the upload form as rendered
type UploadView struct {
	SelectedName string
	Busy         bool
	Error        string
	Success      string
}

// View renders the upload state
func (u UploadState) View() UploadView {
	view := UploadView{
		Busy:    u.Status == StatusLoading,
		Error:   u.Error,
		Success: u.Success,
	}
	if u.Selected != nil {
		view.SelectedName = u.Selected.Name
	}
	return view
}

// SelectFile records the chosen file and clears a previous error
func (s *Store) SelectFile(f SelectedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload.Selected = &f
	s.upload.Error = ""
}

// ShowUploadError reports a problem found before the upload started, such as an unsupported file
func (s *Store) ShowUploadError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// an import already in flight keeps its status so a second one stays blocked
	if s.upload.Status != StatusLoading {
		s.upload.Status = StatusError
	}
	s.upload.Error = message
	s.upload.Success = ""
}

// Upload sends the selected file. On success the passenger list and the statistics are re-fetched once each.
func (s *Store) Upload(ctx context.Context) error {
	s.mu.Lock()
	if s.upload.Selected == nil {
		s.upload.Error = MsgSelectFile
		s.upload.Success = ""
		s.mu.Unlock()
		return errors.InvalidInput(MsgSelectFile)
	}
	if s.upload.Status == StatusLoading {
		s.mu.Unlock()
		return errors.InvalidInput("an upload is already in progress")
	}
	file := *s.upload.Selected
	s.upload.Status = StatusLoading
	s.upload.Error = ""
	s.upload.Success = ""
	s.mu.Unlock()

	ack, err := s.api.ImportCSV(ctx, file.Name, bytes.NewReader(file.Content))
	s.metrics.ObserveUpload(err)

	s.mu.Lock()
	if err != nil {
		s.upload.Status = StatusError
		s.upload.Error = fmt.Sprintf(msgUploadFailedFm, err.Error())
		s.mu.Unlock()
		s.logger.Warn("[Upload] %s failed: %v", file.Name, err)
		return err
	}
	s.upload.Status = StatusSuccess
	s.upload.Success = MsgUploadSuccess
	// the refresh below stands in for the initial load
	s.loaded = true
	s.mu.Unlock()

	if ack != nil {
		s.logger.Info("[Upload] %s imported (%d bytes): %s", file.Name, len(file.Content), ack.Message)
	}
	return s.refreshAll(ctx)
}
