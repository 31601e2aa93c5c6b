package ui

import (
	stdErrors "errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hannaerdza/titanic-visualization/adapters/excel"
	"github.com/hannaerdza/titanic-visualization/domain/passenger"
	"github.com/hannaerdza/titanic-visualization/internal/dashboard"
	"github.com/hannaerdza/titanic-visualization/internal/errors"
)

const (
	tabPassengers = "passengers"
	tabAnalysis   = "analysis"

	// refreshEvent tells the table and chart panels to reload after an import
	refreshEvent = "passengers-updated"

	// multipartOverhead leaves room for boundaries and headers around the file part
	multipartOverhead = 1 << 20
)

// tablePanel is the data behind the passenger table fragment
type tablePanel struct {
	Table  dashboard.TableView
	Notice string
}

type indexPage struct {
	Tab    string
	Table  tablePanel
	Charts dashboard.ChartsView
	Upload dashboard.UploadView
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ensureLoaded performs the initial fetch the first time a session is used
func (s *Server) ensureLoaded(c *gin.Context, store *dashboard.Store) {
	if store.Loaded() {
		return
	}
	if err := store.Load(c.Request.Context()); err != nil {
		s.logger.Warn("[Dashboard] initial load incomplete: %v", err)
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	store := storeFrom(c)
	s.ensureLoaded(c, store)

	tab := c.DefaultQuery("tab", tabPassengers)
	if tab != tabAnalysis {
		tab = tabPassengers
	}

	snap := store.Snapshot()
	s.renderTemplate(c, http.StatusOK, "index.html", indexPage{
		Tab:    tab,
		Table:  tablePanel{Table: snap.Table},
		Charts: snap.Charts,
		Upload: snap.Upload,
	})
}

func (s *Server) handlePassengers(c *gin.Context) {
	store := storeFrom(c)
	if c.Query("refresh") != "" && store.Loaded() {
		if err := store.RefreshPassengers(c.Request.Context()); err != nil {
			s.logger.Warn("[Dashboard] passenger refresh failed: %v", err)
		}
	}
	s.ensureLoaded(c, store)

	table := store.Snapshot().Table
	if isHTMX(c) {
		s.renderTemplate(c, http.StatusOK, "passenger_table", tablePanel{Table: table})
		return
	}
	c.JSON(http.StatusOK, table)
}

func (s *Server) handleChangeFilter(c *gin.Context) {
	store := storeFrom(c)
	field, err := passenger.ParseField(c.PostForm("field"))
	if err == nil {
		err = store.ChangeFilter(c.Request.Context(), field, c.PostForm("value"))
	}
	s.respondTable(c, store, err)
}

func (s *Server) handleResetFilters(c *gin.Context) {
	store := storeFrom(c)
	s.respondTable(c, store, store.ResetFilters(c.Request.Context()))
}

func (s *Server) handleSetPage(c *gin.Context) {
	store := storeFrom(c)
	page, err := formInt(c, "page")
	if err == nil {
		err = store.SetPage(page)
	}
	s.respondTable(c, store, err)
}

func (s *Server) handleSetRowsPerPage(c *gin.Context) {
	store := storeFrom(c)
	rows, err := formInt(c, "rows")
	if err == nil {
		err = store.SetRowsPerPage(rows)
	}
	s.respondTable(c, store, err)
}

// respondTable re-renders the table after a state change. Rejected input is shown as a notice;
// fetch failures are already part of the table state.
func (s *Server) respondTable(c *gin.Context, store *dashboard.Store, err error) {
	panel := tablePanel{Table: store.Snapshot().Table}
	if err != nil {
		if errors.HasCode(err, errors.CodeInvalidInput) {
			panel.Notice = err.Error()
		} else {
			s.logger.Warn("[Dashboard] passenger fetch failed: %v", err)
		}
	}

	if !isHTMX(c) {
		if panel.Notice != "" {
			c.JSON(http.StatusBadRequest, errorResponse(err))
			return
		}
		c.Redirect(http.StatusSeeOther, "/?tab="+tabPassengers)
		return
	}
	s.renderTemplate(c, http.StatusOK, "passenger_table", panel)
}

func (s *Server) handleStatistics(c *gin.Context) {
	store := storeFrom(c)
	if c.Query("refresh") != "" && store.Loaded() {
		if err := store.RefreshStatistics(c.Request.Context()); err != nil {
			s.logger.Warn("[Dashboard] statistics refresh failed: %v", err)
		}
	}
	s.ensureLoaded(c, store)

	charts := store.Snapshot().Charts
	if isHTMX(c) {
		s.renderTemplate(c, http.StatusOK, "charts", charts)
		return
	}
	c.JSON(http.StatusOK, charts)
}

func (s *Server) handleUpload(c *gin.Context) {
	store := storeFrom(c)
	limit := s.config.MaxUploadBytes
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}

	file, header, err := c.Request.FormFile("file")
	switch {
	case err == http.ErrMissingFile:
		// nothing chosen in the form; Upload falls back to an earlier selection or asks for one
	case err != nil:
		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) {
			store.ShowUploadError(fmt.Sprintf("File exceeds the %d MB limit", limit>>20))
		} else {
			store.ShowUploadError("Upload failed: the form could not be read")
		}
		s.logger.Warn("[handleUpload] FAILED - unreadable upload: %v", err)
		s.respondUpload(c, store, errors.InvalidInput(err.Error()))
		return
	default:
		defer file.Close()
		if err := s.selectUpload(store, file, header); err != nil {
			s.respondUpload(c, store, err)
			return
		}
	}

	s.respondUpload(c, store, store.Upload(c.Request.Context()))
}

// selectUpload validates the uploaded file, converts workbooks to CSV and records it as the selection
func (s *Server) selectUpload(store *dashboard.Store, file multipart.File, header *multipart.FileHeader) error {
	limit := s.config.MaxUploadBytes
	if limit > 0 && header.Size > limit {
		msg := fmt.Sprintf("File size (%.1f MB) exceeds the %d MB limit", float64(header.Size)/(1024*1024), limit>>20)
		s.logger.Warn("[handleUpload] FAILED - File too large: %d bytes", header.Size)
		store.ShowUploadError(msg)
		return errors.InvalidInput(msg)
	}
	if !excel.IsSupported(header.Filename) {
		msg := "Only CSV (.csv) and Excel (.xlsx) files are allowed"
		s.logger.Warn("[handleUpload] FAILED - Invalid file extension: %s", header.Filename)
		store.ShowUploadError(msg)
		return errors.InvalidInput(msg)
	}

	reader := excel.NewDataReader(header.Filename, s.logger)
	content, err := reader.ReadCSV(file)
	if err != nil {
		store.ShowUploadError(fmt.Sprintf("Upload failed: %s", err.Error()))
		return errors.WithCode(errors.CodeInvalidInput, err)
	}
	store.SelectFile(dashboard.SelectedFile{Name: reader.CSVName(), Content: content})
	return nil
}

func (s *Server) respondUpload(c *gin.Context, store *dashboard.Store, err error) {
	if err != nil && !errors.HasCode(err, errors.CodeInvalidInput) {
		s.logger.Warn("[handleUpload] import failed: %v", err)
	}

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/?tab="+tabPassengers)
		return
	}
	if err == nil {
		c.Header("HX-Trigger", refreshEvent)
	}
	s.renderTemplate(c, http.StatusOK, "upload", store.Snapshot().Upload)
}
